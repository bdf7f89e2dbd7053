package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/pkg/metrics"
)

// Store operation names used for metrics labels.
const (
	opAdd     = "add"
	opUpdate  = "update"
	opDelete  = "delete"
	opReplace = "replace"
)

// MemoryStore is an in-memory Store. Records are kept in insertion order;
// index maps identifiers to their position for duplicate checks and lookups.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.Record
	index   map[string]int
	groups  model.GroupSet

	metricsEnabled bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store using the default groups unless
// overridden by options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		index:          make(map[string]int),
		groups:         model.NewGroupSet(),
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Groups returns the set of valid group labels.
func (s *MemoryStore) Groups() model.GroupSet {
	return s.groups
}

// Add appends rec after checking identifier uniqueness and group validity.
// Identifiers are compared exactly as stored.
func (s *MemoryStore) Add(ctx context.Context, rec model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[rec.ID]; exists {
		s.observe(opAdd, false)
		return fmt.Errorf("add %q: %w", rec.ID, ErrDuplicateIdentifier)
	}
	group, err := s.groups.Validate(rec.Group)
	if err != nil {
		s.observe(opAdd, false)
		return fmt.Errorf("add %q: %w", rec.ID, err)
	}
	rec.Group = group

	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	s.observe(opAdd, true)
	return nil
}

// Update stages the new fields, validates them and only then commits.
func (s *MemoryStore) Update(ctx context.Context, id string, fields model.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		s.observe(opUpdate, false)
		return fmt.Errorf("update %q: %w", id, ErrNotFound)
	}
	group, err := s.groups.Validate(fields.Group)
	if err != nil {
		s.observe(opUpdate, false)
		return fmt.Errorf("update %q: %w", id, err)
	}
	fields.Group = group

	s.records[pos] = s.records[pos].WithFields(fields)
	s.observe(opUpdate, true)
	return nil
}

// Delete removes the record with id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		s.observe(opDelete, false)
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}

	s.records = slices.Delete(s.records, pos, pos+1)
	s.reindex()
	s.observe(opDelete, true)
	return nil
}

// Get returns a copy of the record with id.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return model.Record{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return s.records[pos], nil
}

// All returns a snapshot copy of every record in insertion order.
func (s *MemoryStore) All(ctx context.Context) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.records)
}

// Replace validates the whole batch before swapping it in; on error the
// store keeps its previous contents.
func (s *MemoryStore) Replace(ctx context.Context, records []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Record, 0, len(records))
	index := make(map[string]int, len(records))
	for _, rec := range records {
		if _, exists := index[rec.ID]; exists {
			s.observe(opReplace, false)
			return fmt.Errorf("replace %q: %w", rec.ID, ErrDuplicateIdentifier)
		}
		group, err := s.groups.Validate(rec.Group)
		if err != nil {
			s.observe(opReplace, false)
			return fmt.Errorf("replace %q: %w", rec.ID, err)
		}
		rec.Group = group
		index[rec.ID] = len(next)
		next = append(next, rec)
	}

	s.records = next
	s.index = index
	s.observe(opReplace, true)
	return nil
}

// Count returns the number of records.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// reindex rebuilds the id index. Must be called with s.mu held.
func (s *MemoryStore) reindex() {
	clear(s.index)
	for i, rec := range s.records {
		s.index[rec.ID] = i
	}
}

// observe records the outcome of a mutation. Must be called with s.mu held.
func (s *MemoryStore) observe(op string, ok bool) {
	if !s.metricsEnabled {
		return
	}
	result := metrics.ResultOK
	if !ok {
		result = metrics.ResultError
	}
	metrics.RecordStoreOperation(op, result)
	metrics.UpdateRecordsTotal(len(s.records))
}
