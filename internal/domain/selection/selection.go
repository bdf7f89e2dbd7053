// Package selection picks one representative record per group for the
// final round.
package selection

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/internal/domain/ordering"
)

// Source is the randomness capability consumed by the engines.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n). n must be > 0.
	IntN(n int) int
}

// NewSource returns a PCG-backed Source. A zero seed draws from the clock.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // non-negative clock value
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // simulation, not crypto
}

// Representative is the record chosen for a group. Seconds and Timed are
// transient and only meaningful after durations were assigned.
type Representative struct {
	Group   string
	Record  model.Record
	Seconds int
	Timed   bool
}

// Result is the outcome of one draw, ordered by group label.
type Result struct {
	RunID           string
	Representatives []*Representative
}

// Get returns the representative for group.
func (r *Result) Get(group string) (*Representative, bool) {
	for _, rep := range r.Representatives {
		if rep.Group == group {
			return rep, true
		}
	}
	return nil, false
}

// Len returns the number of represented groups.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Representatives)
}

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithSource sets the randomness source.
func WithSource(src Source) Option {
	return func(s *Selector) {
		if src != nil {
			s.src = src
		}
	}
}

// WithRunIDGenerator overrides how run identifiers are produced.
func WithRunIDGenerator(gen func() string) Option {
	return func(s *Selector) {
		if gen != nil {
			s.newRunID = gen
		}
	}
}

// Selector draws representatives.
type Selector struct {
	src      Source
	newRunID func() string
}

// NewSelector creates a Selector with a clock-seeded source.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		src:      NewSource(0),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select enumerates the distinct groups in records in label order and picks
// one record per group uniformly at random. Every call is an independent
// draw; groups without records are simply absent.
func (s *Selector) Select(ctx context.Context, records []model.Record) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	members := make(map[string][]model.Record)
	labels := make([]string, 0)
	for _, rec := range records {
		if _, ok := members[rec.Group]; !ok {
			labels = append(labels, rec.Group)
		}
		members[rec.Group] = append(members[rec.Group], rec)
	}

	res := &Result{
		RunID:           s.newRunID(),
		Representatives: make([]*Representative, 0, len(labels)),
	}
	for _, group := range ordering.SortBy(labels, ordering.Identity[string]) {
		candidates := members[group]
		if len(candidates) == 0 {
			continue
		}
		res.Representatives = append(res.Representatives, &Representative{
			Group:  group,
			Record: candidates[s.src.IntN(len(candidates))],
		})
	}
	return res, nil
}
