// Package repository defines the roster store interface and errors.
package repository

import (
	"context"

	"github.com/okian/rapidrun/internal/domain/model"
)

// Store provides read/write access to the roster records.
type Store interface {
	// Add appends a record. Returns ErrDuplicateIdentifier when the id is
	// already present and ErrInvalidGroup when the group is outside the set.
	Add(ctx context.Context, rec model.Record) error

	// Update overwrites every mutable field of the record with id.
	// Returns ErrNotFound if the id is unknown. Nothing changes on error.
	Update(ctx context.Context, id string, fields model.Fields) error

	// Delete removes the record with id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Get returns a copy of the record with id.
	Get(ctx context.Context, id string) (model.Record, error)

	// All returns a snapshot of every record in insertion order.
	All(ctx context.Context) []model.Record

	// Replace discards the current contents and installs records.
	Replace(ctx context.Context, records []model.Record) error

	// Count returns the number of records.
	Count(ctx context.Context) int

	// Groups returns the set of valid group labels.
	Groups() model.GroupSet
}
