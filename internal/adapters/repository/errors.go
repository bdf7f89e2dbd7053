package repository

import "github.com/okian/rapidrun/internal/domain/model"

// Sentinel kinds for store errors, re-exported from the domain model so
// callers can match them without importing it.
var (
	ErrDuplicateIdentifier = model.ErrDuplicateIdentifier
	ErrNotFound            = model.ErrNotFound
	ErrInvalidGroup        = model.ErrInvalidGroup
)
