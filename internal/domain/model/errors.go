package model

import "errors"

// Sentinel error kinds shared by the roster packages.
var (
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrNotFound            = errors.New("record not found")
	ErrInvalidGroup        = errors.New("invalid group")
)
