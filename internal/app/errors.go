package service

import "errors"

// Sentinel kinds for session state errors.
var (
	ErrNoSelectionYet = errors.New("no horses selected for the final round yet")
	ErrNotTimedYet    = errors.New("no finish times assigned yet")
)
