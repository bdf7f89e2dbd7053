package flatfile

import (
	"errors"
	"fmt"
)

// Sentinel kinds for data file errors.
var (
	ErrMalformedLine = errors.New("malformed line")
	ErrPathRequired  = errors.New("data file path is required")
)

// LineError reports a data file line that was skipped on load.
type LineError struct {
	Line    int
	Content string
	Reason  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %s: %q", e.Line, ErrMalformedLine, e.Reason, e.Content)
}

func (e *LineError) Unwrap() error { return ErrMalformedLine }
