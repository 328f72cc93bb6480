package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn indicates the header lacks one of RequiredColumns.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptySource indicates no dataset location was configured.
	ErrEmptySource = errors.New("dataset source is empty")
)

// ParseError reports a cell that could not be decoded.
type ParseError struct {
	Row    int // 1-based data row, header excluded
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FetchError indicates the remote dataset answered with a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("fetch %s: status=%d body=%s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch %s: status=%d", e.URL, e.StatusCode)
}

// Temporary reports whether retrying the request could succeed.
func (e *FetchError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
