package document

import "errors"

var (
	ErrUnavailable   = errors.New("document unavailable")
	ErrUnknownFormat = errors.New("unknown document format")
	ErrReadOnly      = errors.New("format is read-only")
	ErrDuplicate     = errors.New("format already registered")
)
