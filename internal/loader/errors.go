package loader

import "errors"

var (
	// ErrUnsupportedFormat indicates a document format the loader cannot read.
	ErrUnsupportedFormat = errors.New("unsupported suite document format")

	// ErrInvalidDocument indicates a document whose overall structure is
	// unusable, such as malformed XML or a wrong root element.
	ErrInvalidDocument = errors.New("invalid suite document")

	// ErrInvalidDate indicates a date that matches no accepted layout.
	ErrInvalidDate = errors.New("invalid date")
)
