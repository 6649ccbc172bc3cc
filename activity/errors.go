package activity

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the normalization pipeline. Callers match
// them with errors.Is; the wrapped message carries the file context.
var (
	// ErrUnsupportedFormat reports a path whose extension/name matches no
	// known activity format.
	ErrUnsupportedFormat = errors.New("unsupported activity file format")

	// ErrMissingSection reports a structurally required message or section
	// that is absent from an otherwise readable file.
	ErrMissingSection = errors.New("missing required section")

	// ErrMalformedField reports a field that does not match its expected
	// shape (date/time pattern, numeric parse, column count).
	ErrMalformedField = errors.New("malformed field")
)

// ErrEmptyRecording reports a recordings table with zero rows where the
// duration must be derived. It is a kind of missing section.
var ErrEmptyRecording = fmt.Errorf("%w: empty recording series", ErrMissingSection)
