package ingest

import "errors"

// Domain errors for source resolution.
var (
	ErrEmptySource     = errors.New("source contains no content")
	ErrUnsupportedKind = errors.New("unsupported source kind")
	ErrSourceTooLarge  = errors.New("source exceeds size limit")
	ErrOutsideRoot     = errors.New("file path escapes the configured root")
)
