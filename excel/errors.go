package excel

import "errors"

// Error taxonomy for the transform pipeline. Every error returned by this
// package wraps exactly one of these sentinels so callers can classify
// failures with errors.Is.
var (
	// ErrFile marks an unopenable archive or a missing required part.
	ErrFile = errors.New("file error")
	// ErrParse marks malformed XML in any document sub-part.
	ErrParse = errors.New("parse error")
	// ErrValidation marks an unmet business precondition.
	ErrValidation = errors.New("validation error")
	// ErrImage marks a per-cell image failure. These are recoverable: the
	// cell degrades to an empty image-less cell and a diagnostic is logged.
	ErrImage = errors.New("image error")
	// ErrWrite marks an output write or finalization failure.
	ErrWrite = errors.New("write error")
)
