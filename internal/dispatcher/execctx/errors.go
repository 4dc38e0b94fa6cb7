package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEngine indicates the engine is required but not set.
	ErrMissingEngine = errors.New("execution context: engine is required")

	// ErrReadOnly indicates the buffer is read-only.
	ErrReadOnly = errors.New("execution context: buffer is read-only")

	// ErrMissingFilePath indicates the action needs the document path.
	ErrMissingFilePath = errors.New("execution context: file path is required")
)
