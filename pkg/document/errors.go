package document

import "errors"

// Sentinel errors for the document model.
var (
	// ErrInvariant reports a document that violates a structural invariant.
	ErrInvariant = errors.New("document invariant violated")

	// ErrOutOfRange reports a row, token, or offset outside the document.
	ErrOutOfRange = errors.New("position out of range")
)
