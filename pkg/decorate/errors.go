package decorate

import (
	"errors"
	"fmt"
)

// ErrInconsistent reports that the flattened text and the token stream disagree.
// It signals a defect, unlike an unknown grammar which only means there is
// nothing to highlight.
var ErrInconsistent = errors.New("flattened text and token stream are inconsistent")

// Mismatch reasons.
const (
	ReasonExhausted = "leaves exhausted before token end"
	ReasonDiverged  = "token text differs from flattened text"
	ReasonShort     = "token stream ends before flattened text"
)

// MismatchError locates an inconsistency found while mapping.
type MismatchError struct {
	// TokenIndex is the offending token; len(tokens) when the stream ended early.
	TokenIndex int

	// Pos is the byte position in the flattened text where mapping stopped.
	Pos int

	Reason string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: token %d at byte %d: %s", ErrInconsistent, e.TokenIndex, e.Pos, e.Reason)
}

func (e *MismatchError) Unwrap() error {
	return ErrInconsistent
}
