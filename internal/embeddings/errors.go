package embeddings

import "fmt"

// Error is a typed embedding failure. Callers decide whether to skip the
// input or abort; embedders never substitute a fallback vector, since an
// all-zero vector would silently pollute the collection with meaningless
// near-duplicate points.
type Error struct {
	Model string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embedding with %s failed: %v", e.Model, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// newError wraps err as a typed embedding failure for the given model.
func newError(model string, err error) *Error {
	return &Error{Model: model, Err: err}
}
