package factors

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrFactorNotFound indicates no record matched the key exactly and no
// GLOBAL fallback record exists. Row-level, never fatal to a batch.
var ErrFactorNotFound = constError("emission factor not found")

// NotFoundError carries the original lookup key for diagnostics.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("emission factor not found for %s", e.Key)
}

// Is makes errors.Is(err, ErrFactorNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrFactorNotFound
}
