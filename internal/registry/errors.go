package registry

import "errors"

// Validation failures: reported to the caller, no state mutated.
var (
	ErrDuplicateName = errors.New("name already exists")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// ErrNotFound covers unknown product or shop names and dangling
// catalogue references. It is a normal, checkable condition, never a
// crash.
var ErrNotFound = errors.New("not found")
