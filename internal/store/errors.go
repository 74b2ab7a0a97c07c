package store

import (
	"errors"
	"fmt"
)

// ErrUnreachable indicates the remote catalog store could not be reached
// within the configured timeout.
var ErrUnreachable = errors.New("remote store unreachable")

// ErrMalformedPayload indicates the remote store answered with a body
// that is not the expected JSON collection.
var ErrMalformedPayload = errors.New("malformed store payload")

// StoreError carries enough context (operation, collection, URL) for the
// caller to log or display a failed backend call. The engine never
// retries; it reports upward.
type StoreError struct {
	Op     string
	Target string
	URL    string
	Err    error
}

func (e *StoreError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("store: %s %s (%s): %v", e.Op, e.Target, e.URL, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op, target, url string, err error) error {
	return &StoreError{Op: op, Target: target, URL: url, Err: err}
}
