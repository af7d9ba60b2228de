// Copyright 2025 ChainCodec Authors

package batch

import (
	"errors"
	"fmt"
)

var (
	ErrNilDispatcher = errors.New("batch: dispatcher is nil")
	ErrNilRegistry   = errors.New("batch: registry is nil")
)

// ThrownError is the error a Throw-mode batch returns: the failure at
// the lowest input index aborts the whole run and partial successes
// are discarded.
type ThrownError struct {
	Index int
	Cause error
}

func (e *ThrownError) Error() string {
	return fmt.Sprintf("batch: input %d failed: %v", e.Index, e.Cause)
}

func (e *ThrownError) Unwrap() error { return e.Cause }
