// Copyright 2025 ChainCodec Authors

package evm

import (
	"fmt"

	"github.com/chaincodec/chaincodec/pkg/decode"
)

// ValueTypeMismatchError reports an encoder input whose NormalizedValue
// kind does not match the function's declared ABI type at Index.
type ValueTypeMismatchError struct {
	Index    int
	Expected string
	Got      string
}

func (e *ValueTypeMismatchError) Error() string {
	return fmt.Sprintf("value type mismatch at input %d: expected %s, got %s", e.Index, e.Expected, e.Got)
}

func (e *ValueTypeMismatchError) Unwrap() error { return decode.ErrValueTypeMismatch }

// OutOfRangeError reports an encoder input whose magnitude exceeds the
// declared bit width at Index.
type OutOfRangeError struct {
	Index int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value out of range at input %d", e.Index)
}

func (e *OutOfRangeError) Unwrap() error { return decode.ErrOutOfRange }
