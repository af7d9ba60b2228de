// Copyright 2025 ChainCodec Authors

package solana

import "errors"

// Sentinel errors for the Borsh decode path. Truncation or an
// out-of-range tag byte both fail the whole event; neither becomes a
// per-field decode_errors entry.
var (
	ErrTruncatedData  = errors.New("solana: borsh data truncated")
	ErrOptionTagRange = errors.New("solana: option tag byte out of range")
	ErrUnsupportedType = errors.New("solana: canonical type not representable in Borsh")
)
