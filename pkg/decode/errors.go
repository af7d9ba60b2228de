// Copyright 2025 ChainCodec Authors
//
// Package decode defines the chain-decoder dispatch contract shared by
// the batch and stream engines, plus the decode-path error taxonomy
// common across EVM, Solana, and Cosmos.
package decode

import (
	"errors"
	"fmt"

	"github.com/chaincodec/chaincodec/pkg/value"
)

var (
	// ErrUnsupportedChainFamily means no Decoder is registered for a
	// RawEvent's chain family.
	ErrUnsupportedChainFamily = errors.New("decode: no decoder registered for chain family")

	// ErrFingerprintMismatch means the raw event's own fingerprint does
	// not equal the fingerprint of the schema it was decoded against.
	ErrFingerprintMismatch = errors.New("decode: fingerprint mismatch")

	// ErrAbiDecodeFailed is a structural decode failure: truncation,
	// offset overflow, invalid UTF-8.
	ErrAbiDecodeFailed = errors.New("decode: structural decode failure")

	// ErrUnknownSelector means the call decoder has no function entry
	// for a 4-byte selector.
	ErrUnknownSelector = errors.New("decode: unknown selector")

	// ErrArityMismatch, ErrValueTypeMismatch, ErrOutOfRange are encoder
	// input-validation failures.
	ErrArityMismatch     = errors.New("decode: arity mismatch")
	ErrValueTypeMismatch = errors.New("decode: value type mismatch")
	ErrOutOfRange        = errors.New("decode: value out of declared range")
)

// SchemaNotFoundError carries the fingerprint that had no registry
// entry. The batch and stream engines treat this as "skip", not a hard
// error, so callers type-assert for it rather than relying on errors.Is
// against a single sentinel.
type SchemaNotFoundError struct {
	Fingerprint value.EventFingerprint
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("decode: no schema registered for fingerprint %s", e.Fingerprint)
}

// IndexedTopicCountMismatchError reports an EVM schema whose indexed
// field count does not equal len(topics)-1.
type IndexedTopicCountMismatchError struct {
	Expected int
	Got      int
}

func (e *IndexedTopicCountMismatchError) Error() string {
	return fmt.Sprintf("decode: indexed topic count mismatch: expected %d, got %d", e.Expected, e.Got)
}
