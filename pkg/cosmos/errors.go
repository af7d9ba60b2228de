// Copyright 2025 ChainCodec Authors

package cosmos

import "errors"

var (
	// ErrMalformedAttributes is returned when raw.Data is not a valid
	// ABCI attribute JSON document. The event itself succeeds as long
	// as the attribute list is parseable; this is the one case where
	// it isn't.
	ErrMalformedAttributes = errors.New("cosmos: attribute data is not valid JSON")
)
