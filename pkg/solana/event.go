// Copyright 2025 ChainCodec Authors
//
// Package solana implements the Anchor/Borsh event decoder as a pure
// decode path: no RPC, no transaction submission, just discriminator
// matching and positional Borsh field decode.
package solana

import (
	"fmt"

	"github.com/chaincodec/chaincodec/pkg/decode"
	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// EventDecoder implements decode.Decoder for Anchor program events.
type EventDecoder struct{}

// Fingerprint returns the raw event's leading topic verbatim. The
// Anchor program is expected to have carried its 8-byte discriminator
// there, mirroring how the EVM decoder treats topics[0].
func (EventDecoder) Fingerprint(raw value.RawEvent) value.EventFingerprint {
	if len(raw.Topics) == 0 {
		return value.ZeroFingerprint
	}
	return value.NewFingerprint(raw.Topics[0])
}

// DecodeEvent verifies the discriminator, then positionally consumes
// raw.Data per schema field order using Borsh's wire rules.
func (EventDecoder) DecodeEvent(raw value.RawEvent, s schema.Schema) (value.DecodedEvent, error) {
	fp := EventDecoder{}.Fingerprint(raw)
	if fp != s.Fingerprint {
		return value.DecodedEvent{}, decode.ErrFingerprintMismatch
	}

	r := newBorshReader(raw.Data)
	fields := value.NewOrderedFields(len(s.Fields))
	for _, f := range s.Fields {
		v, err := decodeValue(r, f.Type)
		if err != nil {
			return value.DecodedEvent{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields.Set(f.Name, v)
	}

	return value.DecodedEvent{
		SchemaName:     s.Name,
		SchemaVersion:  s.Version,
		Chain:          resolveSlug(s),
		TxHash:         raw.TxHash,
		BlockNumber:    raw.BlockNumber,
		BlockTimestamp: raw.BlockTimestamp,
		LogIndex:       raw.LogIndex,
		Address:        raw.Address,
		Fields:         fields,
		Fingerprint:    fp,
		DecodeErrors:   map[string]string{},
	}, nil
}

// resolveSlug picks the schema's first declared Solana chain slug.
// Unlike EVM, a Solana schema's chains list is never disambiguated by
// a numeric chain id, since program discriminators are already
// network-independent.
func resolveSlug(s schema.Schema) string {
	if len(s.Chains) > 0 {
		return s.Chains[0]
	}
	return ""
}

// EventDiscriminator computes the first 8 bytes of
// sha256("event:"+name), the fingerprint prescribed for Anchor events.
// It delegates to value.SolanaFingerprint so the hashing rule lives in
// exactly one place.
func EventDiscriminator(name string) value.EventFingerprint {
	return value.SolanaFingerprint(name)
}
