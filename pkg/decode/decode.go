// Copyright 2025 ChainCodec Authors
//
// Decoder and Dispatcher: the chain-family-keyed dispatch contract that
// routes a RawEvent to the right chain-specific decoder (pkg/evm,
// pkg/solana, pkg/cosmos) and resolves its schema before decoding.
package decode

import (
	"sync"

	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// Decoder is the contract every chain-specific decoder (pkg/evm,
// pkg/solana, pkg/cosmos) satisfies: the decode-only operations the
// batch and stream engines need.
type Decoder interface {
	// Fingerprint computes the chain-appropriate fingerprint of raw,
	// independent of any particular schema.
	Fingerprint(raw value.RawEvent) value.EventFingerprint

	// DecodeEvent decodes raw against s, which the caller has already
	// resolved via a schema.Registry lookup on Fingerprint(raw).
	DecodeEvent(raw value.RawEvent, s schema.Schema) (value.DecodedEvent, error)
}

// Dispatcher routes a RawEvent to the Decoder registered for its chain
// family. It keys on ChainFamily rather than a per-chain name, since one
// Decoder implementation serves every chain within a family.
type Dispatcher struct {
	mu       sync.RWMutex
	decoders map[value.ChainFamily]Decoder
}

// NewDispatcher returns a Dispatcher with no decoders registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{decoders: make(map[value.ChainFamily]Decoder)}
}

// Register installs dec as the decoder for family, replacing any prior
// registration.
func (d *Dispatcher) Register(family value.ChainFamily, dec Decoder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.decoders[family] = dec
}

// For returns the decoder registered for family, if any.
func (d *Dispatcher) For(family value.ChainFamily) (Decoder, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dec, ok := d.decoders[family]
	return dec, ok
}

// DecodeEvent resolves raw's decoder and schema, then decodes it. It
// returns *SchemaNotFoundError when the registry has no matching
// schema; callers (the batch and stream engines) treat that as a skip,
// not a fatal error.
func (d *Dispatcher) DecodeEvent(raw value.RawEvent, reg *schema.Registry) (value.DecodedEvent, error) {
	dec, ok := d.For(raw.Chain.Family)
	if !ok {
		return value.DecodedEvent{}, ErrUnsupportedChainFamily
	}

	fp := dec.Fingerprint(raw)
	s, ok := reg.ByFingerprint(fp)
	if !ok {
		return value.DecodedEvent{}, &SchemaNotFoundError{Fingerprint: fp}
	}
	return dec.DecodeEvent(raw, s)
}
