// Copyright 2025 ChainCodec Authors
//
// Package evm implements the EVM event/call decoder, encoder, and
// EIP-712 typed-data parser: parse an ABI, resolve events by topic[0],
// and unpack the non-indexed tail with go-ethereum's accounts/abi
// package.
package evm

import (
	"fmt"
	"math/big"

	"github.com/chaincodec/chaincodec/pkg/decode"
	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// indexedReferenceTypeNote is the decode_errors message recorded for
// indexed string/bytes/array/tuple fields, whose topic slot holds
// keccak256(value) rather than the value itself.
const indexedReferenceTypeNote = "indexed reference type; value not recoverable, hash only"

// EventDecoder implements decode.Decoder for EVM event logs.
type EventDecoder struct{}

// Fingerprint returns topics[0] verbatim, or the well-known zero
// fingerprint when topics is empty.
func (EventDecoder) Fingerprint(raw value.RawEvent) value.EventFingerprint {
	if len(raw.Topics) == 0 {
		return value.ZeroFingerprint
	}
	return value.NewFingerprint(raw.Topics[0])
}

// DecodeEvent decodes an EVM log against s: it checks the topic count
// against the schema's indexed field count, unpacks the non-indexed
// data tail via go-ethereum's ABI unpacker, and decodes each indexed
// topic slot directly.
func (EventDecoder) DecodeEvent(raw value.RawEvent, s schema.Schema) (value.DecodedEvent, error) {
	fp := EventDecoder{}.Fingerprint(raw)
	if fp != s.Fingerprint {
		return value.DecodedEvent{}, decode.ErrFingerprintMismatch
	}

	indexedCount := len(s.IndexedFields())
	if indexedCount != len(raw.Topics)-1 {
		return value.DecodedEvent{}, &decode.IndexedTopicCountMismatchError{Expected: indexedCount, Got: len(raw.Topics) - 1}
	}

	args, nonIndexedDefs, err := nonIndexedArguments(s.Fields)
	if err != nil {
		return value.DecodedEvent{}, fmt.Errorf("%w: building abi arguments: %v", decode.ErrAbiDecodeFailed, err)
	}
	decodedTail, err := args.UnpackValues(raw.Data)
	if err != nil {
		return value.DecodedEvent{}, fmt.Errorf("%w: %v", decode.ErrAbiDecodeFailed, err)
	}
	if len(decodedTail) != len(nonIndexedDefs) {
		return value.DecodedEvent{}, fmt.Errorf("%w: data tail produced %d values for %d non-indexed fields", decode.ErrAbiDecodeFailed, len(decodedTail), len(nonIndexedDefs))
	}

	fields := value.NewOrderedFields(len(s.Fields))
	decodeErrors := make(map[string]string)

	topicIdx := 1
	tailIdx := 0
	for _, f := range s.Fields {
		if !f.Indexed {
			v, err := fromABIValue(decodedTail[tailIdx], f.Type)
			tailIdx++
			if err != nil {
				decodeErrors[f.Name] = err.Error()
				fields.Set(f.Name, value.Null())
				continue
			}
			fields.Set(f.Name, v)
			continue
		}

		topic := raw.Topics[topicIdx]
		topicIdx++

		if f.Type.IsDynamicEVM() {
			fields.Set(f.Name, value.Hash256(fmt.Sprintf("0x%x", topic)))
			decodeErrors[f.Name] = indexedReferenceTypeNote
			continue
		}
		v, err := decodeIndexedValueType(topic, f.Type)
		if err != nil {
			decodeErrors[f.Name] = err.Error()
			fields.Set(f.Name, value.Null())
			continue
		}
		fields.Set(f.Name, v)
	}

	return value.DecodedEvent{
		SchemaName:     s.Name,
		SchemaVersion:  s.Version,
		Chain:          resolveSlug(s, raw.Chain),
		TxHash:         raw.TxHash,
		BlockNumber:    raw.BlockNumber,
		BlockTimestamp: raw.BlockTimestamp,
		LogIndex:       raw.LogIndex,
		Address:        raw.Address,
		Fields:         fields,
		Fingerprint:    fp,
		DecodeErrors:   decodeErrors,
	}, nil
}

// decodeIndexedValueType decodes one 32-byte topic slot holding an
// indexed value type: integers big-endian/sign-extended, bool from the
// last byte, address from the low 20 bytes, bytesN left-aligned.
func decodeIndexedValueType(topic []byte, ct schema.CanonicalType) (value.NormalizedValue, error) {
	if len(topic) != 32 {
		return value.NormalizedValue{}, fmt.Errorf("topic slot must be 32 bytes, got %d", len(topic))
	}
	switch ct.Kind {
	case schema.KindUint, schema.KindDecimal:
		n := new(big.Int).SetBytes(topic)
		return value.NewUint(n), nil
	case schema.KindTimestamp:
		n := new(big.Int).SetBytes(topic)
		return value.Timestamp(n.Int64()), nil
	case schema.KindInt:
		n := signExtend(topic, ct.Bits)
		return value.NewInt(n), nil
	case schema.KindBool:
		return value.Bool(topic[31] != 0), nil
	case schema.KindAddress:
		var raw [20]byte
		copy(raw[:], topic[12:32])
		return value.Address(value.ChecksumAddress(raw)), nil
	case schema.KindBytes:
		n := ct.FixedLen
		if n <= 0 || n > 32 {
			return value.NormalizedValue{}, fmt.Errorf("invalid fixed bytes length %d for indexed field", n)
		}
		return value.Bytes(topic[:n]), nil
	default:
		return value.NormalizedValue{}, fmt.Errorf("unsupported indexed value type %q", ct.Kind)
	}
}

// signExtend interprets a 32-byte big-endian two's-complement value as
// a signed integer of the given declared bit width.
func signExtend(topic []byte, bits int) *big.Int {
	n := new(big.Int).SetBytes(topic)
	// A 32-byte EVM word already carries full two's-complement sign
	// extension to 256 bits; reinterpret only if the top bit of the
	// declared width is set and the declared width is narrower than 256.
	if bits < 256 {
		signBit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
		masked := new(big.Int).And(n, new(big.Int).Sub(mod, big.NewInt(1)))
		if masked.Cmp(signBit) >= 0 {
			masked.Sub(masked, mod)
		}
		return masked
	}
	if n.Cmp(new(big.Int).Lsh(big.NewInt(1), 255)) >= 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 256))
	}
	return n
}

// resolveSlug picks the schema chain slug matching raw's concrete EVM
// chain id, falling back to the schema's first declared chain.
func resolveSlug(s schema.Schema, id value.ChainId) string {
	for _, slug := range s.Chains {
		if resolved, ok := value.LookupSlug(slug); ok && resolved.Family == value.ChainFamilyEVM && resolved.EVMChainID == id.EVMChainID {
			return slug
		}
	}
	if len(s.Chains) > 0 {
		return s.Chains[0]
	}
	return ""
}
