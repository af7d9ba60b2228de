// Copyright 2025 ChainCodec Authors
//
// Package schema defines the canonical type system, the Schema/FieldDef
// model, and the in-memory schema registry.
package schema

import "fmt"

// CanonicalKind tags the shape of a CanonicalType.
type CanonicalKind string

const (
	KindUint      CanonicalKind = "uint"
	KindInt       CanonicalKind = "int"
	KindBool      CanonicalKind = "bool"
	KindAddress   CanonicalKind = "address"
	KindPubkey    CanonicalKind = "pubkey"
	KindBech32    CanonicalKind = "bech32"
	KindBytes     CanonicalKind = "bytes"
	KindHash256   CanonicalKind = "hash256"
	KindStr       CanonicalKind = "string"
	KindTimestamp CanonicalKind = "timestamp"
	KindDecimal   CanonicalKind = "decimal"
	KindArray     CanonicalKind = "array"
	KindTuple     CanonicalKind = "tuple"
)

// CanonicalType describes one field's shape, independent of source
// chain, mapping deterministically both to a chain ABI type and to a
// NormalizedValue variant.
type CanonicalType struct {
	Kind CanonicalKind

	// Bits applies to Uint/Int: 8..256 in multiples of 8 for EVM,
	// 8/16/32/64/128 for Solana.
	Bits int

	// AddressFamily applies to KindAddress ("evm" is the only family
	// that currently uses fixed-width address encoding).
	AddressFamily string

	// FixedLen applies to KindBytes: 0 means dynamic, 1..32 means bytesN.
	FixedLen int

	// DecimalScale applies to KindDecimal: number of fractional digits, 0..38.
	DecimalScale int

	// Elem/ArrayLen apply to KindArray: ArrayLen 0 means a dynamic T[],
	// non-zero means a fixed T[N].
	Elem     *CanonicalType
	ArrayLen int

	// Fields apply to KindTuple: named, ordered subfields.
	Fields []FieldDef
}

// String renders a human-readable form, primarily for error messages.
func (t CanonicalType) String() string {
	switch t.Kind {
	case KindUint:
		return fmt.Sprintf("uint<%d>", t.Bits)
	case KindInt:
		return fmt.Sprintf("int<%d>", t.Bits)
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindPubkey:
		return "pubkey"
	case KindBech32:
		return "bech32address"
	case KindBytes:
		if t.FixedLen > 0 {
			return fmt.Sprintf("bytes<%d>", t.FixedLen)
		}
		return "bytes"
	case KindHash256:
		return "hash256"
	case KindStr:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindDecimal:
		return fmt.Sprintf("decimal{decimals=%d}", t.DecimalScale)
	case KindArray:
		if t.ArrayLen > 0 {
			return fmt.Sprintf("%s[%d]", t.Elem.String(), t.ArrayLen)
		}
		return fmt.Sprintf("%s[]", t.Elem.String())
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// EVMTypeName returns the Solidity ABI type name used to build the
// canonical event/function signature: EVM ABI type names, not
// descriptive aliases like hash256.
func (t CanonicalType) EVMTypeName() string {
	switch t.Kind {
	case KindUint:
		return fmt.Sprintf("uint%d", t.Bits)
	case KindInt:
		return fmt.Sprintf("int%d", t.Bits)
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindBytes:
		if t.FixedLen > 0 {
			return fmt.Sprintf("bytes%d", t.FixedLen)
		}
		return "bytes"
	case KindHash256:
		return "bytes32"
	case KindStr:
		return "string"
	case KindTimestamp:
		return "uint256"
	case KindDecimal:
		return "uint256"
	case KindArray:
		if t.ArrayLen > 0 {
			return fmt.Sprintf("%s[%d]", t.Elem.EVMTypeName(), t.ArrayLen)
		}
		return fmt.Sprintf("%s[]", t.Elem.EVMTypeName())
	case KindTuple:
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Type.EVMTypeName()
		}
		s := "("
		for i, n := range names {
			if i > 0 {
				s += ","
			}
			s += n
		}
		return s + ")"
	default:
		return "bytes32"
	}
}

// IsDynamicEVM reports whether the EVM ABI encodes this type as a
// dynamic (offset+length) value rather than a fixed 32-byte slot. This
// decides whether an indexed occurrence stores the value itself or
// keccak256(value).
func (t CanonicalType) IsDynamicEVM() bool {
	switch t.Kind {
	case KindStr:
		return true
	case KindBytes:
		return t.FixedLen == 0
	case KindArray:
		if t.ArrayLen == 0 {
			return true
		}
		return t.Elem.IsDynamicEVM()
	case KindTuple:
		for _, f := range t.Fields {
			if f.Type.IsDynamicEVM() {
				return true
			}
		}
		return false
	default:
		return false
	}
}
