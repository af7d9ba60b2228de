// Copyright 2025 ChainCodec Authors
//
// NormalizedValue is the chain-agnostic sum type every decoded field
// collapses to, plus the constructors and JSON wire encoding for it.
package value

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Kind tags the variant held by a NormalizedValue.
type Kind string

const (
	KindUint      Kind = "uint"
	KindBigUint   Kind = "biguint"
	KindInt       Kind = "int"
	KindBigInt    Kind = "bigint"
	KindBool      Kind = "bool"
	KindBytes     Kind = "bytes"
	KindStr       Kind = "str"
	KindAddress   Kind = "address"
	KindPubkey    Kind = "pubkey"
	KindBech32    Kind = "bech32"
	KindHash256   Kind = "hash256"
	KindTimestamp Kind = "timestamp"
	KindArray     Kind = "array"
	KindTuple     Kind = "tuple"
	KindNull      Kind = "null"
)

// maxUint128 is the largest value representable in 128 unsigned bits.
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// minInt128 / maxInt128 bound the 128-bit two's-complement signed range.
var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// TupleField is one named member of a NormalizedValue tuple, in
// declaration order. Field order is significant throughout chaincodec.
type TupleField struct {
	Name  string
	Value NormalizedValue
}

// NormalizedValue is the chain-agnostic sum type every decoded field
// collapses to. The zero value is Null.
type NormalizedValue struct {
	kind  Kind
	num   *big.Int // backing store for Uint/BigUint/Int/BigInt
	b     bool
	bytes []byte
	str   string // Str/Address/Pubkey/Bech32/Hash256
	ts    int64
	arr   []NormalizedValue
	tuple []TupleField
}

// Kind returns the variant tag.
func (v NormalizedValue) Kind() Kind { return v.kind }

// Null is the absence-of-value variant.
func Null() NormalizedValue { return NormalizedValue{kind: KindNull} }

// NewUint builds a Uint or BigUint variant from an unsigned magnitude:
// values that fit in 128 unsigned bits use Uint, wider values use
// BigUint with decimal digits.
func NewUint(n *big.Int) NormalizedValue {
	if n.Sign() < 0 {
		n = new(big.Int).Abs(n)
	}
	if n.Cmp(maxUint128) <= 0 {
		return NormalizedValue{kind: KindUint, num: new(big.Int).Set(n)}
	}
	return NormalizedValue{kind: KindBigUint, num: new(big.Int).Set(n)}
}

// NewInt builds an Int or BigInt variant from a signed magnitude.
func NewInt(n *big.Int) NormalizedValue {
	if n.Cmp(minInt128) >= 0 && n.Cmp(maxInt128) <= 0 {
		return NormalizedValue{kind: KindInt, num: new(big.Int).Set(n)}
	}
	return NormalizedValue{kind: KindBigInt, num: new(big.Int).Set(n)}
}

func Bool(b bool) NormalizedValue { return NormalizedValue{kind: KindBool, b: b} }

func Bytes(b []byte) NormalizedValue {
	cp := make([]byte, len(b))
	copy(cp, b)
	return NormalizedValue{kind: KindBytes, bytes: cp}
}

func Str(s string) NormalizedValue { return NormalizedValue{kind: KindStr, str: s} }

// Address wraps an already EIP-55-checksummed, 0x-prefixed 20-byte hex
// address. Callers that have raw bytes should use ChecksumAddress.
func Address(checksummed string) NormalizedValue {
	return NormalizedValue{kind: KindAddress, str: checksummed}
}

// Pubkey wraps a base58-encoded 32-byte Solana public key.
func Pubkey(base58 string) NormalizedValue {
	return NormalizedValue{kind: KindPubkey, str: base58}
}

// Bech32 wraps a bech32-encoded address string, taken as-is.
func Bech32(addr string) NormalizedValue {
	return NormalizedValue{kind: KindBech32, str: addr}
}

// Hash256 wraps a 0x-prefixed 64-hex-char hash.
func Hash256(hex string) NormalizedValue {
	return NormalizedValue{kind: KindHash256, str: hex}
}

func Timestamp(unixSeconds int64) NormalizedValue {
	return NormalizedValue{kind: KindTimestamp, ts: unixSeconds}
}

func Array(vs []NormalizedValue) NormalizedValue {
	return NormalizedValue{kind: KindArray, arr: vs}
}

func Tuple(fields []TupleField) NormalizedValue {
	return NormalizedValue{kind: KindTuple, tuple: fields}
}

// Uint returns the backing big.Int for Uint/BigUint variants, or nil.
func (v NormalizedValue) Uint() *big.Int {
	if v.kind == KindUint || v.kind == KindBigUint {
		return v.num
	}
	return nil
}

// Int returns the backing big.Int for Int/BigInt variants, or nil.
func (v NormalizedValue) Int() *big.Int {
	if v.kind == KindInt || v.kind == KindBigInt {
		return v.num
	}
	return nil
}

func (v NormalizedValue) BoolValue() bool       { return v.b }
func (v NormalizedValue) BytesValue() []byte    { return v.bytes }
func (v NormalizedValue) StrValue() string      { return v.str }
func (v NormalizedValue) TimestampValue() int64 { return v.ts }
func (v NormalizedValue) ArrayValue() []NormalizedValue {
	return v.arr
}
func (v NormalizedValue) TupleValue() []TupleField { return v.tuple }

// DecimalString returns the decimal digit string for Uint/BigUint/Int/BigInt
// variants with no leading zeros (except "0" itself).
func (v NormalizedValue) DecimalString() string {
	if v.num == nil {
		return ""
	}
	return v.num.String()
}

func (v NormalizedValue) String() string {
	switch v.kind {
	case KindUint, KindBigUint, KindInt, KindBigInt:
		return v.DecimalString()
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindBytes:
		return fmt.Sprintf("0x%x", v.bytes)
	case KindStr, KindAddress, KindPubkey, KindBech32, KindHash256:
		return v.str
	case KindTimestamp:
		return fmt.Sprintf("%d", v.ts)
	case KindArray:
		return fmt.Sprintf("%v", v.arr)
	case KindTuple:
		return fmt.Sprintf("%v", v.tuple)
	default:
		return "null"
	}
}

// jsonWire is the {"type":...,"value":...} binding-layer wire shape.
type jsonWire struct {
	Type  Kind            `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

const jsonSafeMaxInt = int64(1) << 53

// MarshalJSON implements the binding-layer NormalizedValue wire shape.
// Integers up to 2^53 are emitted as JSON numbers; wider values are
// emitted as decimal strings.
func (v NormalizedValue) MarshalJSON() ([]byte, error) {
	var raw interface{}
	switch v.kind {
	case KindUint, KindInt:
		if v.num.IsInt64() && v.num.Int64() > -jsonSafeMaxInt && v.num.Int64() < jsonSafeMaxInt {
			raw = v.num.Int64()
		} else {
			raw = v.num.String()
		}
	case KindBigUint, KindBigInt:
		raw = v.num.String()
	case KindBool:
		raw = v.b
	case KindBytes:
		raw = fmt.Sprintf("0x%x", v.bytes)
	case KindStr, KindAddress, KindPubkey, KindBech32, KindHash256:
		raw = v.str
	case KindTimestamp:
		raw = v.ts
	case KindArray:
		raw = v.arr
	case KindTuple:
		m := make(map[string]interface{}, len(v.tuple))
		order := make([]string, 0, len(v.tuple))
		for _, f := range v.tuple {
			m[f.Name] = f.Value
			order = append(order, f.Name)
		}
		raw = struct {
			Order  []string               `json:"order"`
			Fields map[string]interface{} `json:"fields"`
		}{order, m}
	case KindNull:
		raw = nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonWire{Type: v.kind, Value: payload})
}
