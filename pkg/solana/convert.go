// Copyright 2025 ChainCodec Authors

package solana

import (
	"fmt"

	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// decodeValue positionally consumes one CanonicalType's Borsh encoding
// from r. Schema field order is the only framing Borsh structs carry:
// there is no per-field tag or length beyond what each type's own wire
// form dictates.
func decodeValue(r *borshReader, ct schema.CanonicalType) (value.NormalizedValue, error) {
	switch ct.Kind {
	case schema.KindUint, schema.KindDecimal:
		n, err := r.readUint(bitsOrDefault(ct.Bits))
		if err != nil {
			return value.NormalizedValue{}, err
		}
		return value.NewUint(n), nil
	case schema.KindTimestamp:
		n, err := r.readInt(64)
		if err != nil {
			return value.NormalizedValue{}, err
		}
		return value.Timestamp(n.Int64()), nil
	case schema.KindInt:
		n, err := r.readInt(bitsOrDefault(ct.Bits))
		if err != nil {
			return value.NormalizedValue{}, err
		}
		return value.NewInt(n), nil
	case schema.KindBool:
		b, err := r.readBool()
		if err != nil {
			return value.NormalizedValue{}, err
		}
		return value.Bool(b), nil
	case schema.KindPubkey:
		s, err := r.readPubkey()
		if err != nil {
			return value.NormalizedValue{}, err
		}
		return value.Pubkey(s), nil
	case schema.KindHash256:
		b, err := r.readFixedBytes(32)
		if err != nil {
			return value.NormalizedValue{}, err
		}
		return value.Hash256(fmt.Sprintf("0x%x", b)), nil
	case schema.KindBytes:
		if ct.FixedLen > 0 {
			b, err := r.readFixedBytes(ct.FixedLen)
			if err != nil {
				return value.NormalizedValue{}, err
			}
			return value.Bytes(b), nil
		}
		b, err := r.readDynamicBytes()
		if err != nil {
			return value.NormalizedValue{}, err
		}
		return value.Bytes(b), nil
	case schema.KindStr:
		s, err := r.readString()
		if err != nil {
			return value.NormalizedValue{}, err
		}
		return value.Str(s), nil
	case schema.KindArray:
		n := ct.ArrayLen
		if n == 0 {
			// Vec<T>: u32 length prefix followed by n elements.
			var err error
			n, err = r.readLen()
			if err != nil {
				return value.NormalizedValue{}, err
			}
		}
		out := make([]value.NormalizedValue, n)
		for i := 0; i < n; i++ {
			v, err := decodeValue(r, *ct.Elem)
			if err != nil {
				return value.NormalizedValue{}, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return value.Array(out), nil
	case schema.KindTuple:
		out := make([]value.TupleField, len(ct.Fields))
		for i, f := range ct.Fields {
			v, err := decodeValue(r, f.Type)
			if err != nil {
				return value.NormalizedValue{}, fmt.Errorf("tuple field %q: %w", f.Name, err)
			}
			out[i] = value.TupleField{Name: f.Name, Value: v}
		}
		return value.Tuple(out), nil
	default:
		return value.NormalizedValue{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ct.Kind)
	}
}

// bitsOrDefault treats an unset Bits (0) as 64, the common Anchor width
// for plain integer fields declared without an explicit uint<N>/int<N>.
func bitsOrDefault(bits int) int {
	if bits == 0 {
		return 64
	}
	return bits
}
