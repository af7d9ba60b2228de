// Copyright 2025 ChainCodec Authors

package evm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/chaincodec/chaincodec/pkg/schema"
)

// canonicalFromABIType is the inverse of canonicalToABIType: it derives
// a CanonicalType from a go-ethereum abi.Type, used by the call decoder
// and encoder which are built from a standard ABI JSON document rather
// than a CSDL schema.
func canonicalFromABIType(t abi.Type) (schema.CanonicalType, error) {
	switch t.T {
	case abi.UintTy:
		return schema.CanonicalType{Kind: schema.KindUint, Bits: t.Size}, nil
	case abi.IntTy:
		return schema.CanonicalType{Kind: schema.KindInt, Bits: t.Size}, nil
	case abi.BoolTy:
		return schema.CanonicalType{Kind: schema.KindBool}, nil
	case abi.StringTy:
		return schema.CanonicalType{Kind: schema.KindStr}, nil
	case abi.AddressTy:
		return schema.CanonicalType{Kind: schema.KindAddress, AddressFamily: "evm"}, nil
	case abi.BytesTy:
		return schema.CanonicalType{Kind: schema.KindBytes}, nil
	case abi.FixedBytesTy:
		return schema.CanonicalType{Kind: schema.KindBytes, FixedLen: t.Size}, nil
	case abi.SliceTy:
		elem, err := canonicalFromABIType(*t.Elem)
		if err != nil {
			return schema.CanonicalType{}, err
		}
		return schema.CanonicalType{Kind: schema.KindArray, Elem: &elem}, nil
	case abi.ArrayTy:
		elem, err := canonicalFromABIType(*t.Elem)
		if err != nil {
			return schema.CanonicalType{}, err
		}
		return schema.CanonicalType{Kind: schema.KindArray, Elem: &elem, ArrayLen: t.Size}, nil
	case abi.TupleTy:
		fields := make([]schema.FieldDef, len(t.TupleElems))
		for i, te := range t.TupleElems {
			ct, err := canonicalFromABIType(*te)
			if err != nil {
				return schema.CanonicalType{}, err
			}
			name := fmt.Sprintf("item%d", i)
			if i < len(t.TupleRawNames) && t.TupleRawNames[i] != "" {
				name = t.TupleRawNames[i]
			}
			fields[i] = schema.FieldDef{Name: name, Type: ct}
		}
		return schema.CanonicalType{Kind: schema.KindTuple, Fields: fields}, nil
	default:
		return schema.CanonicalType{}, fmt.Errorf("unsupported abi type %q", t.String())
	}
}
