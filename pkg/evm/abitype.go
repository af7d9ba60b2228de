// Copyright 2025 ChainCodec Authors

package evm

import (
	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/chaincodec/chaincodec/pkg/schema"
)

// typeStringFor renders the go-ethereum ABI type string for ct,
// including array/fixed-array suffixes. Tuple types always render as
// "tuple" (or "tuple[]"/"tuple[N]"); their member layout travels
// separately through the Components list abi.NewType expects.
func typeStringFor(ct schema.CanonicalType) string {
	switch ct.Kind {
	case schema.KindArray:
		inner := typeStringFor(*ct.Elem)
		if ct.ArrayLen > 0 {
			return inner + arraySuffix(ct.ArrayLen)
		}
		return inner + "[]"
	case schema.KindTuple:
		return "tuple"
	default:
		return ct.EVMTypeName()
	}
}

func arraySuffix(n int) string {
	return "[" + itoa(n) + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// componentsFor builds the ArgumentMarshaling slice go-ethereum needs to
// resolve any tuple nested anywhere inside ct (directly, or as an array
// element).
func componentsFor(ct schema.CanonicalType) []abi.ArgumentMarshaling {
	switch ct.Kind {
	case schema.KindTuple:
		out := make([]abi.ArgumentMarshaling, len(ct.Fields))
		for i, f := range ct.Fields {
			out[i] = abi.ArgumentMarshaling{
				Name:       f.Name,
				Type:       typeStringFor(f.Type),
				Components: componentsFor(f.Type),
			}
		}
		return out
	case schema.KindArray:
		return componentsFor(*ct.Elem)
	default:
		return nil
	}
}

// canonicalToABIType resolves ct to the go-ethereum abi.Type used to
// pack/unpack it. The type string is derived from a schema field
// instead of a literal ABI JSON document.
func canonicalToABIType(ct schema.CanonicalType) (abi.Type, error) {
	return abi.NewType(typeStringFor(ct), "", componentsFor(ct))
}

// nonIndexedArguments builds the abi.Arguments tuple used to decode the
// data tail: only the fields the schema marks non-indexed, in schema
// order.
func nonIndexedArguments(fields []schema.FieldDef) (abi.Arguments, []schema.FieldDef, error) {
	var args abi.Arguments
	var defs []schema.FieldDef
	for _, f := range fields {
		if f.Indexed {
			continue
		}
		t, err := canonicalToABIType(f.Type)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, abi.Argument{Name: f.Name, Type: t})
		defs = append(defs, f)
	}
	return args, defs, nil
}
