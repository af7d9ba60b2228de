// Copyright 2025 ChainCodec Authors

package evm

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// fromABIValue converts one value decoded by go-ethereum's abi package
// into a NormalizedValue, following the Go types abi.Type.GetType()
// produces: small bit widths decode to native Go ints/uints, anything
// wider than 64 bits decodes to *big.Int.
func fromABIValue(v interface{}, ct schema.CanonicalType) (value.NormalizedValue, error) {
	switch ct.Kind {
	case schema.KindUint, schema.KindDecimal, schema.KindTimestamp:
		n, ok := toBigUint(v)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("expected unsigned integer, got %T", v)
		}
		if ct.Kind == schema.KindTimestamp {
			return value.Timestamp(n.Int64()), nil
		}
		return value.NewUint(n), nil
	case schema.KindInt:
		n, ok := toBigInt(v)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("expected signed integer, got %T", v)
		}
		return value.NewInt(n), nil
	case schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("expected bool, got %T", v)
		}
		return value.Bool(b), nil
	case schema.KindAddress:
		addr, ok := v.(common.Address)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("expected address, got %T", v)
		}
		var raw [20]byte
		copy(raw[:], addr.Bytes())
		return value.Address(value.ChecksumAddress(raw)), nil
	case schema.KindHash256:
		b, ok := fixedBytes(v)
		if !ok || len(b) != 32 {
			return value.NormalizedValue{}, fmt.Errorf("expected 32 fixed bytes, got %T", v)
		}
		return value.Hash256(fmt.Sprintf("0x%x", b)), nil
	case schema.KindBytes:
		if ct.FixedLen > 0 {
			b, ok := fixedBytes(v)
			if !ok {
				return value.NormalizedValue{}, fmt.Errorf("expected %d fixed bytes, got %T", ct.FixedLen, v)
			}
			return value.Bytes(b), nil
		}
		b, ok := v.([]byte)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("expected bytes, got %T", v)
		}
		return value.Bytes(b), nil
	case schema.KindStr:
		s, ok := v.(string)
		if !ok {
			return value.NormalizedValue{}, fmt.Errorf("expected string, got %T", v)
		}
		return value.Str(s), nil
	case schema.KindArray:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return value.NormalizedValue{}, fmt.Errorf("expected array/slice, got %T", v)
		}
		out := make([]value.NormalizedValue, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elemVal, err := fromABIValue(rv.Index(i).Interface(), *ct.Elem)
			if err != nil {
				return value.NormalizedValue{}, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = elemVal
		}
		return value.Array(out), nil
	case schema.KindTuple:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Struct {
			return value.NormalizedValue{}, fmt.Errorf("expected tuple struct, got %T", v)
		}
		if rv.NumField() != len(ct.Fields) {
			return value.NormalizedValue{}, fmt.Errorf("tuple arity mismatch: schema has %d fields, decoded struct has %d", len(ct.Fields), rv.NumField())
		}
		tuple := make([]value.TupleField, len(ct.Fields))
		for i, f := range ct.Fields {
			fv, err := fromABIValue(rv.Field(i).Interface(), f.Type)
			if err != nil {
				return value.NormalizedValue{}, fmt.Errorf("tuple field %q: %w", f.Name, err)
			}
			tuple[i] = value.TupleField{Name: f.Name, Value: fv}
		}
		return value.Tuple(tuple), nil
	default:
		return value.NormalizedValue{}, fmt.Errorf("unsupported canonical kind %q for EVM decode", ct.Kind)
	}
}

func toBigUint(v interface{}) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, true
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	default:
		return nil, false
	}
}

func toBigInt(v interface{}) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		return n, true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	default:
		return nil, false
	}
}

// fixedBytes extracts the contents of a reflect-generated fixed-size
// byte array ([N]byte, including common.Hash and common.Address's
// underlying storage) as a slice.
func fixedBytes(v interface{}) ([]byte, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array || rv.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}
	out := make([]byte, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = byte(rv.Index(i).Uint())
	}
	return out, true
}
