// Copyright 2025 ChainCodec Authors

package evm

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/chaincodec/chaincodec/pkg/decode"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// EncodeCall builds selector || abi_encode(tuple(values)) for a named
// function on the ABI this CallDecoder was constructed from.
// The output always round-trips through DecodeCall to equivalent
// NormalizedValues (modulo address checksum casing, which the decoder
// always re-normalizes).
func (d *CallDecoder) EncodeCall(functionName string, values []value.NormalizedValue) ([]byte, error) {
	method, ok := d.parsed.Methods[functionName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q", decode.ErrUnknownSelector, functionName)
	}
	if len(values) != len(method.Inputs) {
		return nil, fmt.Errorf("%w: function %q declares %d inputs, got %d values", decode.ErrArityMismatch, functionName, len(method.Inputs), len(values))
	}

	packed := make([]interface{}, len(values))
	for i, arg := range method.Inputs {
		v, err := packValue(arg.Type, values[i], i)
		if err != nil {
			return nil, err
		}
		packed[i] = v
	}

	tail, err := method.Inputs.Pack(packed...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", decode.ErrAbiDecodeFailed, err)
	}
	return append(append([]byte{}, method.ID...), tail...), nil
}

// packValue converts one NormalizedValue into the concrete Go value
// go-ethereum's abi.Arguments.Pack expects for t, validating kind
// agreement and declared-width range along the way.
func packValue(t abi.Type, v value.NormalizedValue, idx int) (interface{}, error) {
	switch t.T {
	case abi.BoolTy:
		if v.Kind() != value.KindBool {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: "bool", Got: string(v.Kind())}
		}
		return v.BoolValue(), nil

	case abi.StringTy:
		if v.Kind() != value.KindStr {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: "string", Got: string(v.Kind())}
		}
		return v.StrValue(), nil

	case abi.AddressTy:
		if v.Kind() != value.KindAddress {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: "address", Got: string(v.Kind())}
		}
		raw, err := value.ParseAddress(v.StrValue())
		if err != nil {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: "address", Got: v.StrValue()}
		}
		return common.BytesToAddress(raw[:]), nil

	case abi.BytesTy:
		if v.Kind() != value.KindBytes {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: "bytes", Got: string(v.Kind())}
		}
		return v.BytesValue(), nil

	case abi.FixedBytesTy:
		if v.Kind() != value.KindBytes {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: fmt.Sprintf("bytes%d", t.Size), Got: string(v.Kind())}
		}
		b := v.BytesValue()
		if len(b) != t.Size {
			return nil, &OutOfRangeError{Index: idx}
		}
		arrVal := reflect.New(reflect.ArrayOf(t.Size, reflect.TypeOf(byte(0)))).Elem()
		reflect.Copy(arrVal, reflect.ValueOf(b))
		return arrVal.Interface(), nil

	case abi.UintTy, abi.IntTy:
		var n *big.Int
		if t.T == abi.UintTy {
			n = v.Uint()
		} else {
			n = v.Int()
		}
		if n == nil {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: t.String(), Got: string(v.Kind())}
		}
		if !fitsDeclaredWidth(n, t) {
			return nil, &OutOfRangeError{Index: idx}
		}
		return nativeInt(n, t), nil

	case abi.SliceTy:
		if v.Kind() != value.KindArray {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: "array", Got: string(v.Kind())}
		}
		elems := v.ArrayValue()
		out := reflect.MakeSlice(reflect.SliceOf(t.Elem.GetType()), len(elems), len(elems))
		for i, e := range elems {
			ev, err := packValue(*t.Elem, e, idx)
			if err != nil {
				return nil, err
			}
			out.Index(i).Set(reflect.ValueOf(ev))
		}
		return out.Interface(), nil

	case abi.ArrayTy:
		if v.Kind() != value.KindArray {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: "array", Got: string(v.Kind())}
		}
		elems := v.ArrayValue()
		if len(elems) != t.Size {
			return nil, &OutOfRangeError{Index: idx}
		}
		out := reflect.New(reflect.ArrayOf(t.Size, t.Elem.GetType())).Elem()
		for i, e := range elems {
			ev, err := packValue(*t.Elem, e, idx)
			if err != nil {
				return nil, err
			}
			out.Index(i).Set(reflect.ValueOf(ev))
		}
		return out.Interface(), nil

	case abi.TupleTy:
		if v.Kind() != value.KindTuple {
			return nil, &ValueTypeMismatchError{Index: idx, Expected: "tuple", Got: string(v.Kind())}
		}
		fields := v.TupleValue()
		if len(fields) != len(t.TupleElems) {
			return nil, fmt.Errorf("%w: tuple at input %d has %d members, schema has %d", decode.ErrArityMismatch, idx, len(fields), len(t.TupleElems))
		}
		out := reflect.New(t.GetType()).Elem()
		for i, te := range t.TupleElems {
			fv, err := packValue(*te, fields[i].Value, idx)
			if err != nil {
				return nil, err
			}
			out.Field(i).Set(reflect.ValueOf(fv))
		}
		return out.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported abi type %q", t.String())
	}
}

// fitsDeclaredWidth reports whether n fits in t's declared bit width,
// signed or unsigned per t.T.
func fitsDeclaredWidth(n *big.Int, t abi.Type) bool {
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return false
		}
		max := new(big.Int).Lsh(big.NewInt(1), uint(t.Size))
		return n.Cmp(max) < 0
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	max := new(big.Int).Sub(half, big.NewInt(1))
	min := new(big.Int).Neg(half)
	return n.Cmp(min) >= 0 && n.Cmp(max) <= 0
}

// nativeInt converts n to the Go type go-ethereum's abi.Type.GetType()
// expects for t's declared size: native machine ints up to 64 bits,
// *big.Int beyond that.
func nativeInt(n *big.Int, t abi.Type) interface{} {
	if t.T == abi.UintTy {
		switch {
		case t.Size <= 8:
			return uint8(n.Uint64())
		case t.Size <= 16:
			return uint16(n.Uint64())
		case t.Size <= 32:
			return uint32(n.Uint64())
		case t.Size <= 64:
			return n.Uint64()
		default:
			return new(big.Int).Set(n)
		}
	}
	switch {
	case t.Size <= 8:
		return int8(n.Int64())
	case t.Size <= 16:
		return int16(n.Int64())
	case t.Size <= 32:
		return int32(n.Int64())
	case t.Size <= 64:
		return n.Int64()
	default:
		return new(big.Int).Set(n)
	}
}
