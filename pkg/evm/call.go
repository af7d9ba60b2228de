// Copyright 2025 ChainCodec Authors
//
// CallDecoder decodes EVM transaction calldata against a standard ABI
// JSON document, resolving the 4-byte selector and unpacking the
// argument tuple into normalized values.
package evm

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/chaincodec/chaincodec/pkg/decode"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// CallDecoder decodes EVM calldata against a standard ABI JSON document.
type CallDecoder struct {
	parsed abi.ABI
}

// NewCallDecoder parses abiJSON and builds the selector table
// go-ethereum's abi.ABI already indexes internally via MethodById.
func NewCallDecoder(abiJSON string) (*CallDecoder, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("evm: parsing ABI JSON: %w", err)
	}
	return &CallDecoder{parsed: parsed}, nil
}

// DecodeCall decodes calldata by looking up its 4-byte selector in the
// parsed ABI and unpacking the remaining bytes against that function's
// declared input tuple. go-ethereum's MethodById already resolves a
// selector collision across overloads to the first ABI-declared match.
func (d *CallDecoder) DecodeCall(calldata []byte) (value.DecodedCall, error) {
	if len(calldata) < 4 {
		return value.DecodedCall{}, fmt.Errorf("%w: calldata must be at least 4 bytes, got %d", decode.ErrAbiDecodeFailed, len(calldata))
	}
	selector := calldata[:4]
	method, err := d.parsed.MethodById(selector)
	if err != nil {
		return value.DecodedCall{}, fmt.Errorf("%w: %s", decode.ErrUnknownSelector, hex.EncodeToString(selector))
	}

	inputs, err := d.decodeArguments(method.Inputs, calldata[4:])
	if err != nil {
		return value.DecodedCall{}, err
	}

	return value.DecodedCall{
		FunctionName: method.Name,
		Selector:     value.Bytes(selector),
		Inputs:       inputs,
		DecodeErrors: map[string]string{},
	}, nil
}

// DecodeConstructor decodes the entire calldata as the constructor's
// input tuple; there is no selector to strip.
func (d *CallDecoder) DecodeConstructor(calldata []byte) (value.DecodedCall, error) {
	inputs, err := d.decodeArguments(d.parsed.Constructor.Inputs, calldata)
	if err != nil {
		return value.DecodedCall{}, err
	}
	return value.DecodedCall{
		FunctionName: "constructor",
		Selector:     value.Null(),
		Inputs:       inputs,
		DecodeErrors: map[string]string{},
	}, nil
}

func (d *CallDecoder) decodeArguments(args abi.Arguments, tail []byte) ([]value.CallInput, error) {
	decoded, err := args.UnpackValues(tail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", decode.ErrAbiDecodeFailed, err)
	}
	if len(decoded) != len(args) {
		return nil, fmt.Errorf("%w: unpacked %d values for %d declared inputs", decode.ErrAbiDecodeFailed, len(decoded), len(args))
	}

	out := make([]value.CallInput, len(args))
	for i, arg := range args {
		name := arg.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		ct, err := canonicalFromABIType(arg.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d: %v", decode.ErrAbiDecodeFailed, i, err)
		}
		v, err := fromABIValue(decoded[i], ct)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d (%s): %v", decode.ErrAbiDecodeFailed, i, name, err)
		}
		out[i] = value.CallInput{Name: name, Value: v}
	}
	return out, nil
}
