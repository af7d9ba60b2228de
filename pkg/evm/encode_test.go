// Copyright 2025 ChainCodec Authors

package evm

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/chaincodec/chaincodec/pkg/value"
)

const transferABI = `[{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}]`

// TestEncodeCallTransfer encodes transfer(address,uint256) and confirms
// the selector matches the well-known 0xa9059cbb.
func TestEncodeCallTransfer(t *testing.T) {
	dec, err := NewCallDecoder(transferABI)
	if err != nil {
		t.Fatalf("NewCallDecoder: %v", err)
	}

	values := []value.NormalizedValue{
		value.Address("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"),
		value.NewUint(big.NewInt(1_000_000)),
	}
	calldata, err := dec.EncodeCall("transfer", values)
	if err != nil {
		t.Fatalf("EncodeCall: %v", err)
	}
	if hex.EncodeToString(calldata[:4]) != "a9059cbb" {
		t.Fatalf("unexpected selector: %x", calldata[:4])
	}
	if len(calldata) != 4+32+32 {
		t.Fatalf("unexpected calldata length: %d", len(calldata))
	}
}

// TestEncodeDecodeRoundTrip checks that encoding a call and decoding it
// back yields equivalent NormalizedValues.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	dec, err := NewCallDecoder(transferABI)
	if err != nil {
		t.Fatalf("NewCallDecoder: %v", err)
	}

	want := []value.NormalizedValue{
		value.Address("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"),
		value.NewUint(big.NewInt(42_000_000_000)),
	}
	calldata, err := dec.EncodeCall("transfer", want)
	if err != nil {
		t.Fatalf("EncodeCall: %v", err)
	}

	got, err := dec.DecodeCall(calldata)
	if err != nil {
		t.Fatalf("DecodeCall: %v", err)
	}
	if len(got.Inputs) != len(want) {
		t.Fatalf("expected %d inputs, got %d", len(want), len(got.Inputs))
	}
	if got.Inputs[0].Value.StrValue() != want[0].StrValue() {
		t.Fatalf("address round-trip mismatch: got %s want %s", got.Inputs[0].Value.StrValue(), want[0].StrValue())
	}
	if got.Inputs[1].Value.Uint().Cmp(want[1].Uint()) != 0 {
		t.Fatalf("amount round-trip mismatch: got %v want %v", got.Inputs[1].Value.Uint(), want[1].Uint())
	}
}

// TestEncodeChecksumInvariant checks that an all-lowercase input
// address still encodes to the same bytes as its checksummed form.
func TestEncodeChecksumInvariant(t *testing.T) {
	dec, err := NewCallDecoder(transferABI)
	if err != nil {
		t.Fatalf("NewCallDecoder: %v", err)
	}

	checksummed := value.Address("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	lower := value.Address("0xab5801a7d398351b8be11c439e05c5b3259aec9b")

	a, err := dec.EncodeCall("transfer", []value.NormalizedValue{checksummed, value.NewUint(big.NewInt(1))})
	if err != nil {
		t.Fatalf("EncodeCall (checksummed): %v", err)
	}
	b, err := dec.EncodeCall("transfer", []value.NormalizedValue{lower, value.NewUint(big.NewInt(1))})
	if err != nil {
		t.Fatalf("EncodeCall (lowercase): %v", err)
	}
	if hex.EncodeToString(a) != hex.EncodeToString(b) {
		t.Fatalf("expected checksum-invariant encoding, got %x vs %x", a, b)
	}
}

func TestEncodeCallArityMismatch(t *testing.T) {
	dec, err := NewCallDecoder(transferABI)
	if err != nil {
		t.Fatalf("NewCallDecoder: %v", err)
	}
	_, err = dec.EncodeCall("transfer", []value.NormalizedValue{value.Address("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")})
	if err == nil {
		t.Fatalf("expected arity mismatch error")
	}
}

func TestEncodeCallValueTypeMismatch(t *testing.T) {
	dec, err := NewCallDecoder(transferABI)
	if err != nil {
		t.Fatalf("NewCallDecoder: %v", err)
	}
	_, err = dec.EncodeCall("transfer", []value.NormalizedValue{
		value.Str("not-an-address"),
		value.NewUint(big.NewInt(1)),
	})
	if err == nil {
		t.Fatalf("expected value type mismatch error")
	}
}
