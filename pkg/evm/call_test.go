// Copyright 2025 ChainCodec Authors

package evm

import (
	"encoding/hex"
	"math/big"
	"testing"
)

const approveABI = `[{"type":"function","name":"approve","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}]`

// TestDecodeCallMaxApproval decodes an approve(address,uint256) selector
// with the max uint256 allowance.
func TestDecodeCallMaxApproval(t *testing.T) {
	dec, err := NewCallDecoder(approveABI)
	if err != nil {
		t.Fatalf("NewCallDecoder: %v", err)
	}

	selector := mustHex(t, "095ea7b3")
	spender := mustHex(t, "000000000000000000000000d8da6bf26964af9d7eed9e03e53415d37aa96045")
	maxUint256 := make([]byte, 32)
	for i := range maxUint256 {
		maxUint256[i] = 0xff
	}
	calldata := append(append(append([]byte{}, selector...), spender...), maxUint256...)

	call, err := dec.DecodeCall(calldata)
	if err != nil {
		t.Fatalf("DecodeCall: %v", err)
	}
	if call.FunctionName != "approve" {
		t.Fatalf("unexpected function name: %s", call.FunctionName)
	}
	if len(call.Inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(call.Inputs))
	}
	if call.Inputs[0].Name != "spender" {
		t.Fatalf("unexpected input 0 name: %s", call.Inputs[0].Name)
	}
	if call.Inputs[0].Value.StrValue() != "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045" {
		t.Fatalf("unexpected spender: %s", call.Inputs[0].Value.StrValue())
	}

	want := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	got := call.Inputs[1].Value.Uint()
	if got == nil || got.Cmp(want) != 0 {
		t.Fatalf("expected max uint256 allowance, got %v", got)
	}
	if hex.EncodeToString(call.Selector.BytesValue()) != "095ea7b3" {
		t.Fatalf("unexpected selector: %x", call.Selector.BytesValue())
	}
}

func TestDecodeCallUnknownSelector(t *testing.T) {
	dec, err := NewCallDecoder(approveABI)
	if err != nil {
		t.Fatalf("NewCallDecoder: %v", err)
	}
	_, err = dec.DecodeCall(mustHex(t, "deadbeef00"))
	if err == nil {
		t.Fatalf("expected unknown selector error")
	}
}

func TestDecodeCallTooShort(t *testing.T) {
	dec, err := NewCallDecoder(approveABI)
	if err != nil {
		t.Fatalf("NewCallDecoder: %v", err)
	}
	_, err = dec.DecodeCall([]byte{0x01, 0x02})
	if err == nil {
		t.Fatalf("expected too-short calldata error")
	}
}
