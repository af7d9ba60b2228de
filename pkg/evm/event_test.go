// Copyright 2025 ChainCodec Authors

package evm

import (
	"encoding/hex"
	"math/big"
	"testing"
	"time"

	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex %q: %v", s, err)
	}
	return b
}

func erc20TransferSchema() schema.Schema {
	return schema.Schema{
		Name:        "ERC20Transfer",
		Version:     1,
		Chains:      []string{"ethereum"},
		Event:       "Transfer",
		Fingerprint: value.EVMFingerprint("Transfer(address,address,uint256)"),
		Fields: []schema.FieldDef{
			{Name: "from", Type: schema.CanonicalType{Kind: schema.KindAddress}, Indexed: true},
			{Name: "to", Type: schema.CanonicalType{Kind: schema.KindAddress}, Indexed: true},
			{Name: "value", Type: schema.CanonicalType{Kind: schema.KindUint, Bits: 256}},
		},
	}
}

// TestDecodeERC20Transfer decodes a standard ERC20 Transfer log.
func TestDecodeERC20Transfer(t *testing.T) {
	s := erc20TransferSchema()
	topic0 := mustHex(t, string(s.Fingerprint)[2:])
	fromTopic := mustHex(t, "000000000000000000000000d8da6bf26964af9d7eed9e03e53415d37aa96045")
	toTopic := mustHex(t, "000000000000000000000000ab5801a7d398351b8be11c439e05c5b3259aec9b")
	data := mustHex(t, "00000000000000000000000000000000000000000000000000000000000f4240")

	raw := value.RawEvent{
		Chain:          value.ChainId{Family: value.ChainFamilyEVM, EVMChainID: 1},
		TxHash:         "0xabc",
		BlockNumber:    100,
		BlockTimestamp: time.Unix(0, 0),
		Address:        "0xtoken",
		Topics:         [][]byte{topic0, fromTopic, toTopic},
		Data:           data,
	}

	dec := EventDecoder{}
	evt, err := dec.DecodeEvent(raw, s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	from, _ := evt.Fields.Get("from")
	if from.StrValue() != "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045" {
		t.Fatalf("unexpected from: %s", from.StrValue())
	}
	to, _ := evt.Fields.Get("to")
	if to.StrValue() != "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B" {
		t.Fatalf("unexpected to: %s", to.StrValue())
	}
	val, _ := evt.Fields.Get("value")
	if val.Kind() != value.KindUint || val.Uint().Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("unexpected value: %+v", val)
	}
	if len(evt.DecodeErrors) != 0 {
		t.Fatalf("unexpected decode errors: %v", evt.DecodeErrors)
	}
}

func TestDecodeEventFingerprintMismatch(t *testing.T) {
	s := erc20TransferSchema()
	raw := value.RawEvent{
		Chain:  value.ChainId{Family: value.ChainFamilyEVM, EVMChainID: 1},
		Topics: [][]byte{mustHex(t, "00112233445566778899aabbccddeeff00112233445566778899aabbccddee"), make([]byte, 32), make([]byte, 32)},
		Data:   make([]byte, 32),
	}
	_, err := (EventDecoder{}).DecodeEvent(raw, s)
	if err == nil {
		t.Fatalf("expected fingerprint mismatch error")
	}
}

func TestDecodeEventIndexedTopicCountMismatch(t *testing.T) {
	s := erc20TransferSchema()
	raw := value.RawEvent{
		Chain:  value.ChainId{Family: value.ChainFamilyEVM, EVMChainID: 1},
		Topics: [][]byte{mustHex(t, string(s.Fingerprint)[2:]), make([]byte, 32)}, // only 1 indexed topic, schema wants 2
		Data:   make([]byte, 32),
	}
	_, err := (EventDecoder{}).DecodeEvent(raw, s)
	if err == nil {
		t.Fatalf("expected indexed topic count mismatch error")
	}
}

// TestDecodeIndexedReferenceType covers the keccak256(value)-only branch
// for an indexed dynamic field.
func TestDecodeIndexedReferenceType(t *testing.T) {
	s := schema.Schema{
		Name: "Note", Version: 1, Chains: []string{"ethereum"}, Event: "Note",
		Fields: []schema.FieldDef{
			{Name: "tag", Type: schema.CanonicalType{Kind: schema.KindStr}, Indexed: true},
		},
	}
	s.Fingerprint = value.EVMFingerprint(s.CanonicalSignature())

	hashTopic := make([]byte, 32)
	for i := range hashTopic {
		hashTopic[i] = byte(i)
	}
	raw := value.RawEvent{
		Chain:  value.ChainId{Family: value.ChainFamilyEVM, EVMChainID: 1},
		Topics: [][]byte{mustHex(t, string(s.Fingerprint)[2:]), hashTopic},
		Data:   []byte{},
	}
	evt, err := (EventDecoder{}).DecodeEvent(raw, s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tag, _ := evt.Fields.Get("tag")
	if tag.Kind() != value.KindHash256 {
		t.Fatalf("expected Hash256 for indexed reference type, got %s", tag.Kind())
	}
	if evt.DecodeErrors["tag"] != indexedReferenceTypeNote {
		t.Fatalf("expected indexed reference type note, got %q", evt.DecodeErrors["tag"])
	}
}
