// Copyright 2025 ChainCodec Authors

package solana

import (
	"math/big"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

func anchorTransferSchema() schema.Schema {
	return schema.Schema{
		Name:        "AnchorTransfer",
		Version:     1,
		Chains:      []string{"solana-mainnet"},
		Event:       "AnchorTransfer",
		Fingerprint: EventDiscriminator("AnchorTransfer"),
		Fields: []schema.FieldDef{
			{Name: "from", Type: schema.CanonicalType{Kind: schema.KindPubkey}},
			{Name: "to", Type: schema.CanonicalType{Kind: schema.KindPubkey}},
			{Name: "amount", Type: schema.CanonicalType{Kind: schema.KindUint, Bits: 64}},
		},
	}
}

func fakePubkeyBytes(fill byte) []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = fill
	}
	return b
}

// TestDecodeAnchorTransfer decodes a standard Anchor transfer event.
func TestDecodeAnchorTransfer(t *testing.T) {
	s := anchorTransferSchema()
	fromPk := fakePubkeyBytes(0x11)
	toPk := fakePubkeyBytes(0x22)
	amount := []byte{0x40, 0x4B, 0x4C, 0x00, 0x00, 0x00, 0x00, 0x00} // 5_000_000 LE

	data := append(append(append([]byte{}, fromPk...), toPk...), amount...)
	discBytes, err := s.Fingerprint.Bytes()
	if err != nil {
		t.Fatalf("fingerprint bytes: %v", err)
	}

	raw := value.RawEvent{
		Chain:  value.ChainId{Family: value.ChainFamilySolana},
		Topics: [][]byte{discBytes},
		Data:   data,
	}

	evt, err := (EventDecoder{}).DecodeEvent(raw, s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	from, _ := evt.Fields.Get("from")
	if from.Kind() != value.KindPubkey || from.StrValue() != base58.Encode(fromPk) {
		t.Fatalf("unexpected from: %+v", from)
	}
	to, _ := evt.Fields.Get("to")
	if to.Kind() != value.KindPubkey || to.StrValue() != base58.Encode(toPk) {
		t.Fatalf("unexpected to: %+v", to)
	}
	amt, _ := evt.Fields.Get("amount")
	if amt.Uint() == nil || amt.Uint().Cmp(big.NewInt(5_000_000)) != 0 {
		t.Fatalf("unexpected amount: %+v", amt)
	}
}

func TestDecodeAnchorTransferDiscriminatorMismatch(t *testing.T) {
	s := anchorTransferSchema()
	raw := value.RawEvent{
		Topics: [][]byte{{0, 1, 2, 3, 4, 5, 6, 7}},
		Data:   make([]byte, 72),
	}
	_, err := (EventDecoder{}).DecodeEvent(raw, s)
	if err == nil {
		t.Fatalf("expected discriminator mismatch error")
	}
}

func TestDecodeAnchorTransferTruncated(t *testing.T) {
	s := anchorTransferSchema()
	discBytes, _ := s.Fingerprint.Bytes()
	raw := value.RawEvent{
		Topics: [][]byte{discBytes},
		Data:   make([]byte, 10), // far short of 2 pubkeys + uint64
	}
	_, err := (EventDecoder{}).DecodeEvent(raw, s)
	if err == nil {
		t.Fatalf("expected truncation error")
	}
}

func TestDecodeVecAndFixedArray(t *testing.T) {
	s := schema.Schema{
		Name: "Basket", Version: 1, Chains: []string{"solana-mainnet"}, Event: "Basket",
		Fields: []schema.FieldDef{
			{Name: "weights", Type: schema.CanonicalType{Kind: schema.KindArray, Elem: &schema.CanonicalType{Kind: schema.KindUint, Bits: 8}, ArrayLen: 3}},
			{Name: "tags", Type: schema.CanonicalType{Kind: schema.KindArray, Elem: &schema.CanonicalType{Kind: schema.KindStr}}},
		},
	}
	s.Fingerprint = EventDiscriminator("Basket")
	discBytes, _ := s.Fingerprint.Bytes()

	var data []byte
	data = append(data, 1, 2, 3) // fixed [u8;3], no length prefix
	data = append(data, 2, 0, 0, 0)
	data = append(data, 0, 0, 0, 0) // "" length 0
	data = append(data, 2, 0, 0, 0)
	data = append(data, 'h', 'i') // "hi" length 2

	raw := value.RawEvent{Topics: [][]byte{discBytes}, Data: data}
	evt, err := (EventDecoder{}).DecodeEvent(raw, s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	weights, _ := evt.Fields.Get("weights")
	arr := weights.ArrayValue()
	if len(arr) != 3 || arr[0].Uint().Int64() != 1 || arr[2].Uint().Int64() != 3 {
		t.Fatalf("unexpected weights: %+v", arr)
	}
	tags, _ := evt.Fields.Get("tags")
	tagArr := tags.ArrayValue()
	if len(tagArr) != 2 || tagArr[0].StrValue() != "" || tagArr[1].StrValue() != "hi" {
		t.Fatalf("unexpected tags: %+v", tagArr)
	}
}
