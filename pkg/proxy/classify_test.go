// Copyright 2025 ChainCodec Authors

package proxy

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/chaincodec/chaincodec/pkg/value"
)

func wordFromAddressHex(t *testing.T, addrHex string) []byte {
	t.Helper()
	raw, err := value.ParseAddress(addrHex)
	if err != nil {
		t.Fatalf("parse address: %v", err)
	}
	word := make([]byte, 32)
	copy(word[12:], raw[:])
	return word
}

func checksummed(t *testing.T, addrHex string) string {
	t.Helper()
	raw, err := value.ParseAddress(addrHex)
	if err != nil {
		t.Fatalf("parse address: %v", err)
	}
	return value.ChecksumAddress(raw)
}

func TestClassifyNotAProxy(t *testing.T) {
	res := Classify(Input{Address: "0x0"})
	if res.Kind != KindNotAProxy {
		t.Fatalf("expected NotAProxy, got %v", res)
	}
}

func TestClassifyLogicProxy(t *testing.T) {
	impl := "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	res := Classify(Input{ImplSlot: wordFromAddressHex(t, impl)})
	if res.Kind != KindLogicProxy {
		t.Fatalf("expected LogicProxy, got %v", res)
	}
	if res.Implementation != checksummed(t, impl) {
		t.Fatalf("unexpected implementation: %s", res.Implementation)
	}
}

func TestClassifyBeaconProxy(t *testing.T) {
	beacon := "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
	res := Classify(Input{BeaconSlot: wordFromAddressHex(t, beacon)})
	if res.Kind != KindBeaconProxy {
		t.Fatalf("expected BeaconProxy, got %v", res)
	}
	if res.Beacon != checksummed(t, beacon) {
		t.Fatalf("unexpected beacon: %s", res.Beacon)
	}
	if res.Implementation != "" {
		t.Fatalf("expected no implementation resolved for a beacon proxy, got %s", res.Implementation)
	}
}

func TestClassifyUUPS(t *testing.T) {
	impl := "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	uupsWord := mustSlotBytes(ProxiableUUIDSlotHex)
	res := Classify(Input{
		ImplSlot: wordFromAddressHex(t, impl),
		UUPSSlot: uupsWord,
	})
	if res.Kind != KindUUPS {
		t.Fatalf("expected UUPS, got %v", res)
	}
	if res.Implementation != checksummed(t, impl) {
		t.Fatalf("unexpected implementation: %s", res.Implementation)
	}
}

func TestClassifyMinimalProxy(t *testing.T) {
	cloneHex := "363d3d373d3d3d363d73ab5801a7d398351b8be11c439e05c5b3259aec9b5af43d82803e903d91602b57fd5bf3"
	bytecode, err := hex.DecodeString(cloneHex)
	if err != nil {
		t.Fatalf("decode clone bytecode: %v", err)
	}
	res := Classify(Input{BytecodePrefix: bytecode})
	if res.Kind != KindMinimalProxy {
		t.Fatalf("expected MinimalProxy, got %v", res)
	}
	want := checksummed(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b")
	if res.Implementation != want {
		t.Fatalf("expected implementation %s, got %s", want, res.Implementation)
	}
}

// TestClassifyMinimalProxyTakesPrecedenceOverImplSlot checks that when
// both the impl slot and EIP-1167 clone bytecode are present, the
// bytecode pattern wins.
func TestClassifyMinimalProxyTakesPrecedenceOverImplSlot(t *testing.T) {
	cloneHex := "363d3d373d3d3d363d73ab5801a7d398351b8be11c439e05c5b3259aec9b5af43d82803e903d91602b57fd5bf3"
	bytecode, err := hex.DecodeString(cloneHex)
	if err != nil {
		t.Fatalf("decode clone bytecode: %v", err)
	}
	res := Classify(Input{
		ImplSlot:       wordFromAddressHex(t, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"),
		BytecodePrefix: bytecode,
	})
	if res.Kind != KindMinimalProxy {
		t.Fatalf("expected MinimalProxy to win over a stray impl slot, got %v", res)
	}
}

func TestClassifyUnknown(t *testing.T) {
	res := Classify(Input{BytecodePrefix: []byte{0x60, 0x60, 0x60, 0x40}})
	if res.Kind != KindUnknown {
		t.Fatalf("expected Unknown for unrecognized bytecode, got %v", res)
	}
}

func TestProxiableUUIDSlotDecodesTo32Bytes(t *testing.T) {
	b := mustSlotBytes(ProxiableUUIDSlotHex)
	if len(b) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(b))
	}
}

func TestSlotConstantsAreLowercaseHex(t *testing.T) {
	for _, s := range []string{ImplementationSlotHex, BeaconSlotHex, AdminSlotHex, ProxiableUUIDSlotHex} {
		trimmed := strings.TrimPrefix(s, "0x")
		if len(trimmed) != 64 {
			t.Fatalf("expected 64 hex chars, got %d for %s", len(trimmed), s)
		}
		if _, err := hex.DecodeString(trimmed); err != nil {
			t.Fatalf("invalid hex constant %s: %v", s, err)
		}
		if trimmed != strings.ToLower(trimmed) {
			t.Fatalf("expected lowercase hex constant, got %s", s)
		}
	}
}

func TestEIP1167MarkerMatchesKnownPrefix(t *testing.T) {
	want, _ := hex.DecodeString("363d3d373d3d3d363d73")
	if !bytes.Equal(eip1167CloneMarker, want) {
		t.Fatalf("marker mismatch: got %x want %x", eip1167CloneMarker, want)
	}
}
