// Copyright 2025 ChainCodec Authors
//
// Package proxy implements the storage/bytecode proxy-pattern
// classifier. It is a pure function over slot values and a bytecode
// prefix; it never dials out to resolve a beacon's implementation or
// otherwise touches the network.
package proxy

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/chaincodec/chaincodec/pkg/value"
)

// Kind tags the storage/bytecode pattern a contract address follows.
type Kind string

const (
	KindNotAProxy        Kind = "not_a_proxy"
	KindLogicProxy       Kind = "logic_proxy"        // EIP-1967
	KindBeaconProxy      Kind = "beacon_proxy"       // EIP-1967
	KindUUPS             Kind = "uups"               // EIP-1822
	KindMinimalProxy     Kind = "minimal_proxy"      // EIP-1167
	KindTransparentProxy Kind = "transparent_proxy"
	KindUnknown          Kind = "unknown"
)

// Input bundles everything Classify needs. Every slot is the raw
// 32-byte storage word (nil or all-zero both mean "absent/not read");
// BytecodePrefix is the address's runtime bytecode, or at least enough
// of its leading bytes to check the EIP-1167 marker and extract the
// cloned address.
type Input struct {
	Address        string
	ImplSlot       []byte
	BeaconSlot     []byte
	UUPSSlot       []byte
	BytecodePrefix []byte
}

// Result is Classify's output: the matched Kind plus whatever addresses
// could be resolved directly from the inputs given.
type Result struct {
	Kind           Kind
	Implementation string // checksummed; empty if not resolved here
	Beacon         string // checksummed; empty unless Kind == KindBeaconProxy
}

func mustSlotBytes(hexStr string) []byte {
	b, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
	if err != nil {
		panic("proxy: invalid compile-time slot constant: " + err.Error())
	}
	return b
}

var proxiableUUIDSlot = mustSlotBytes(ProxiableUUIDSlotHex)

// isZeroWord reports whether b is absent or entirely zero bytes.
func isZeroWord(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// addressFromWord extracts the low 20 bytes of a 32-byte storage word
// as a checksummed address (Solidity right-aligns addresses within a
// slot). It returns ok=false for anything other than a well-formed
// 32-byte word.
func addressFromWord(word []byte) (string, bool) {
	if len(word) != 32 {
		return "", false
	}
	var addr [20]byte
	copy(addr[:], word[12:32])
	return value.ChecksumAddress(addr), true
}

// isEIP1167Clone reports whether bytecode opens with the fixed minimal
// proxy marker and is long enough to contain the cloned address.
func isEIP1167Clone(bytecode []byte) bool {
	return len(bytecode) >= 30 && bytes.Equal(bytecode[:10], eip1167CloneMarker)
}

// minimalProxyImplementation extracts the cloned implementation address
// from byte offset 10..30 of an EIP-1167 clone's bytecode.
func minimalProxyImplementation(bytecode []byte) string {
	var addr [20]byte
	copy(addr[:], bytecode[10:30])
	return value.ChecksumAddress(addr)
}

// Classify determines the proxy pattern in's slots and bytecode follow.
// The more specific discriminators (the beacon slot, then the UUPS
// proxiable-UUID marker) are checked ahead of the generic "impl slot is
// set" rule, since a beacon proxy and a UUPS proxy would otherwise also
// satisfy that generic rule, making BeaconProxy/UUPS unreachable (see
// DESIGN.md).
//
// TransparentProxy is never produced: distinguishing it from a plain
// LogicProxy needs the admin slot, which Classify's input signature
// does not carry (see AdminSlotHex and DESIGN.md).
func Classify(in Input) Result {
	implAddr, hasImpl := addressFromWord(in.ImplSlot)
	hasImpl = hasImpl && !isZeroWord(in.ImplSlot)

	beaconAddr, hasBeacon := addressFromWord(in.BeaconSlot)
	hasBeacon = hasBeacon && !isZeroWord(in.BeaconSlot)

	if hasBeacon {
		return Result{Kind: KindBeaconProxy, Beacon: beaconAddr}
	}

	if !isZeroWord(in.UUPSSlot) && bytes.Equal(in.UUPSSlot, proxiableUUIDSlot) && hasImpl {
		return Result{Kind: KindUUPS, Implementation: implAddr}
	}

	if hasImpl && !isEIP1167Clone(in.BytecodePrefix) {
		return Result{Kind: KindLogicProxy, Implementation: implAddr}
	}

	if isEIP1167Clone(in.BytecodePrefix) {
		return Result{Kind: KindMinimalProxy, Implementation: minimalProxyImplementation(in.BytecodePrefix)}
	}

	if !hasImpl && !hasBeacon && isZeroWord(in.UUPSSlot) && len(in.BytecodePrefix) == 0 {
		return Result{Kind: KindNotAProxy}
	}

	return Result{Kind: KindUnknown}
}
