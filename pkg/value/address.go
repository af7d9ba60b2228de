// Copyright 2025 ChainCodec Authors
//
// EIP-55 address checksumming and parsing, used throughout the EVM
// decode path so every Address value leaves this package already in
// its canonical checksummed form.
package value

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// ChecksumAddress renders 20 raw address bytes as an EIP-55 checksummed,
// 0x-prefixed 42-character string, the only form an Address
// NormalizedValue is ever constructed with.
//
// We run the EIP-55 algorithm directly against crypto.Keccak256 rather
// than delegating to common.Address.Hex so the checksum contract lives
// entirely inside this package and does not silently depend on
// go-ethereum's own address-formatting internals.
func ChecksumAddress(addr [20]byte) string {
	hexAddr := hex.EncodeToString(addr[:])
	hash := crypto.Keccak256([]byte(hexAddr))
	hashHex := hex.EncodeToString(hash)

	out := make([]byte, 40)
	for i := 0; i < 40; i++ {
		c := hexAddr[i]
		if c >= '0' && c <= '9' {
			out[i] = c
			continue
		}
		// hashHex[i] is a hex digit 0-f; checksum upper-cases the
		// address character when the corresponding nibble is >= 8.
		nibble := hashHex[i]
		upper := (nibble >= '8' && nibble <= '9') || (nibble >= 'a' && nibble <= 'f')
		if upper {
			out[i] = c - ('a' - 'A')
		} else {
			out[i] = c
		}
	}
	return "0x" + string(out)
}

// ParseAddress decodes a 0x-prefixed 40-hex-char address (any casing)
// into its 20 raw bytes, ignoring checksum casing on input. Decoders
// always re-checksum on output.
func ParseAddress(s string) ([20]byte, error) {
	var out [20]byte
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s) != 40 {
		return out, fmt.Errorf("address must be 40 hex chars, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid address hex: %w", err)
	}
	copy(out[:], b)
	return out, nil
}
