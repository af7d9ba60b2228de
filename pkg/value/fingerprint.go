// Copyright 2025 ChainCodec Authors
//
// EventFingerprint and the per-family fingerprint computations the
// schema registry keys its lookups on.
package value

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// EventFingerprint is the opaque, chain-specific key the registry
// indexes schemas by. It is always rendered as "0x" + lowercase hex.
type EventFingerprint string

// ZeroFingerprint never matches any schema; the EVM decoder returns it
// when topics is empty.
const ZeroFingerprint EventFingerprint = "0x" + "00000000000000000000000000000000000000000000000000000000000000"

// NewFingerprint wraps raw bytes as a fingerprint, hex-encoding them.
func NewFingerprint(b []byte) EventFingerprint {
	return EventFingerprint("0x" + hex.EncodeToString(b))
}

// Bytes decodes the fingerprint back to raw bytes.
func (f EventFingerprint) Bytes() ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(string(f), "0x"))
}

func (f EventFingerprint) String() string { return string(f) }

// EVMFingerprint computes keccak256(signature), the standard 32-byte
// topic[0] for an EVM event.
func EVMFingerprint(canonicalSignature string) EventFingerprint {
	h := crypto.Keccak256([]byte(canonicalSignature))
	return NewFingerprint(h)
}

// SolanaFingerprint computes the first 8 bytes of
// sha256("event:" + eventName), the Anchor discriminator convention.
func SolanaFingerprint(eventName string) EventFingerprint {
	h := sha256.Sum256([]byte("event:" + eventName))
	return NewFingerprint(h[:8])
}

// CosmosFingerprint computes the first 16 bytes of
// sha256("event:" + type + "/" + action).
func CosmosFingerprint(eventType, action string) EventFingerprint {
	h := sha256.Sum256([]byte("event:" + eventType + "/" + action))
	return NewFingerprint(h[:16])
}
