// Copyright 2025 ChainCodec Authors

package proxy

// Well-known storage slots and markers the classifier compares
// against. Each is `bytes32(uint256(keccak256(label)) - 1)` except
// ProxiableUUIDSlotHex, which is the raw keccak256 of "PROXIABLE" per
// EIP-1822. These are compile-time constants, not computed at runtime,
// since recomputing a well-known keccak256 on every classify call
// would be pure overhead.
const (
	// ImplementationSlotHex is EIP-1967's
	// keccak256("eip1967.proxy.implementation") - 1.
	ImplementationSlotHex = "0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc"

	// BeaconSlotHex is EIP-1967's keccak256("eip1967.proxy.beacon") - 1.
	BeaconSlotHex = "0xa3f0ad74e5423aebfd80d3ef4346578335a9a72aeaee59ff6cb3582b35133d50"

	// AdminSlotHex is EIP-1967's keccak256("eip1967.proxy.admin") - 1.
	// The classifier's input signature has no admin-slot parameter, so
	// this constant is exposed for callers that want to probe it
	// themselves but is never read by Classify (see DESIGN.md's
	// TransparentProxy open-question decision).
	AdminSlotHex = "0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103"

	// ProxiableUUIDSlotHex is EIP-1822's keccak256("PROXIABLE").
	ProxiableUUIDSlotHex = "0xc5f16f0fcc639fa48a6947836d9850f504798523bf8c9a3a87d5876cf622bcf7"
)

// eip1167CloneMarker is the fixed 10-byte prefix "0x363d3d373d3d3d363d73":
// an EIP-1167 minimal proxy's runtime bytecode always starts with this
// marker, followed by the 20-byte implementation address at offset
// 10..30 and a fixed suffix.
var eip1167CloneMarker = []byte{0x36, 0x3d, 0x3d, 0x37, 0x3d, 0x3d, 0x3d, 0x36, 0x3d, 0x73}
