// Copyright 2025 ChainCodec Authors

package stream

import (
	"context"

	"github.com/chaincodec/chaincodec/pkg/value"
)

// Filter narrows a LogSource subscription to the addresses/topics one
// chain stream cares about. Interpretation of Topics is chain-specific;
// the engine itself only ever looks at the decoded schema name (for the
// allow-list) and RawEvent.Removed.
type Filter struct {
	Addresses []string
	Topics    [][]byte
}

// LogSource is the engine's one external dependency: an abstract async
// producer of RawEvents. Its reference implementation is an EVM
// WebSocket listener talking eth_subscribe("logs", filter), but
// nothing in this package knows that. Subscribe returning an error, or
// its returned channel closing, both just mean "this attempt ended":
// reconnection is the engine's responsibility, not the source's.
type LogSource interface {
	Subscribe(ctx context.Context, filter Filter) (<-chan value.RawEvent, error)
	Close() error
}
