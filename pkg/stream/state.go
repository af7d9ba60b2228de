// Copyright 2025 ChainCodec Authors

package stream

import "sync/atomic"

// ConnState is a source task's position in the reconnect state
// machine: Connecting -> Subscribed -> Running -> Disconnected ->
// (backoff) -> Connecting.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateSubscribed
	StateRunning
	StateDisconnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateRunning:
		return "running"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// connFlag is the connection-state flag: single writer (the source
// task), many readers via atomic.
type connFlag struct {
	v atomic.Int32
}

func (f *connFlag) set(s ConnState)   { f.v.Store(int32(s)) }
func (f *connFlag) get() ConnState    { return ConnState(f.v.Load()) }
func (f *connFlag) isConnected() bool { return f.get() == StateRunning }
