// Copyright 2025 ChainCodec Authors
//
// Package batch implements a chunked parallel decode engine:
// sync.WaitGroup-joined worker goroutines process fixed-size chunks of
// input events concurrently while preserving input order in the
// result.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chaincodec/chaincodec/pkg/decode"
	"github.com/chaincodec/chaincodec/pkg/metrics"
	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// ErrorMode selects how BatchRequest handles a per-event decode
// failure. An unmatched fingerprint is never subject to ErrorMode: it
// always counts toward Skipped, regardless of mode.
type ErrorMode string

const (
	ErrorModeSkip    ErrorMode = "skip"
	ErrorModeCollect ErrorMode = "collect"
	ErrorModeThrow   ErrorMode = "throw"
)

// ProgressFunc is invoked after each chunk completes, with the number
// of events processed so far and the total. The engine funnels every
// call through one mutex, so at most one call is in flight at a time
// and implementations that print to a terminal don't need their own
// locking.
type ProgressFunc func(eventsDone, totalEvents int)

// BatchRequest describes one decode run. ID identifies the run for
// logging/tracing and progress correlation; a zero ID is assigned a
// fresh one by Run.
type BatchRequest struct {
	ID         uuid.UUID
	ChainSlug  string
	Raws       []value.RawEvent
	ChunkSize  int
	ErrorMode  ErrorMode
	ProgressCB ProgressFunc

	// Recorder receives per-item and per-run observability events. A
	// nil Recorder is treated as metrics.NoOp.
	Recorder metrics.Recorder
}

// ItemError pairs a failed input's index with the cause, returned by
// ErrorModeCollect.
type ItemError struct {
	Index int
	Cause error
}

// BatchResult is the outcome of a completed batch run.
type BatchResult struct {
	ID         uuid.UUID
	Events     []value.DecodedEvent
	Errors     []ItemError
	Skipped    int
	TotalInput int
}

// perItemOutcome is the raw per-index decode result, before the chunk
// results are folded into order-preserving Events/Errors/Skipped.
type perItemOutcome struct {
	event   value.DecodedEvent
	err     error
	skipped bool
	ok      bool
}

// Run executes req against dispatcher and reg: raws are split into
// ceil(n/chunk_size) chunks, chunks run concurrently, and within a
// chunk events decode sequentially. Output order always equals input
// order regardless of which chunk finishes first.
func Run(ctx context.Context, dispatcher *decode.Dispatcher, reg *schema.Registry, req BatchRequest) (*BatchResult, error) {
	if dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}
	chunkSize := req.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1
	}
	rec := req.Recorder
	if rec == nil {
		rec = metrics.NoOp
	}
	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	runStart := time.Now()
	n := len(req.Raws)
	outcomes := make([]perItemOutcome, n)

	var progressMu sync.Mutex
	done := 0
	reportProgress := func(delta int) {
		if req.ProgressCB == nil {
			return
		}
		progressMu.Lock()
		done += delta
		req.ProgressCB(done, n)
		progressMu.Unlock()
	}

	var thrownMu sync.Mutex
	var thrown *ThrownError

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					outcomes[i] = perItemOutcome{err: ctx.Err()}
					continue
				default:
				}

				itemStart := time.Now()
				evt, err := dispatcher.DecodeEvent(req.Raws[i], reg)
				if err == nil {
					outcomes[i] = perItemOutcome{event: evt, ok: true}
					rec.DecodeAttempt(req.ChainSlug, evt.SchemaName, true, time.Since(itemStart))
					continue
				}

				if _, ok := err.(*decode.SchemaNotFoundError); ok {
					outcomes[i] = perItemOutcome{skipped: true}
					rec.DecodeSkipped(req.ChainSlug)
					continue
				}

				rec.DecodeAttempt(req.ChainSlug, "", false, time.Since(itemStart))
				if req.ErrorMode == ErrorModeThrow {
					thrownMu.Lock()
					if thrown == nil || i < thrown.Index {
						thrown = &ThrownError{Index: i, Cause: err}
					}
					thrownMu.Unlock()
				}
				outcomes[i] = perItemOutcome{err: err}
			}
			reportProgress(end - start)
		}(start, end)
	}
	wg.Wait()

	if req.ErrorMode == ErrorModeThrow && thrown != nil {
		return nil, thrown
	}

	result := &BatchResult{ID: id, TotalInput: n}
	for i, o := range outcomes {
		switch {
		case o.ok:
			result.Events = append(result.Events, o.event)
		case o.skipped:
			result.Skipped++
		case o.err != nil:
			if req.ErrorMode == ErrorModeCollect {
				result.Errors = append(result.Errors, ItemError{Index: i, Cause: o.err})
			}
			// ErrorModeSkip (or the zero value): dropped silently.
		}
	}
	rec.BatchCompleted(n, len(result.Events), result.Skipped, len(outcomes)-len(result.Events)-result.Skipped, time.Since(runStart))
	return result, nil
}
