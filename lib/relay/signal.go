// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import "errors"

// ErrQueueFull is returned by Signal.Post when the dispatch queue has
// no room. The transport reports it as a transient error; the caller
// may retry once the main loop drains the backlog.
var ErrQueueFull = errors.New("relay: dispatch queue is full")

// Envelope carries one command through the dispatch signal. The raw
// string is kept undecoded — decoding belongs to the interpreter on
// the main loop, matching where parse errors must become error
// responses.
type Envelope struct {
	// ID is the mailbox slot the response must be delivered to.
	ID string

	// Raw is the command string exactly as received.
	Raw string
}

// Signal is the cross-thread dispatch channel into the host's main
// loop. Post never blocks the caller; the main loop consumes
// cooperatively between its own tasks. Ordering follows queue order,
// but the protocol only requires that each response reaches its own
// requester.
type Signal struct {
	queue chan Envelope
}

// DefaultQueueDepth bounds the dispatch backlog. A full queue means
// the main loop has been busy or blocked for a long stretch; failing
// fast keeps the transport responsive instead of accumulating
// requests that would all time out anyway.
const DefaultQueueDepth = 64

// NewSignal creates a dispatch signal. A depth <= 0 uses
// DefaultQueueDepth.
func NewSignal(depth int) *Signal {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Signal{queue: make(chan Envelope, depth)}
}

// Post enqueues a command for the main loop. Non-blocking and safe
// from any goroutine; returns ErrQueueFull when the queue has no room.
func (s *Signal) Post(envelope Envelope) error {
	select {
	case s.queue <- envelope:
		return nil
	default:
		return ErrQueueFull
	}
}

// Commands exposes the consume side to the main loop.
func (s *Signal) Commands() <-chan Envelope {
	return s.queue
}
