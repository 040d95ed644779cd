// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"

	"github.com/toolpost/toolpost/lib/wire"
)

// Mailbox pairs each in-flight command with exactly its own response.
// Slots are keyed by request ID; a slot holds at most one response.
//
// The transport listener owns the open/abandon side; the interpreter
// owns the deliver side. Delivery to a slot whose waiter already gave
// up (or that never existed) is dropped — the lost-response condition
// the protocol accepts instead of cancelling host-side work.
type Mailbox struct {
	// Logger receives dropped-response events at Warn level. If nil,
	// slog.Default() is used.
	Logger *slog.Logger

	mu    sync.Mutex
	slots map[string]chan wire.Response
}

// NewMailbox creates an empty mailbox.
func NewMailbox(logger *slog.Logger) *Mailbox {
	return &Mailbox{
		Logger: logger,
		slots:  make(map[string]chan wire.Response),
	}
}

func (m *Mailbox) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Open creates the slot for a request and returns the channel its
// response will arrive on. The channel is buffered so delivery never
// blocks the interpreter. Panics on a duplicate ID — request IDs are
// 16 random bytes, so a collision is a caller bug, not a runtime
// condition.
func (m *Mailbox) Open(id string) <-chan wire.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.slots[id]; exists {
		panic("relay: duplicate mailbox slot " + id)
	}
	slot := make(chan wire.Response, 1)
	m.slots[id] = slot
	return slot
}

// Deliver places the response for a request into its slot and removes
// the slot. Returns false if the slot was already abandoned; the
// response is then dropped and logged, never queued.
func (m *Mailbox) Deliver(id string, response wire.Response) bool {
	m.mu.Lock()
	slot, ok := m.slots[id]
	delete(m.slots, id)
	m.mu.Unlock()

	if !ok {
		m.logger().Warn("dropping response for abandoned request",
			"request_id", id,
			"status", response.Status,
		)
		return false
	}
	slot <- response
	return true
}

// Abandon removes a slot whose waiter has given up (timeout or
// client disconnect). Safe to call after delivery; removal is
// synchronous, so no expiry sweep is needed — a late Deliver simply
// finds no slot.
func (m *Mailbox) Abandon(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, id)
}

// Pending returns the number of open slots. Used by diagnostics and
// tests.
func (m *Mailbox) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// NewRequestID creates a random 16-byte hex string for pairing a
// command with its response across the thread boundary.
func NewRequestID() (string, error) {
	var buffer [16]byte
	if _, err := rand.Read(buffer[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer[:]), nil
}
