// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package relay implements the cross-thread command relay at the heart
// of the host add-in: the mechanism that serializes concurrently
// arriving external commands onto the one goroutine allowed to touch
// host modeling state, pairs each command with exactly its own
// response, and surfaces hung host operations as timeouts instead of
// blocking forever.
//
// Four pieces cooperate:
//
//   - [Signal] is the dispatch channel into the main loop. Post is
//     non-blocking from any goroutine; when the queue is full it fails
//     fast rather than stalling the transport.
//   - [Mailbox] carries responses back. Each in-flight command owns a
//     slot keyed by its request ID, so overlapping requests can never
//     have their responses swapped. A waiter that gives up abandons
//     its slot; a late delivery to an abandoned slot is dropped and
//     logged (the accepted lost-response condition).
//   - [Registry] maps operation names to handlers. Built at startup,
//     read-only afterwards, so it needs no locking.
//   - [Interpreter] runs on the main loop only. It decodes the
//     payload, invokes the handler, converts failures (including
//     panics) into error responses, and delivers exactly one response
//     per command — a missed delivery would strand the waiter until
//     its timeout, which is strictly worse than any overly broad
//     recover.
//
// [Loop] is the single consumer: it services the signal cooperatively,
// interleaved with host-owned tasks submitted via Loop.Do, the way a
// CAD application's main thread services an external event between its
// own UI and geometry work.
package relay
