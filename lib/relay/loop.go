// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"context"
	"log/slog"
)

// Loop is the host's single-threaded executor: the one goroutine
// allowed to touch host modeling state. It services the dispatch
// signal cooperatively, interleaved with host-owned tasks, the way a
// CAD application's main thread picks up an external event between
// its own UI and geometry work.
//
// There is no preemption: a task or handler that blocks stalls the
// loop, and the transport's timeout is the only recovery path visible
// to clients — exactly the failure mode of a modal dialog holding the
// real application's main thread.
type Loop struct {
	// Signal is the inbound command queue. Required.
	Signal *Signal

	// Interpreter executes each command. Required.
	Interpreter *Interpreter

	// Logger receives lifecycle events. If nil, slog.Default() is used.
	Logger *slog.Logger

	tasks chan func()
}

// NewLoop creates a loop consuming the given signal.
func NewLoop(signal *Signal, interpreter *Interpreter, logger *slog.Logger) *Loop {
	return &Loop{
		Signal:      signal,
		Interpreter: interpreter,
		Logger:      logger,
		tasks:       make(chan func()),
	}
}

func (l *Loop) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Run consumes commands and tasks until ctx is cancelled. Commands
// already queued when cancellation arrives are not drained; their
// waiters time out and abandon their slots.
func (l *Loop) Run(ctx context.Context) error {
	l.logger().Info("main loop running")
	for {
		select {
		case <-ctx.Done():
			l.logger().Info("main loop stopped")
			return ctx.Err()
		case task := <-l.tasks:
			task()
		case envelope := <-l.Signal.Commands():
			l.Interpreter.Execute(ctx, envelope)
		}
	}
}

// Do runs f on the loop goroutine and waits for it to finish. This is
// how host-owned work (document setup, periodic saves) shares the
// executor with external commands. Returns ctx.Err() if the loop shut
// down before running f.
func (l *Loop) Do(ctx context.Context, f func()) error {
	done := make(chan struct{})
	select {
	case l.tasks <- func() { f(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
