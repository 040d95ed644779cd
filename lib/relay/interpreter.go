// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/toolpost/toolpost/lib/wire"
)

// Observer is notified after each command completes, with the
// envelope and the response that was (or would have been) delivered.
// The host wires this to the command journal. Observers run on the
// main loop; an observer error is logged, never propagated — auditing
// must not fail commands.
type Observer func(envelope Envelope, response wire.Response) error

// Interpreter decodes and executes commands on the main loop, and
// delivers exactly one response per command to the mailbox.
type Interpreter struct {
	// Registry resolves operation names. Required.
	Registry *Registry

	// Mailbox receives the response for every executed command. Required.
	Mailbox *Mailbox

	// Observer, if set, is called after every execution.
	Observer Observer

	// Logger receives execution events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

func (i *Interpreter) logger() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return slog.Default()
}

// Execute runs one envelope to completion. Whatever happens — decode
// failure, unknown operation, handler error, handler panic — exactly
// one response is delivered to the envelope's mailbox slot. A missed
// delivery would strand the waiting transport thread until its
// timeout, turning every handler bug into a slow timeout instead of a
// fast error, so the recover here is deliberately unconditional.
func (i *Interpreter) Execute(ctx context.Context, envelope Envelope) {
	response := i.interpret(ctx, envelope.Raw)

	if i.Observer != nil {
		if err := i.Observer(envelope, response); err != nil {
			i.logger().Error("command observer failed",
				"request_id", envelope.ID,
				"error", err,
			)
		}
	}

	delivered := i.Mailbox.Deliver(envelope.ID, response)
	i.logger().Debug("command executed",
		"request_id", envelope.ID,
		"status", response.Status,
		"delivered", delivered,
	)
}

// interpret decodes the raw command, dispatches to its handler, and
// converts every failure mode into a response value.
func (i *Interpreter) interpret(ctx context.Context, raw string) (response wire.Response) {
	defer func() {
		if recovered := recover(); recovered != nil {
			i.logger().Error("handler panicked", "panic", recovered)
			response = errorResponse(Internal("handler panicked: %v", recovered))
		}
	}()

	command, err := wire.Decode(raw)
	if err != nil {
		return errorResponse(Validation("%v", err))
	}

	handler, ok := i.Registry.Lookup(command.Op)
	if !ok {
		return errorResponse(NotFound("unknown operation %q", command.Op))
	}

	message, err := handler(ctx, command)
	if err != nil {
		return errorResponse(err)
	}
	if message == "" {
		message = fmt.Sprintf("%s completed", command.Op)
	}
	return wire.Success(message)
}

// errorResponse converts a handler error into an error response,
// carrying the category when the error is an OpError and classifying
// everything else as internal.
func errorResponse(err error) wire.Response {
	category := CategoryInternal
	var opErr *OpError
	if errors.As(err, &opErr) {
		category = opErr.Category
	}
	return wire.Response{
		Status:    wire.StatusError,
		Message:   err.Error(),
		Category:  string(category),
		Retryable: category == CategoryTransient,
	}
}
