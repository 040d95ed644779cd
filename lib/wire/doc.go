// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire defines the command and response encoding shared by the
// bridge and the host add-in.
//
// A command crosses the process boundary as a single string in one of
// two encodings. The legacy form is whitespace-delimited and positional
// ("create_cube 10 none xy 0 0 0"); the structured form is a JSON
// object with a required "type" field, used for operations whose
// arguments do not fit a flat positional list. [Decode] accepts both
// and returns a [Command].
//
// Numeric arguments travel in millimetres. The host's native unit is
// centimetres, so decoders divide by [UnitScale] at the boundary. The
// scale factor is a protocol constant, not configuration.
//
// A [Response] is the outcome of executing exactly one command:
// success, error, or timeout, plus a message. Error responses may
// carry a category and a retryable hint so that clients can make
// programmatic recovery decisions without parsing message text.
package wire
