// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP body helpers shared by the
// host listener and the bridge client. Every body read is capped at
// MaxBodySize so a misbehaving peer cannot exhaust memory; command
// strings and responses are tiny, so the cap never constrains normal
// operation.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxBodySize bounds request and response body reads: 4 MB. Command
// payloads are a few hundred bytes; the generous margin covers
// get_state dumps of large documents.
const MaxBodySize int64 = 4 << 20

// ReadBody reads an HTTP body up to MaxBodySize bytes. Use instead of
// io.ReadAll on anything that crosses the process boundary.
func ReadBody(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxBodySize))
}

// DecodeBody reads an HTTP body (bounded) and JSON-decodes it into v.
func DecodeBody(body io.Reader, v any) error {
	data, err := ReadBody(body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads an HTTP error response body for inclusion in a
// diagnostic message. Read errors are ignored — a partial body is
// still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxBodySize))
	return string(data)
}
