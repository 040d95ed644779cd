// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UnitScale converts wire millimetres to host centimetres. Numeric
// arguments are transmitted in mm and divided by this factor at the
// decode boundary. Protocol constant — changing it breaks every
// deployed bridge/host pair.
const UnitScale = 10.0

// ToHostUnits converts a wire-unit (mm) value to host units (cm).
func ToHostUnits(millimetres float64) float64 {
	return millimetres / UnitScale
}

// Command is a decoded request: an operation name plus its arguments
// in whichever encoding the sender used. Immutable once decoded;
// consumed exactly once by the interpreter.
type Command struct {
	// Op is the operation identifier ("create_cube", "undo", ...).
	Op string

	// Args holds the positional arguments of the legacy form, already
	// split on whitespace. Nil for structured commands.
	Args []string

	// Fields is the raw JSON object of the structured form, kept
	// opaque so that each handler unmarshals its own parameter shape.
	// Nil for legacy commands.
	Fields json.RawMessage
}

// Structured reports whether the command arrived in the JSON form.
func (c Command) Structured() bool {
	return c.Fields != nil
}

// typedEnvelope extracts the operation selector from a structured
// command. All structured commands carry a "type" field.
type typedEnvelope struct {
	Type string `json:"type"`
}

// Decode parses a raw command string in either encoding. A string
// whose first non-space byte is '{' is treated as the structured JSON
// form and must carry a non-empty "type" field; anything else is the
// legacy whitespace-delimited form whose first token is the operation
// name.
func Decode(raw string) (Command, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Command{}, fmt.Errorf("empty command")
	}

	if trimmed[0] == '{' {
		var envelope typedEnvelope
		if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
			return Command{}, fmt.Errorf("malformed structured command: %w", err)
		}
		if envelope.Type == "" {
			return Command{}, fmt.Errorf("structured command is missing the %q field", "type")
		}
		return Command{Op: envelope.Type, Fields: json.RawMessage(trimmed)}, nil
	}

	tokens := strings.Fields(trimmed)
	return Command{Op: tokens[0], Args: tokens[1:]}, nil
}

// FormatNumber renders a numeric argument the way the legacy grammar
// expects: no exponent, no trailing zeros, so 10.0 encodes as "10".
func FormatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
