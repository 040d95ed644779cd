// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"strconv"

	"github.com/toolpost/toolpost/lib/relay"
	"github.com/toolpost/toolpost/lib/wire"
)

// argReader walks the positional arguments of a legacy command.
// Required arguments must be present; optional arguments fall back to
// their defaults once the list is exhausted. Extra trailing tokens are
// ignored, matching the forgiving split-and-index wire grammar.
type argReader struct {
	op     string
	values []string
	index  int
}

func newArgReader(command wire.Command) *argReader {
	return &argReader{op: command.Op, values: command.Args}
}

func (r *argReader) next() (string, bool) {
	if r.index >= len(r.values) {
		return "", false
	}
	value := r.values[r.index]
	r.index++
	return value, true
}

// word reads a required string argument.
func (r *argReader) word(name string) (string, error) {
	value, ok := r.next()
	if !ok {
		return "", relay.Validation("%s: missing required argument %q", r.op, name)
	}
	return value, nil
}

// wordDefault reads an optional string argument.
func (r *argReader) wordDefault(fallback string) string {
	value, ok := r.next()
	if !ok {
		return fallback
	}
	return value
}

// number reads a required numeric argument, in wire units.
func (r *argReader) number(name string) (float64, error) {
	value, ok := r.next()
	if !ok {
		return 0, relay.Validation("%s: missing required argument %q", r.op, name)
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, relay.Validation("%s: argument %q must be a number, got %q", r.op, name, value)
	}
	return parsed, nil
}

// numberDefault reads an optional numeric argument, in wire units.
func (r *argReader) numberDefault(name string, fallback float64) (float64, error) {
	value, ok := r.next()
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, relay.Validation("%s: argument %q must be a number, got %q", r.op, name, value)
	}
	return parsed, nil
}

// positive reads a required numeric argument and rejects values that
// are not strictly positive.
func (r *argReader) positive(name string) (float64, error) {
	value, err := r.number(name)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, relay.Validation("%s: argument %q must be positive, got %v", r.op, name, value)
	}
	return value, nil
}
