// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"context"
	"sort"

	"github.com/toolpost/toolpost/lib/wire"
)

// Handler executes one operation on the main loop. It returns the
// success message for the response payload (empty means a generic
// success message) or an error; categorized failures use [OpError],
// anything else is reported as internal. Handlers run exclusively on
// the main loop, so they may touch host state without locking.
type Handler func(ctx context.Context, command wire.Command) (string, error)

// Registry maps operation names to handlers. Register everything at
// startup, then treat it as read-only: lookups are unsynchronized by
// design, mirroring the single-threaded executor that owns it.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler. Panics on a duplicate name — the operation
// catalog is fixed, so a duplicate is a programming error caught at
// startup, not a runtime condition.
func (r *Registry) Register(op string, handler Handler) {
	if _, exists := r.handlers[op]; exists {
		panic("relay: duplicate handler registration for " + op)
	}
	r.handlers[op] = handler
}

// Lookup returns the handler for op, or false when the operation is
// unknown.
func (r *Registry) Lookup(op string) (Handler, bool) {
	handler, ok := r.handlers[op]
	return handler, ok
}

// Operations returns all registered operation names, sorted. Used by
// the get_api_info handler and by diagnostics.
func (r *Registry) Operations() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
