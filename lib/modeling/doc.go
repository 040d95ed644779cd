// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package modeling holds the host-side document model the command
// handlers operate on: named solid bodies, a selection set, boolean
// combines, transforms, and an undo/redo history of document
// snapshots.
//
// The document is a stand-in for a real CAD kernel — bodies record
// their construction parameters (kind, dimensions, plane, centre)
// rather than boundary geometry, which is exactly what the relay and
// its tests need to observe. All dimensions and coordinates are in
// host units (centimetres); unit conversion happens at the wire
// decode boundary, never here.
//
// A Document is owned exclusively by the host's main loop and is
// deliberately unsynchronized: touching it from any other goroutine
// is a correctness violation, not a data race to be locked away.
package modeling
