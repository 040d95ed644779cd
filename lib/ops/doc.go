// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package ops registers the modeling operation handlers. Each handler
// parses one wire command's arguments (positional legacy form or the
// structured JSON form), converts wire millimetres to host units,
// applies the operation to the in-memory document, and formats the
// success message that travels back in the response. All handlers run
// on the host main loop, so they mutate the document without locking.
package ops
