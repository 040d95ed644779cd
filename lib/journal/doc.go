// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package journal records every executed command as an append-only,
// tamper-evident audit trail. Entries are CBOR-encoded with Core
// Deterministic Encoding and chained with keyed BLAKE3 hashes: each
// record stores the hash of its entry bytes concatenated with the
// previous record's hash, so any mutation, insertion, or deletion
// breaks verification from that point on. The active segment rotates
// at a size threshold; rotated segments are zstd-compressed. The hash
// chain runs unbroken across segments.
package journal
