// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the host
// add-in.
//
// Configuration is loaded from a single file specified by either the
// TOOLPOST_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks, no ~/.config
// discovery, and no automatic file search.
//
// Environment variables override individual fields after the file is
// loaded, so a deployment can point the same file at a different
// address or journal directory:
//
//   - TOOLPOST_LISTEN_ADDR overrides listen_addr
//   - TOOLPOST_TIMEOUT_SECONDS overrides timeout_seconds
//   - TOOLPOST_JOURNAL_DIR overrides journal.directory
//   - TOOLPOST_ALLOW_CODE ("true"/"false") overrides allow_code
//
// Running with no file at all is supported: [Default] values plus
// environment overrides describe a complete local deployment.
//
// This package depends on no other toolpost packages.
package config
