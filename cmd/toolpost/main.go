// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// The toolpost command sends modeling commands to a running Toolpost
// host add-in, replays macro files, and serves the host's tools over
// MCP.
package main

import (
	"fmt"
	"os"

	"github.com/toolpost/toolpost/cmd/toolpost/commands"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
