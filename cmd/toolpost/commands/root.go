// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the toolpost command tree.
package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/toolpost/toolpost/cmd/toolpost/cli"
	"github.com/toolpost/toolpost/lib/hostclient"
)

// Root builds the full toolpost command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "toolpost",
		Summary: "Tools for talking to a Toolpost modeling host.",
		Description: "toolpost sends modeling commands to a running Toolpost host\n" +
			"add-in, replays macro files, and exposes the host's tools over MCP.",
		Subcommands: []*cli.Command{
			mcpCommand(),
			callCommand(),
			macroCommand(),
			statusCommand(),
			versionCommand(),
		},
	}
}

// clientOptions holds the flags shared by every command that talks to
// a host.
type clientOptions struct {
	host    string
	timeout int
	verbose bool
}

func (o *clientOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.host, "host", "", "host address (host:port, default "+hostclient.DefaultAddress+")")
	flags.IntVar(&o.timeout, "timeout", 0, "command timeout in seconds")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
}

func (o *clientOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o *clientOptions) client() (*hostclient.Client, error) {
	return hostclient.New(hostclient.Config{
		Address: o.host,
		Timeout: time.Duration(o.timeout) * time.Second,
		Logger:  o.logger(),
	})
}
