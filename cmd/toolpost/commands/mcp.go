// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/toolpost/toolpost/cmd/toolpost/cli"
	"github.com/toolpost/toolpost/lib/mcp"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Summary: "Model Context Protocol integration.",
		Subcommands: []*cli.Command{
			mcpServeCommand(),
		},
	}
}

func mcpServeCommand() *cli.Command {
	options := &clientOptions{}
	return &cli.Command{
		Name:    "serve",
		Summary: "Serve the host's tools over MCP on stdio.",
		Description: "Runs an MCP server on stdin/stdout, forwarding tool calls to\n" +
			"the host add-in. Intended to be launched by an MCP client.",
		Usage: "toolpost mcp serve [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			options.addFlags(flags)
			return flags
		},
		Examples: []cli.Example{
			{Description: "Serve against a host on a non-default port", Command: "toolpost mcp serve --host 127.0.0.1:9000"},
		},
		Run: func(args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, err := options.client()
			if err != nil {
				return err
			}
			server := mcp.NewServer(client, options.logger())
			return server.Serve(ctx)
		},
	}
}
