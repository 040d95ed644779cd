// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/toolpost/toolpost/cmd/toolpost/cli"
	"github.com/toolpost/toolpost/lib/macro"
)

func macroCommand() *cli.Command {
	return &cli.Command{
		Name:    "macro",
		Summary: "Replay macro files against the host.",
		Subcommands: []*cli.Command{
			macroRunCommand(),
			macroCheckCommand(),
		},
	}
}

func macroRunCommand() *cli.Command {
	options := &clientOptions{}
	return &cli.Command{
		Name:    "run",
		Summary: "Execute a macro file.",
		Description: "Reads a JSONC macro file and sends its steps to the host in\n" +
			"order. A failed step stops the run unless the step sets\n" +
			"continue_on_error.",
		Usage: "toolpost macro run <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
			options.addFlags(flags)
			return flags
		},
		Examples: []cli.Example{
			{Description: "Replay a bracket macro", Command: "toolpost macro run macros/bracket.jsonc"},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one macro file, got %d arguments", len(args))
			}
			parsed, err := macro.ReadFile(args[0])
			if err != nil {
				return err
			}

			client, err := options.client()
			if err != nil {
				return err
			}
			runner := &macro.Runner{Caller: client, Logger: options.logger()}
			results, err := runner.Run(context.Background(), parsed)
			for _, result := range results {
				marker := "ok"
				if result.Failed() {
					marker = "failed"
				}
				fmt.Printf("[%d] %s: %s\n", result.Index, marker, result.Response.Message)
			}
			if err != nil {
				return fmt.Errorf("macro %q: %w", parsed.Name, err)
			}
			fmt.Printf("macro %q completed: %d steps\n", parsed.Name, len(results))
			return nil
		},
	}
}

func macroCheckCommand() *cli.Command {
	return &cli.Command{
		Name:    "check",
		Summary: "Validate a macro file without running it.",
		Usage:   "toolpost macro check <file>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one macro file, got %d arguments", len(args))
			}
			parsed, err := macro.ReadFile(args[0])
			if err != nil {
				return err
			}
			issues := macro.Validate(parsed)
			for _, issue := range issues {
				fmt.Fprintln(os.Stderr, issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("macro %q has %d issue(s)", parsed.Name, len(issues))
			}
			fmt.Printf("macro %q is valid: %d steps\n", parsed.Name, len(parsed.Steps))
			return nil
		},
	}
}
