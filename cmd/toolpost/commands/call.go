// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/toolpost/toolpost/cmd/toolpost/cli"
	"github.com/toolpost/toolpost/lib/catalog"
	"github.com/toolpost/toolpost/lib/wire"
)

func callCommand() *cli.Command {
	options := &clientOptions{}
	var argsJSON string
	var raw bool
	var list bool

	return &cli.Command{
		Name:    "call",
		Summary: "Send a single tool call to the host.",
		Description: "Encodes a tool call and sends it to the host add-in, printing\n" +
			"the host's response. With --raw the argument is sent as wire text\n" +
			"without encoding. With --list the available tools are printed.",
		Usage: "toolpost call <tool> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("call", pflag.ContinueOnError)
			options.addFlags(flags)
			flags.StringVar(&argsJSON, "args", "{}", "tool arguments as a JSON object")
			flags.BoolVar(&raw, "raw", false, "send the argument as a raw wire command")
			flags.BoolVar(&list, "list", false, "list available tools and exit")
			return flags
		},
		Examples: []cli.Example{
			{Description: "Create a 10mm cube", Command: `toolpost call create_cube --args '{"size": 10}'`},
			{Description: "Send raw wire text", Command: `toolpost call --raw "create_cube 10 none xy 0 0 0"`},
		},
		Run: func(args []string) error {
			if list {
				return printToolList(os.Stdout)
			}
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one argument, got %d", len(args))
			}

			command := args[0]
			if !raw {
				var arguments map[string]any
				if err := json.Unmarshal([]byte(argsJSON), &arguments); err != nil {
					return fmt.Errorf("parsing --args: %w", err)
				}
				encoded, err := catalog.Encode(command, arguments)
				if err != nil {
					return err
				}
				command = encoded
			}

			client, err := options.client()
			if err != nil {
				return err
			}
			response, err := client.Call(context.Background(), command)
			if err != nil {
				return err
			}
			return printResponse(os.Stdout, response)
		},
	}
}

func printToolList(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, tool := range catalog.Tools() {
		required := make([]string, 0, len(tool.Parameters))
		for _, parameter := range tool.Parameters {
			if parameter.Required {
				required = append(required, parameter.Name)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tool.Name, strings.Join(required, ","), tool.Description)
	}
	return tw.Flush()
}

func printResponse(w io.Writer, response wire.Response) error {
	if response.Status == wire.StatusSuccess {
		fmt.Fprintln(w, response.Message)
		return nil
	}
	if response.Category != "" {
		return fmt.Errorf("%s (%s)", response.Message, response.Category)
	}
	return fmt.Errorf("%s", response.Message)
}
