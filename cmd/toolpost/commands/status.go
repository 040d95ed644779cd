// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/pflag"

	"github.com/toolpost/toolpost/cmd/toolpost/cli"
)

func statusCommand() *cli.Command {
	options := &clientOptions{}
	return &cli.Command{
		Name:    "status",
		Summary: "Check host reachability and show machine diagnostics.",
		Description: "Probes the host add-in's health endpoint and prints basic\n" +
			"diagnostics for the machine running it.",
		Usage: "toolpost status [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("status", pflag.ContinueOnError)
			options.addFlags(flags)
			return flags
		},
		Run: func(args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			client, err := options.client()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			defer tw.Flush()

			if err := client.Health(ctx); err != nil {
				fmt.Fprintf(tw, "host:\tunreachable (%v)\n", err)
			} else {
				fmt.Fprintf(tw, "host:\tok\n")
			}

			printMachineDiagnostics(ctx, tw)
			return nil
		},
	}
}

// printMachineDiagnostics writes local machine facts. Probe failures
// are reported inline rather than aborting the status output.
func printMachineDiagnostics(ctx context.Context, tw *tabwriter.Writer) {
	if info, err := host.InfoWithContext(ctx); err != nil {
		fmt.Fprintf(tw, "machine:\tunavailable (%v)\n", err)
	} else {
		fmt.Fprintf(tw, "machine:\t%s (%s %s)\n", info.Hostname, info.Platform, info.PlatformVersion)
		fmt.Fprintf(tw, "uptime:\t%s\n", (time.Duration(info.Uptime) * time.Second).String())
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		fmt.Fprintf(tw, "memory:\tunavailable (%v)\n", err)
	} else {
		fmt.Fprintf(tw, "memory:\t%.1f%% of %d MiB used\n", vm.UsedPercent, vm.Total/(1<<20))
	}

	if avg, err := load.AvgWithContext(ctx); err != nil {
		fmt.Fprintf(tw, "load:\tunavailable (%v)\n", err)
	} else {
		fmt.Fprintf(tw, "load:\t%.2f %.2f %.2f\n", avg.Load1, avg.Load5, avg.Load15)
	}
}
