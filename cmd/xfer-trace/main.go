// xfer-trace is a tool for analyzing transfer coordination trace files.
//
// Usage:
//
//	xfer-trace view <file> [--component readany] [--category transfer] [--op waitAny]
//	xfer-trace filter <file> -o <output> [--session <id>] [--element <id>] [--time-start <t>]
//	xfer-trace stats <file>
//	xfer-trace export <file> --format jsonl|csv [-o <output>]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devaccess/devaccess-go/cmd/xfer-trace/commands"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xfer-trace",
		Short:         "Analyze transfer coordination trace files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newViewCmd(), newFilterCmd(), newStatsCmd(), newExportCmd())
	return root
}

func addFilterFlags(cmd *cobra.Command, opts *commands.FilterOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.SessionID, "session", "", "filter by session ID")
	flags.StringVar(&opts.Component, "component", "", "filter by component (group, readany, consistency, device)")
	flags.StringVar(&opts.Category, "category", "", "filter by category (transfer, config, error)")
	flags.StringVar(&opts.Op, "op", "", "filter by operation")
	flags.StringVar(&opts.ElementID, "element", "", "filter by element ID")
	flags.StringVar(&opts.TimeStart, "time-start", "", "events at or after this time (RFC3339)")
	flags.StringVar(&opts.TimeEnd, "time-end", "", "events before this time (RFC3339)")
}

func newViewCmd() *cobra.Command {
	var opts commands.FilterOptions
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Display events in human-readable form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunView(args[0], opts, cmd.OutOrStdout())
		},
	}
	addFilterFlags(cmd, &opts)
	return cmd
}

func newFilterCmd() *cobra.Command {
	var (
		opts   commands.FilterOptions
		output string
	)
	cmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "Write matching events to a new trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := commands.RunFilter(args[0], output, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", n, output)
			return nil
		},
	}
	addFilterFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output trace file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Print aggregate statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunStats(args[0], cmd.OutOrStdout())
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		opts   commands.FilterOptions
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export events as JSON Lines or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return commands.RunExport(args[0], format, opts, w)
		},
	}
	addFilterFlags(cmd, &opts)
	cmd.Flags().StringVar(&format, "format", "jsonl", "output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
