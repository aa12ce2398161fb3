package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// VersionOptions holds flags for the version command.
type VersionOptions struct {
	*RootOptions
	Output string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VersionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format (json|text)")

	return cmd
}

func runVersion(opts *VersionOptions, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	if strings.ToLower(opts.Output) == "json" {
		info, err := json.MarshalIndent(map[string]any{
			"version": version,
			"commit":  commit,
			"date":    date,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(info))
		return nil
	}
	fmt.Fprintln(out, version)
	return nil
}
