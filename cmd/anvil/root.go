package main

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	Debug   bool
	NoColor bool
}

// NewRootCommand creates the root command for the anvil CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "anvil",
		Short:         "Build and verify SSA modules for expression programs",
		Long: `Anvil compiles integer expression programs into SSA-form modules,
verifies them and prints the result as readable text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if opts.Debug {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:     cmd.ErrOrStderr(),
				NoColor: opts.NoColor,
			})
			if opts.NoColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}
