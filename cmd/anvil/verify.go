package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/anvil"
	"github.com/deepnoodle-ai/anvil/verify"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Code    string
	Retcode bool
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Compile an expression program and report every verifier finding",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Code, "code", "c", "", "expression to verify")
	cmd.Flags().BoolVar(&opts.Retcode, "retcode", false, "compile in retcode mode")

	return cmd
}

func runVerify(opts *VerifyOptions, args []string, cmd *cobra.Command) error {
	src, err := readSource(opts.Code, args)
	if err != nil {
		return err
	}

	compileOpts := []anvil.Option{anvil.WithoutVerify()}
	if opts.Retcode {
		compileOpts = append(compileOpts, anvil.WithRetcode())
	}
	m, err := anvil.Compile(src, compileOpts...)
	if err != nil {
		return err
	}

	result := verify.Module(m)
	log.Debug().Int("errors", result.Len()).Msg("verification complete")

	out := cmd.OutOrStdout()
	if result.OK() {
		fmt.Fprintln(out, green("ok"))
		return nil
	}
	for _, e := range result.Errors() {
		fmt.Fprintln(out, red(e.Error()))
	}
	return fmt.Errorf("verification failed with %d error(s)", result.Len())
}
