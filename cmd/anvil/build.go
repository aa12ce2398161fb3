package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/anvil"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Code    string
	Name    string
	Retcode bool
	Target  string
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Compile an expression program and print the module",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Code, "code", "c", "", "expression to compile")
	cmd.Flags().StringVar(&opts.Name, "name", "", "module name (defaults to the file base name)")
	cmd.Flags().BoolVar(&opts.Retcode, "retcode", false, "return the result as the process exit code instead of printing it")
	cmd.Flags().StringVar(&opts.Target, "target", "", "YAML target description")

	return cmd
}

func runBuild(opts *BuildOptions, args []string, cmd *cobra.Command) error {
	src, err := readSource(opts.Code, args)
	if err != nil {
		return err
	}
	log.Debug().Int("bytes", len(src)).Msg("read source")

	compileOpts, err := opts.compileOptions(args)
	if err != nil {
		return err
	}
	m, err := anvil.Compile(src, compileOpts...)
	if err != nil {
		return err
	}
	log.Debug().Str("module", m.Name()).Int("funcs", len(m.Funcs())).Msg("module built")

	fmt.Fprint(cmd.OutOrStdout(), anvil.Dump(m))
	return nil
}

func (opts *BuildOptions) compileOptions(args []string) ([]anvil.Option, error) {
	name := opts.Name
	if name == "" && len(args) > 0 {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	var compileOpts []anvil.Option
	if name != "" {
		compileOpts = append(compileOpts, anvil.WithName(name))
	}
	if opts.Retcode {
		compileOpts = append(compileOpts, anvil.WithRetcode())
	}
	if opts.Target != "" {
		cfg, err := LoadBuildConfig(opts.Target)
		if err != nil {
			return nil, err
		}
		if cfg.Triple != "" {
			compileOpts = append(compileOpts, anvil.WithTargetTriple(cfg.Triple))
		}
		if cfg.Attributes != nil {
			compileOpts = append(compileOpts, anvil.WithFuncAttrs(cfg.AttrKeys()...))
		}
	}
	return compileOpts, nil
}
