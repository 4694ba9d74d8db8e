package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/gnolang/recgen/emit"
	"github.com/gnolang/recgen/gen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRun   bool
	progress bool
	workers  int
)

var generateCmd = &cobra.Command{
	Use:   "generate [paths...]",
	Short: "Generate operator bindings for every annotated package",
	Long: `Finds type declarations annotated with //recgen:atom or //recgen:component
and writes their operator bindings to <package>_recgen.go in the same directory.
Example) recgen generate ./...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		engine, err := gen.New(logger, cfgFile)
		if err != nil {
			logger.Error("Failed to initialize generator", zap.Error(err))
			return err
		}

		opts := generateOptions{DryRun: dryRun, Progress: progress, Workers: workers}
		return runGenerate(ctx, cmd.OutOrStdout(), logger, engine, args, opts)
	},
}

func init() {
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print generated code instead of writing files")
	generateCmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar")
	generateCmd.Flags().IntVar(&workers, "workers", 0, "Packages generated in parallel (default: number of CPUs)")
}

type generateOptions struct {
	DryRun   bool
	Progress bool
	Workers  int
}

func runGenerate(ctx context.Context, stdout io.Writer, logger *zap.Logger, engine *gen.Generator, paths []string, opts generateOptions) error {
	pkgs, err := gen.ProcessPaths(ctx, logger, engine, cleanPaths(paths), gen.Options{Progress: opts.Progress, Workers: opts.Workers})
	if err != nil {
		return err
	}

	config := engine.Config()
	emitter := emit.NewGo(config.Go)

	var out io.Writer
	if opts.DryRun {
		out = stdout
	}
	written, err := gen.Write(logger, emitter, pkgs, config.Output, out)
	if err != nil {
		logger.Error("Error writing generated files", zap.Error(err))
		return err
	}
	if !opts.DryRun && len(written) == 0 {
		logger.Warn("No annotated types found", zap.Strings("paths", paths))
	}
	return nil
}
