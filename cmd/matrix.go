package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gnolang/recgen/emit"
	"github.com/gnolang/recgen/gen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	matrixJSONOutput bool
	outPath          string
)

var matrixCmd = &cobra.Command{
	Use:   "matrix [paths...]",
	Short: "Print the binding matrix without generating code",
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

		return runMatrix(ctx, cmd.OutOrStdout(), logger, engine, args, matrixJSONOutput, outPath)
	},
}

func init() {
	matrixCmd.Flags().BoolVar(&matrixJSONOutput, "json", false, "Output the matrix in JSON format")
	matrixCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (default: stdout)")
}

func runMatrix(ctx context.Context, stdout io.Writer, logger *zap.Logger, engine gen.Engine, paths []string, isJSON bool, output string) error {
	pkgs, err := gen.ProcessPaths(ctx, logger, engine, cleanPaths(paths), gen.Options{})
	if err != nil {
		return err
	}

	files := make([]emit.File, 0, len(pkgs))
	for _, pkg := range pkgs {
		if len(pkg.File.Bindings) > 0 {
			files = append(files, pkg.File)
		}
	}

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			logger.Error("Error creating output file", zap.Error(err))
			return err
		}
		defer f.Close()
		w = f
	}

	// one document for every package so the output stays valid JSON
	if isJSON {
		return emit.JSON{}.EmitAll(w, files)
	}

	emitter, err := emit.New(emit.FormatTable, emit.DefaultOptions())
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := emitter.Emit(w, file); err != nil {
			return err
		}
	}
	return nil
}
