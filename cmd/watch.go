package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gnolang/recgen/emit"
	"github.com/gnolang/recgen/gen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Regenerate bindings whenever a package changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide directory paths")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := gen.New(logger, cfgFile)
		if err != nil {
			logger.Error("Failed to initialize generator", zap.Error(err))
			return err
		}
		config := engine.Config()
		emitter := emit.NewGo(config.Go)

		// bring everything up to date before waiting for changes
		if err := runGenerate(ctx, cmd.OutOrStdout(), logger, engine, args, generateOptions{}); err != nil {
			return err
		}

		w, err := gen.NewWatcher(logger, engine, config.Output, func(pkg gen.Package) error {
			_, err := gen.Write(logger, emitter, []gen.Package{pkg}, config.Output, nil)
			return err
		})
		if err != nil {
			return err
		}
		logger.Info("Watching for changes", zap.Strings("dirs", args))
		return w.Watch(ctx, cleanPaths(args))
	},
}
