package cmd

import (
	"fmt"
	"os"

	"github.com/gnolang/recgen/gen"
	"github.com/spf13/cobra"
)

var forceInit bool

// initCmd: recgen init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfigurationFile(cfgFile, forceInit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) error {
	if configurationPath == "" {
		configurationPath = gen.DefaultConfigPath
	}
	if _, err := os.Stat(configurationPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configurationPath)
	}
	return gen.WriteConfig(configurationPath, gen.DefaultConfig())
}
