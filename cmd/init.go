package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/impcheck/impcheck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default impcheck configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = ".impcheck.yaml"
		}
		if err := config.Write(path, config.Default()); err != nil {
			logger.Error("failed to write configuration file", zap.Error(err))
			return
		}
		fmt.Printf("configuration file written: %s\n", path)
	},
}
