package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/impcheck/impcheck/internal/config"
	"github.com/impcheck/impcheck/internal/diagnostics"
	"github.com/impcheck/impcheck/internal/engine"
)

var (
	checkJSON    bool
	checkNoColor bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Analyze a single Ivan source file and print its diagnostics",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCheck(args[0], checkJSON, checkNoColor))
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit diagnostics as a JSON array")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable colorized output")
}

// runCheck implements spec.md §6's CLI contract: exit 0 if every
// assertion is OK, 1 on parse or I/O failure, 2 if any assertion is
// FAIL or UNKNOWN.
func runCheck(path string, jsonOut bool, noColor bool) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Error("failed to load configuration", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		return 1
	}

	diags, err := engine.Run(ctx, logger, cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	renderer := pickRenderer(jsonOut, noColor, cfg)
	src, _ := os.ReadFile(path)
	if err := renderer.Render(os.Stdout, path, string(src), diags); err != nil {
		fmt.Fprintf(os.Stderr, "error writing diagnostics: %v\n", err)
		return 1
	}

	return diagnostics.WorstExitCode(diags)
}

func pickRenderer(jsonOut bool, noColor bool, cfg config.Config) diagnostics.Renderer {
	if jsonOut {
		return diagnostics.JSONRenderer{}
	}
	switch cfg.Color {
	case config.ColorNever:
		return diagnostics.PlainRenderer{}
	case config.ColorAlways:
		return diagnostics.ColorRenderer{NoColor: false}
	default:
		return diagnostics.ColorRenderer{NoColor: noColor}
	}
}
