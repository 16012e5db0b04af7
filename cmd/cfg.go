package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/impcheck/impcheck/internal/parser"
	"github.com/impcheck/impcheck/internal/worklist"
)

var cfgOutput string

// cfgDumpCmd prints the control-flow graph internal/worklist builds
// for a program, generalized from the teacher's "cfg" command (which
// rendered go/ast function CFGs) to this tool's own AST and CFG.
var cfgDumpCmd = &cobra.Command{
	Use:   "cfg <file>",
	Short: "Dump the control-flow graph internal/worklist builds for a file, as GraphViz dot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCFGDump(args[0], cfgOutput))
	},
}

func init() {
	cfgDumpCmd.Flags().StringVarP(&cfgOutput, "output", "o", "", "write the dot graph to this path instead of stdout")
}

func runCFGDump(path string, output string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read file", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	seq, err := parser.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		return 1
	}

	g := worklist.FromSequence(seq)

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			logger.Error("failed to create output file", zap.Error(err))
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer f.Close()
		g.PrintDot(f)
		fmt.Printf("graphviz file written: %s\n", output)
		return 0
	}

	g.PrintDot(w)
	return 0
}
