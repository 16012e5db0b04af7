package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/impcheck/impcheck/internal/lexer"
	"github.com/impcheck/impcheck/internal/parser"
)

var parseTokens bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Dump the token stream or the parsed AST of a source file (debugging aid)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runParse(args[0], parseTokens))
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseTokens, "tokens", false, "print the token stream instead of the AST")
}

func runParse(path string, tokens bool) int {
	src, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read file", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if tokens {
		toks, err := lexer.All(string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "lex error: %v\n", err)
			return 1
		}
		for _, tok := range toks {
			fmt.Printf("%s\t%s\t%q\n", tok.Pos, tok.Kind, tok.Text)
		}
		return 0
	}

	seq, err := parser.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		return 1
	}
	for _, stmt := range seq.Stmts {
		fmt.Printf("%T @ %s\n", stmt, stmt.Position())
	}
	return 0
}
