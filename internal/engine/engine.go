// Package engine wires lexer, parser, and evaluator into the single
// entry point the CLI calls: read a file, parse it, run the configured
// evaluation strategy, and return the diagnostics it produced. It
// mirrors the shape of the teacher's lint.New / lint.ProcessFiles
// split, narrowed to spec.md §6's single-file CLI contract.
package engine

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/impcheck/impcheck/internal/absstore"
	"github.com/impcheck/impcheck/internal/config"
	"github.com/impcheck/impcheck/internal/diagnostics"
	"github.com/impcheck/impcheck/internal/eval"
	"github.com/impcheck/impcheck/internal/parser"
	"github.com/impcheck/impcheck/internal/worklist"
)

// Run reads the file at path, parses it, and evaluates it with the
// strategy cfg.Engine selects, returning every diagnostic produced.
// A parse or I/O error aborts analysis entirely, per spec.md §7; it is
// returned as the second value and diags is nil.
func Run(ctx context.Context, logger *zap.Logger, cfg config.Config, path string) ([]diagnostics.Diagnostic, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("path", path))

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	seq, err := parser.Parse(string(src))
	if err != nil {
		logger.Debug("parse failed", zap.Error(err))
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	logger.Debug("parsed program", zap.Int("statements", len(seq.Stmts)))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	ev := &eval.Evaluator{
		WideningThreshold:   cfg.WideningThreshold,
		NarrowingIterations: cfg.NarrowingIterations,
		DisjunctionBound:    cfg.DisjunctionBound,
		Logger:              logger,
	}

	var diags []diagnostics.Diagnostic
	switch cfg.Engine {
	case config.EngineWorklist:
		g := worklist.FromSequence(seq)
		_, diags = worklist.New(ev).Run(g, absstore.New())
	default:
		_, diags = ev.Run(seq)
	}

	return diags, nil
}
