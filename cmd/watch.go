package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/impcheck/impcheck/internal/config"
	"github.com/impcheck/impcheck/internal/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-run check on every .imp file change under path",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWatch(args[0]); err != nil {
			logger.Error("watch failed", zap.Error(err))
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	},
}

// runWatch adds path (recursively, if a directory) to an fsnotify
// watcher and re-invokes check on every .imp write, generalized from
// the teacher's Engine.StartWatching/watchLoop to this tool's single
// source extension and single-file engine.Run.
func runWatch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("accessing %s: %w", path, err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var imps []string
	if info.IsDir() {
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return watcher.Add(p)
			}
			if strings.HasSuffix(p, ".imp") {
				imps = append(imps, p)
			}
			return nil
		})
	} else {
		err = watcher.Add(filepath.Dir(path))
		imps = []string{path}
	}
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	runInitialBatch(cfg, imps)

	logger.Info("watching for changes", zap.String("path", path))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == 0 || !strings.HasSuffix(event.Name, ".imp") {
				continue
			}
			time.Sleep(100 * time.Millisecond) // let the writer finish; every write event still triggers its own run
			runWatchedFile(cfg, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", zap.Error(err))
		}
	}
}

// runInitialBatch checks every already-present .imp file once before
// entering the watch loop, in the style of the teacher's ProcessPath
// directory scan, narrowed to one progress bar over this tool's own
// single-file engine.Run instead of a worker-pool fan-out.
func runInitialBatch(cfg config.Config, paths []string) {
	if len(paths) == 0 {
		return
	}
	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("initial scan"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	for _, p := range paths {
		runWatchedFile(cfg, p)
		bar.Add(1)
	}
}

func runWatchedFile(cfg config.Config, path string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	diags, err := engine.Run(ctx, logger, cfg, path)
	if err != nil {
		logger.Error("analysis failed", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("re-analyzed", zap.String("path", path), zap.Int("diagnostics", len(diags)))
	for _, d := range diags {
		fmt.Println(d.Line())
	}
}
