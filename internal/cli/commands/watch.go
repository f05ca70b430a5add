package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounceDelay batches bursts of filesystem events (editors often write a
// file several times per save) into one re-analysis.
const debounceDelay = 500 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis whenever source files change",
		Long: `Watch the configured source directories and re-run the analysis on every
change, printing a one-line summary per run. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			defer watcher.Close()

			cfg := cmdCtx.Config.AnalyzerConfig()
			watched := 0
			for _, dir := range cfg.SourceDirs {
				root := filepath.Join(cfg.ProjectRoot, dir)
				if _, err := os.Stat(root); os.IsNotExist(err) {
					continue
				}
				err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
					if walkErr != nil || !d.IsDir() {
						return walkErr
					}
					if err := watcher.Add(path); err != nil {
						return err
					}
					watched++
					return nil
				})
				if err != nil {
					return fmt.Errorf("watching %s: %w", root, err)
				}
			}
			if watched == 0 {
				return fmt.Errorf("no source directories to watch")
			}

			r := cmdCtx.Renderer
			r.Printf("Watching %d directories; press Ctrl-C to stop\n", watched)

			run := func() {
				report, err := runAnalysis(cmd, cmdCtx)
				if err != nil {
					r.Warnf("analysis failed: %v", err)
					return
				}
				s := report.Statistics
				r.Printf("%s  files=%d modules=%d units=%d cycles=%d is_dag=%v\n",
					time.Now().Format("15:04:05"), s.TotalFiles, s.TotalModules,
					report.UnitStats.TotalUnits, len(report.Dependencies.Circular), report.IsDAG)
			}
			run()

			var timer *time.Timer
			pending := make(chan struct{}, 1)
			ctx := cmd.Context()

			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					// New directories need watching too.
					if event.Has(fsnotify.Create) {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							_ = watcher.Add(event.Name)
						}
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounceDelay, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					r.Warnf("watch error: %v", err)
				case <-pending:
					run()
				}
			}
		},
	}
	return cmd
}
