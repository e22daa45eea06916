package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/spf13/cobra"
)

// defaultDebounce groups bursts of file events (editors saving, git
// checkouts) into one rescan.
const defaultDebounce = 200 * time.Millisecond

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	ScanOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Rescan Go sources when they change",
		Long: `Scan once, then watch the given paths and scan again whenever a .go file
is written, created, removed or renamed. Stop with Ctrl-C.`,
		Example: `  # Watch the current module
  leapcheck watch

  # Watch with go1.22 rules and a longer debounce
  leapcheck watch --target-version 1.22 --debounce 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd, args, opts)
		},
	}

	addScanFlags(cmd, &opts.ScanOptions)
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", defaultDebounce, "Wait this long after the last change before rescanning")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, paths []string, opts *WatchOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	if len(paths) == 0 {
		paths = []string{"."}
	}

	rescan := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			r.Println(r.Styles().Muted.Render(fmt.Sprintf("Change detected: %s", strings.Join(changed, ", "))))
		}
		report, err := executeScan(ctx, cmdCtx, paths, &opts.ScanOptions)
		if report == nil {
			return err
		}
		filterBySeverity(report, opts.Severity)
		if rerr := renderReport(r, report); rerr != nil {
			return rerr
		}
		return err
	}

	w, err := NewWatcher(paths, opts.Debounce, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := rescan(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
		r.Error(err.Error())
	}
	r.Println(r.Styles().Muted.Render("Watching for changes. Press Ctrl-C to stop."))

	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		return rescan(ctx, changed)
	})
}

// Watcher reports changes to Go files under a set of roots.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches every directory under roots that a scan would visit.
// Directories created later are added as they appear.
func NewWatcher(roots []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &Watcher{fw: fw, debounce: debounce, logger: logger}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
		if !info.IsDir() {
			root = filepath.Dir(root)
		}
		if err := w.addTree(root); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && syntax.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.logger.Debug("watching directory", "dir", path)
		return w.fw.Add(path)
	})
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// Run calls onChange with the sorted set of changed Go files once events
// settle for the debounce interval. Callbacks run on the calling goroutine,
// one at a time. An error from onChange is logged and watching continues.
// Run returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, []string) error) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !syntax.SkipDir(info.Name()) {
						if err := w.addTree(event.Name); err != nil {
							w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
						}
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".go" {
				continue
			}

			pending[event.Name] = true
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			slices.Sort(changed)
			clear(pending)

			w.logger.Info("rescanning", "changed", len(changed))
			if err := onChange(ctx, changed); err != nil {
				w.logger.Warn("rescan failed", "error", err)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}
