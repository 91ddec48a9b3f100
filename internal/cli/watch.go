package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/EstateInsights/internal/formatter"
	"github.com/yildizm/EstateInsights/internal/session"
)

var watchClear bool

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [snapshot]",
		Short: "Re-render a saved analysis whenever it changes",
		Long: `Render an analysis snapshot written by "analyze --save" and render it
again every time the file is rewritten. Press Ctrl+C to stop watching.

Examples:
  estateinsights analyze "Analyze Wakad" --save wakad.json
  estateinsights watch wakad.json
  estateinsights watch wakad.json -o markdown`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchClear, "clear", false, "clear the screen before each render")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := filepath.Clean(args[0])
	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	watcher, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching snapshot: %s\n", filename)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	out := cmd.OutOrStdout()
	if err := renderSnapshot(out, filename); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case <-signals:
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return runWatchLoop(ctx, watcher, filename, func() error {
		return renderSnapshot(out, filename)
	})
}

// renderSnapshot reads the snapshot at path and writes it in the
// selected output format
func renderSnapshot(w io.Writer, path string) error {
	saved, err := session.ReadSnapshot(path)
	if err != nil {
		return err
	}
	if watchClear {
		fmt.Fprint(w, "\033[H\033[2J")
	}

	report := &formatter.Report{
		Query:     saved.Query,
		Result:    saved.Result(GetGlobalConfig().LocaleTag()),
		AISummary: saved.AISummary,
		Generated: saved.SavedAt,
	}
	return formatAndOutput(w, report, "")
}

func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher watches the directory holding filename. Writers that
// replace the file by rename would otherwise drop the watch.
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}
	return watcher, nil
}

// runWatchLoop calls render for every change to filename until ctx ends.
// Render errors are reported and the loop keeps going, since a snapshot
// caught mid-write parses again on the next event.
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, filename string, render func() error) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isSnapshotChange(event, filename) {
				continue
			}
			if err := render(); err != nil {
				fmt.Fprintf(os.Stderr, "Error rendering snapshot: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// isSnapshotChange reports whether event rewrote filename
func isSnapshotChange(event fsnotify.Event, filename string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(filename) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	if hasParentRef(cleanPath) {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}
	return nil
}

// hasParentRef reports whether any element of path is "..". Names that
// merely contain dots, such as wakad..json, are fine.
func hasParentRef(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
