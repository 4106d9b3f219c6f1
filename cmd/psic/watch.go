package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounceDelay collapses the bursts of events a single save produces.
const debounceDelay = 200 * time.Millisecond

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE...",
		Short: "Re-check programs whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			a.check(ctx, args)
			return a.watch(ctx, args, func(name string) {
				a.check(ctx, []string{name})
			})
		},
	}
}

// watch calls onChange with the name of every file in files that is written
// or replaced, until ctx is done.
//
// The parent directories are watched rather than the files themselves:
// editors often save by renaming a new file over the old one.
func (a *app) watch(ctx context.Context, files []string, onChange func(name string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]string) // cleaned path -> name as given
	dirs := make(map[string]bool)
	for _, name := range files {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		watched[abs] = name
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	a.logger.Info("watching", "files", len(files))

	// Changes are reported once a file has been quiet for debounceDelay.
	pending := make(map[string]bool)
	timer := time.NewTimer(debounceDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("watch stopped")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, ok := watched[filepath.Clean(event.Name)]
			if !ok || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			a.logger.Debug("file changed", "file", name, "op", event.Op.String())
			pending[name] = true
			timer.Reset(debounceDelay)

		case <-timer.C:
			for _, name := range files {
				if pending[name] {
					delete(pending, name)
					onChange(name)
				}
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("watcher error", "err", err)
		}
	}
}
