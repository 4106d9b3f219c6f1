package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/psi/internal/compile"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse and type-check programs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.check(a.context(cmd), args) > 0 {
				return errFailed
			}
			return nil
		},
	}
}

// check compiles files, renders every diagnostic and returns the number of
// files that failed.
func (a *app) check(ctx context.Context, files []string) int {
	start := time.Now()
	failed := 0
	for _, r := range compile.Files(ctx, files, a.cfg.Jobs()) {
		if r.Err != nil {
			failed++
			a.printer.Render(a.stderr, r.Err)
			continue
		}
		fmt.Fprintf(a.stdout, "%s: ok\n", r.Filename)
	}
	a.logger.Info("check finished", "files", len(files), "failed", failed, "duration", time.Since(start))
	return failed
}
