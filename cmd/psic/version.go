package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information
const Version = "0.1.0-dev"

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No configuration needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "psic version %s\n", Version)
			fmt.Fprintf(a.stdout, "go version %s\n", runtime.Version())
		},
	}
}
