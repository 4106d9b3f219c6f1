package main

import (
	"github.com/spf13/cobra"

	"github.com/you-not-fish/psi/internal/compile"
	"github.com/you-not-fish/psi/internal/syntax"
)

func (a *app) printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE",
		Short: "Check a program and print it as normalized source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := compile.File(a.context(cmd), args[0])
			if err != nil {
				return a.report(err)
			}
			return syntax.Fprint(a.stdout, prog)
		},
	}
}
