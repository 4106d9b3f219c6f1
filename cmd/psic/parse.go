package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/you-not-fish/psi/internal/compile"
	"github.com/you-not-fish/psi/internal/syntax"
)

// spewConfig dumps the raw node structs. Pointer addresses would make the
// output differ between runs.
var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

func (a *app) parseCmd() *cobra.Command {
	var (
		typed  bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Dump the syntax tree of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml", "spew":
			default:
				return fmt.Errorf("unknown format %q (want text, json, yaml or spew)", format)
			}

			load := compile.ParseFile
			if typed {
				load = compile.File
			}
			prog, err := load(a.context(cmd), args[0])
			if err != nil {
				return a.report(err)
			}

			switch format {
			case "json":
				return syntax.FprintJSON(a.stdout, prog)
			case "yaml":
				return syntax.FprintYAML(a.stdout, prog)
			case "spew":
				spewConfig.Fdump(a.stdout, prog)
			default:
				syntax.Dump(a.stdout, prog)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&typed, "typed", false, "type-check before dumping")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml or spew")
	return cmd
}
