package main

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/you-not-fish/psi/internal/compile"
	"github.com/you-not-fish/psi/internal/syntax"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			toks, _, scanErr := compile.Tokens(args[0], f)
			if toks != nil {
				writeTokens(a, toks)
			}
			if scanErr != nil {
				return a.report(scanErr)
			}
			return nil
		},
	}
}

func writeTokens(a *app, toks []syntax.Token) {
	table := tablewriter.NewWriter(a.stdout)
	table.SetHeader([]string{"Position", "Token", "Text"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetHeaderLine(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	for _, tok := range toks {
		table.Append([]string{tok.Pos.String(), tok.Kind.String(), formatLiteral(tok.Text)})
	}
	table.Render()
}

// formatLiteral formats token text for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return `""`
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}
