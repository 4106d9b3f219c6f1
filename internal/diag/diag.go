// Package diag renders compiler diagnostics for the terminal.
//
// A diagnostic is shown as the offending source line, a caret under the
// reported column and the message itself:
//
//	  12| x := y
//	           ^
//	file.pas:12:6: unknown variable 'y'
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/you-not-fish/psi/internal/syntax"
)

// gutterWidth is the width of the line number column, excluding "| ".
const gutterWidth = 4

var (
	colorGutter  = lipgloss.Color("#6B7280") // gray
	colorCaret   = lipgloss.Color("#EF4444") // red
	colorMessage = lipgloss.Color("#F8FAFC")
)

// Printer writes diagnostics. The zero value writes plain text.
type Printer struct {
	// Color enables ANSI styling.
	Color bool
}

type styles struct {
	gutter, caret, message, label lipgloss.Style
	plain                         bool
}

func (p *Printer) styles(w io.Writer) styles {
	if !p.Color {
		return styles{plain: true}
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return styles{
		gutter:  r.NewStyle().Foreground(colorGutter),
		caret:   r.NewStyle().Foreground(colorCaret).Bold(true),
		message: r.NewStyle().Foreground(colorMessage).Bold(true),
		label:   r.NewStyle().Foreground(colorCaret).Bold(true),
	}
}

func (st styles) render(s lipgloss.Style, text string) string {
	if st.plain {
		return text
	}
	return s.Render(text)
}

// Render writes err to w. A *syntax.Error is shown with its source line when
// the listing covers it; any other error is written as "error: <err>".
func (p *Printer) Render(w io.Writer, err error) error {
	st := p.styles(w)

	var serr *syntax.Error
	if !errors.As(err, &serr) {
		_, werr := fmt.Fprintf(w, "%s %s\n", st.render(st.label, "error:"), err)
		return werr
	}

	var b strings.Builder
	if line, ok := serr.SourceLine(); ok {
		gutter := fmt.Sprintf("%*d| ", gutterWidth, serr.Pos.Line())
		b.WriteString(st.render(st.gutter, gutter))
		b.WriteString(line)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", len(gutter)))
		b.WriteString(caretPrefix(line, int(serr.Pos.Col())))
		b.WriteString(st.render(st.caret, "^"))
		b.WriteByte('\n')
	}
	b.WriteString(st.render(st.message, serr.Error()))
	b.WriteByte('\n')

	_, werr := io.WriteString(w, b.String())
	return werr
}

// String returns the rendering of err.
func (p *Printer) String(err error) string {
	var b strings.Builder
	_ = p.Render(&b, err) // writes to a strings.Builder do not fail
	return b.String()
}

// caretPrefix returns the text that precedes column col of line with every
// character but tabs blanked, so the caret lines up under tab-indented code.
func caretPrefix(line string, col int) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if n >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
		n++
	}
	// The column may lie past the end of the line (end of file).
	for ; n < col-1; n++ {
		b.WriteByte(' ')
	}
	return b.String()
}
