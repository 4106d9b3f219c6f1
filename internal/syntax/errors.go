package syntax

import "fmt"

// Error is a compilation diagnostic, produced by the parser and the type
// checker alike. Lines holds the source listing so the offending line can be
// shown next to the message.
type Error struct {
	Pos   Pos
	Lines []string
	Msg   string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// SourceLine returns the source line the error points at.
// ok is false if the listing does not cover that line.
func (e *Error) SourceLine() (line string, ok bool) {
	n := int(e.Pos.Line())
	if n < 1 || n > len(e.Lines) {
		return "", false
	}
	return e.Lines[n-1], true
}

// Errorf returns an *Error at pos with a formatted message.
func Errorf(pos Pos, lines []string, format string, args ...any) *Error {
	return &Error{Pos: pos, Lines: lines, Msg: fmt.Sprintf(format, args...)}
}
