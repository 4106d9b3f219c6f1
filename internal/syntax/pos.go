package syntax

import "fmt"

// Pos is a location in a PSI source file.
// The zero value is an invalid position.
type Pos struct {
	filename string
	line     uint32 // 1-based
	col      uint32 // 1-based character offset in line
}

// NewPos returns the position line:col in filename.
func NewPos(filename string, line, col uint32) Pos {
	return Pos{filename: filename, line: line, col: col}
}

// String formats p as "file:line:col", or "line:col" without a file name.
func (p Pos) String() string {
	if p.filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether p refers to an actual line.
func (p Pos) IsValid() bool {
	return p.line > 0
}

func (p Pos) Line() uint32 { return p.line }

func (p Pos) Col() uint32 { return p.col }

func (p Pos) Filename() string { return p.filename }
