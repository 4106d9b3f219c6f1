package syntax

import (
	"io"
	"strings"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// The whole input is read into memory up front.
type source struct {
	buf      []byte
	filename string

	line uint32 // line of ch (1-based)
	col  uint32 // column of ch (1-based, in characters)

	ch   rune // current character, -1 at EOF
	offs int  // byte offset of the character after ch
}

func newSource(filename string, src io.Reader) (*source, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	s := &source{
		buf:      buf,
		filename: filename,
		line:     1,
		col:      0,  // incremented to 1 by the first nextch
		ch:       -1, // no character yet
	}
	s.nextch()
	return s, nil
}

// nextch advances to the next character.
// (line, col) always describe the position of s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.ch = r
	s.offs += width
}

// peek returns the character following s.ch without consuming it.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// lines splits the source into lines without their terminators.
func (s *source) lines() []string {
	text := strings.ReplaceAll(string(s.buf), "\r\n", "\n")
	return strings.Split(text, "\n")
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// lower returns the lowercase version of an ASCII letter.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
