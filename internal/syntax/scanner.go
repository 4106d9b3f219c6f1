package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner turns PSI source text into tokens. It implements TokenSource.
type Scanner struct {
	source

	lineList []string
	litBuf   strings.Builder
}

// NewScanner reads src completely and returns a scanner positioned before the
// first token. The only error is a failure to read src.
func NewScanner(filename string, src io.Reader) (*Scanner, error) {
	s, err := newSource(filename, src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return &Scanner{source: *s, lineList: s.lines()}, nil
}

// Filename returns the name the scanner was created with.
func (s *Scanner) Filename() string {
	return s.filename
}

// Lines returns the source split into lines, for diagnostics.
func (s *Scanner) Lines() []string {
	return s.lineList
}

// Next scans and returns the next token. Lexical problems are reported as
// ERROR tokens; scanning resumes after the offending text.
func (s *Scanner) Next() Token {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	pos := s.pos()
	switch {
	case s.ch < 0:
		return Token{Kind: _EOF, Pos: pos}

	case isLetter(s.ch):
		return s.ident(pos)

	case isDigit(s.ch):
		return s.number(pos)

	case s.ch == '"':
		return s.stringLit(pos)

	case s.ch == '\'':
		return s.charLit(pos)

	case s.ch == '{':
		if msg := s.skipBraceComment(); msg != "" {
			return Token{Kind: _Error, Text: msg, Pos: pos}
		}
		goto redo

	case s.ch == '(' && s.peek() == '*':
		if msg := s.skipParenComment(); msg != "" {
			return Token{Kind: _Error, Text: msg, Pos: pos}
		}
		goto redo

	case s.ch == '/' && s.peek() == '/':
		for s.ch != '\n' && s.ch >= 0 {
			s.nextch()
		}
		goto redo
	}

	return s.operator(pos)
}

func (s *Scanner) ident(pos Pos) Token {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	lit := s.litBuf.String()
	return Token{Kind: LookupKeyword(lit), Text: lit, Pos: pos}
}

// number scans an integer or real literal. A '.' belongs to the number only
// when a digit follows it, so "1." ends a program rather than a real.
func (s *Scanner) number(pos Pos) Token {
	s.litBuf.Reset()
	kind := _IntLit
	s.digits()

	if s.ch == '.' && isDigit(s.peek()) {
		kind = _RealLit
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		s.digits()
	}

	if lower(s.ch) == 'e' {
		kind = _RealLit
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.litBuf.WriteRune(s.ch)
			s.nextch()
		}
		if !isDigit(s.ch) {
			return Token{Kind: _Error, Text: "exponent has no digits", Pos: pos}
		}
		s.digits()
	}

	return Token{Kind: kind, Text: s.litBuf.String(), Pos: pos}
}

func (s *Scanner) digits() {
	for isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
}

// stringLit scans a double-quoted string. A doubled quote stands for one
// quote character. Text is the decoded content.
func (s *Scanner) stringLit(pos Pos) Token {
	s.nextch() // skip opening "
	s.litBuf.Reset()
	for {
		switch {
		case s.ch == '"':
			s.nextch()
			if s.ch != '"' {
				return Token{Kind: _StringLit, Text: s.litBuf.String(), Pos: pos}
			}
			s.litBuf.WriteRune('"')
			s.nextch()

		case s.ch == '\n' || s.ch < 0:
			return Token{Kind: _Error, Text: "string not terminated", Pos: pos}

		default:
			s.litBuf.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// charLit scans a single-quoted char literal holding exactly one character.
// '''' is the quote character itself.
func (s *Scanner) charLit(pos Pos) Token {
	s.nextch() // skip opening '

	var ch rune
	switch {
	case s.ch == '\'' && s.peek() == '\'':
		ch = '\''
		s.nextch()
		s.nextch()
	case s.ch == '\'':
		s.nextch()
		return Token{Kind: _Error, Text: "empty char literal", Pos: pos}
	case s.ch == '\n' || s.ch < 0:
		return Token{Kind: _Error, Text: "char literal not terminated", Pos: pos}
	default:
		ch = s.ch
		s.nextch()
	}

	if s.ch == '\'' {
		s.nextch()
		return Token{Kind: _CharLit, Text: string(ch), Pos: pos}
	}

	// Skip the rest of the malformed literal.
	for s.ch != '\'' && s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
	if s.ch == '\'' {
		s.nextch()
		return Token{Kind: _Error, Text: "char literal must hold exactly one character", Pos: pos}
	}
	return Token{Kind: _Error, Text: "char literal not terminated", Pos: pos}
}

// skipBraceComment skips a { ... } comment. It returns an error message if
// the comment is not closed.
func (s *Scanner) skipBraceComment() string {
	s.nextch() // skip {
	for s.ch != '}' {
		if s.ch < 0 {
			return "comment not terminated"
		}
		s.nextch()
	}
	s.nextch()
	return ""
}

// skipParenComment skips a (* ... *) comment.
func (s *Scanner) skipParenComment() string {
	s.nextch() // skip (
	s.nextch() // skip *
	for {
		switch {
		case s.ch < 0:
			return "comment not terminated"
		case s.ch == '*' && s.peek() == ')':
			s.nextch()
			s.nextch()
			return ""
		}
		s.nextch()
	}
}

func (s *Scanner) operator(pos Pos) Token {
	ch := s.ch
	s.nextch()

	tok := func(k Kind) Token {
		return Token{Kind: k, Text: kindNames[k], Pos: pos}
	}

	switch ch {
	case '+':
		return tok(_Add)
	case '-':
		return tok(_Sub)
	case '*':
		return tok(_Mul)
	case '/':
		return tok(_Div)
	case '=':
		return tok(_Eql)
	case '<':
		switch s.ch {
		case '=':
			s.nextch()
			return tok(_Leq)
		case '>':
			s.nextch()
			return tok(_Neq)
		}
		return tok(_Lss)
	case '>':
		if s.ch == '=' {
			s.nextch()
			return tok(_Geq)
		}
		return tok(_Gtr)
	case ':':
		if s.ch == '=' {
			s.nextch()
			return tok(_Assign)
		}
		return tok(_Colon)
	case '(':
		return tok(_Lparen)
	case ')':
		return tok(_Rparen)
	case ',':
		return tok(_Comma)
	case ';':
		return tok(_Semi)
	case '.':
		return tok(_Dot)
	}

	return Token{Kind: _Error, Text: fmt.Sprintf("unexpected character %q", ch), Pos: pos}
}
