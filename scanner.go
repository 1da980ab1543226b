// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/creachadair/jinto/internal/escape"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Number               // number, integer or floating-point
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
	Comment              // comment: /* ... */ or // ... <LF>
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
	Comment: "comment",
}

func (t Token) String() string {
	if int(t) >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[t]
}

// punct maps the self-delimiting punctuation characters to their tokens.
var punct = map[rune]Token{
	'{': LBrace, '}': RBrace, '[': LSquare, ']': RSquare, ',': Comma, ':': Colon,
}

// A mark is a position in the input.
type mark struct {
	off       int // byte offset, 0-based
	line, col int // line and byte column, 0-based
}

func (m mark) lineCol() LineCol { return LineCol{Line: m.line + 1, Column: m.col} }

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	r        *bufio.Reader
	comments bool // allow comments

	buf bytes.Buffer // text of the current token
	tok Token
	err error

	integral bool // the current Number has no fraction or exponent
	escaped  bool // the current String contains escape sequences

	start, cur, prev mark // token start, read position, and position before the last rune
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. If enabled, block comments (/* ... */) and line comments
// (// ...) are reported as Comment tokens. The text of a line comment
// includes its terminating newline, if there is one.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.buf.Reset()
	s.tok, s.err = Invalid, nil

	for {
		s.start = s.cur
		ch, err := s.rune()
		if err == io.EOF {
			return s.setErr(err)
		} else if err != nil {
			return s.fail(err)
		}

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			continue
		case ch == '"':
			return s.scanString()
		case ch == '-' || isDigit(ch):
			return s.scanNumber(ch)
		case ch == '/' && s.comments:
			return s.scanComment()
		case ch >= 'a' && ch <= 'z':
			return s.scanConstant(ch)
		}
		if tok, ok := punct[ch]; ok {
			s.buf.WriteRune(ch)
			s.tok = tok
			return nil
		}
		return s.failf("unexpected %q", ch)
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Unescape appends the decoded text of the current String token to buf, and
// returns the updated slice. The enclosing quotation marks are removed and
// escape sequences are replaced. It is an error if the current token is not a
// string.
func (s *Scanner) Unescape(buf []byte) ([]byte, error) {
	if s.tok != String {
		return buf, fmt.Errorf("token is %v, not %v", s.tok, String)
	}
	text := s.buf.Bytes()
	body := text[1 : len(text)-1]
	if !s.escaped {
		return append(buf, body...), nil
	}
	return escape.AppendUnquote(buf, mem.B(body))
}

// Number returns the event that reports the value of the current Number
// token, classified as for NumberEvent. It reports an error if the current
// token is not a number, or if its value is out of range for a float64.
func (s *Scanner) Number() (Event, error) {
	if s.tok != Number {
		return Event{}, fmt.Errorf("token is %v, not %v", s.tok, Number)
	}
	return classifyNumber(s.buf.Bytes(), s.integral)
}

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.start.off, End: s.cur.off} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{Span: s.Span(), First: s.start.lineCol(), Last: s.cur.lineCol()}
}

// scanString scans a quoted string. The opening quote has been consumed.
func (s *Scanner) scanString() error {
	s.buf.WriteByte('"')
	s.escaped = false
	for {
		ch, err := s.rune()
		if err != nil {
			return s.failf("unterminated string: %w", err)
		}
		s.buf.WriteRune(ch)
		switch {
		case ch == '"':
			s.tok = String
			return nil
		case ch < ' ':
			return s.failf("unescaped control %q", ch)
		case ch != '\\':
			continue
		}

		s.escaped = true
		esc, err := s.rune()
		if err != nil {
			return s.failf("incomplete escape: %w", err)
		}
		switch esc {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			s.buf.WriteRune(esc)
		case 'u':
			s.buf.WriteRune(esc)
			for range 4 {
				h, err := s.rune()
				if err != nil {
					return s.failf("invalid Unicode escape: %w", err)
				} else if !isHexDigit(h) {
					return s.failf("invalid Unicode escape: not a hex digit: %q", h)
				}
				s.buf.WriteRune(h)
			}
		default:
			return s.failf("invalid %q after escape", esc)
		}
	}
}

// scanNumber scans a number beginning with first, which is a digit or a
// minus sign.
func (s *Scanner) scanNumber(first rune) error {
	s.buf.WriteRune(first)
	s.integral = true

	lead := first
	if first == '-' {
		ch, err := s.rune()
		if err != nil {
			return s.failf("want digit, got error: %w", err)
		} else if !isDigit(ch) {
			s.unrune()
			return s.failf("got %q, want digit", ch)
		}
		s.buf.WriteRune(ch)
		lead = ch
	}

	// Integer part. A leading zero must be the only digit.
	if n, err := s.readWhile(isDigit); err != nil && err != io.EOF {
		return s.fail(err)
	} else if lead == '0' && n != 0 {
		return s.failf("extra leading zeroes")
	}

	// Fraction.
	if ok, err := s.accept("."); err != nil {
		return err
	} else if ok {
		s.integral = false
		if n, err := s.readWhile(isDigit); err != nil && err != io.EOF {
			return s.fail(err)
		} else if n == 0 {
			return s.failf("no digits after decimal point")
		}
	}

	// Exponent, with an optional sign.
	if ok, err := s.accept("eE"); err != nil {
		return err
	} else if ok {
		s.integral = false
		if _, err := s.accept("+-"); err != nil {
			return err
		}
		if n, err := s.readWhile(isDigit); err != nil && err != io.EOF {
			return s.fail(err)
		} else if n == 0 {
			return s.failf("missing exponent digits")
		}
	}
	s.tok = Number
	return nil
}

// scanComment scans a comment. The opening slash has been consumed.
func (s *Scanner) scanComment() error {
	s.buf.WriteByte('/')
	ch, err := s.rune()
	if err != nil {
		return s.failf("incomplete comment: %w", err)
	}
	switch ch {
	case '/':
		s.buf.WriteRune(ch)
		if _, err := s.readWhile(func(r rune) bool { return r != '\n' }); err == io.EOF {
			s.tok = Comment
			return nil
		} else if err != nil {
			return s.fail(err)
		}
		if _, err := s.accept("\n"); err != nil {
			return err
		}
		s.tok = Comment
		return nil

	case '*':
		s.buf.WriteRune(ch)
		var star bool // the previous rune was "*"
		for {
			ch, err := s.rune()
			if err != nil {
				return s.failf("unterminated block comment: %w", err)
			}
			s.buf.WriteRune(ch)
			if star && ch == '/' {
				s.tok = Comment
				return nil
			}
			star = ch == '*'
		}

	default:
		s.unrune()
		return s.failf("invalid %q in comment", ch)
	}
}

// scanConstant scans one of the constants true, false, or null.
func (s *Scanner) scanConstant(first rune) error {
	s.buf.WriteRune(first)
	if _, err := s.readWhile(func(r rune) bool { return r >= 'a' && r <= 'z' }); err != nil && err != io.EOF {
		return s.fail(err)
	}
	switch name := s.buf.String(); name {
	case "true":
		s.tok = True
	case "false":
		s.tok = False
	case "null":
		s.tok = Null
	default:
		return s.failf("unknown constant %q", name)
	}
	return nil
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	s.prev = s.cur
	s.cur.off += nb
	if ch == '\n' {
		s.cur.line++
		s.cur.col = 0
	} else {
		s.cur.col += nb
	}
	return ch, nil
}

// unrune pushes back the last rune read. It must be called at most once
// after each call to rune.
func (s *Scanner) unrune() {
	s.cur = s.prev
	s.r.UnreadRune()
}

// readWhile consumes and records runes matching f until EOF or a rune that
// does not match, which is pushed back. It returns the number of runes
// consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, err
		} else if !f(ch) {
			s.unrune()
			return nr, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// accept consumes and records the next rune if it is one of those in set,
// and reports whether it did so. Reaching EOF is not an error.
func (s *Scanner) accept(set string) (bool, error) {
	ch, err := s.rune()
	if err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, s.fail(err)
	}
	for _, c := range set {
		if ch == c {
			s.buf.WriteRune(ch)
			return true, nil
		}
	}
	s.unrune()
	return false, nil
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) fail(err error) error {
	return s.setErr(fmt.Errorf("%w (offset %d)", err, s.cur.off))
}

func (s *Scanner) failf(msg string, args ...any) error {
	return s.fail(fmt.Errorf(msg, args...))
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
