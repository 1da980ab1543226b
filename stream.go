// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Stream is a stream parser that consumes input and delivers events to a
// Sink corresponding with the structure of the input. A *Stream is a Source.
type Stream struct {
	s        *Scanner
	tcomma   bool // allow trailing commas in objects and arrays
	maxDepth int  // maximum nesting depth
	chunk    int  // if positive, maximum text length per event
	depth    int  // current nesting depth
	sbuf     []byte
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return NewStreamWithScanner(NewScanner(r)) }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner(s *Scanner) *Stream {
	return &Stream{s: s, maxDepth: DefaultMaxDepth}
}

// AllowComments configures the scanner associated with s to report (true) or
// reject (false) comment tokens.
func (s *Stream) AllowComments(ok bool) { s.s.AllowComments(ok) }

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// trailing commas in objects and arrays.
func (s *Stream) AllowTrailingCommas(ok bool) { s.tcomma = ok }

// SetMaxDepth sets the maximum nesting depth of objects and arrays. Input
// that nests more deeply is reported as a syntax error. If n <= 0, the limit
// is DefaultMaxDepth.
func (s *Stream) SetMaxDepth(n int) {
	if n <= 0 {
		n = DefaultMaxDepth
	}
	s.maxDepth = n
}

// SetChunkSize configures the parser to deliver the text of strings, keys,
// numbers, and comments longer than n bytes in pieces of at most n bytes,
// using the Part methods of the Sink. If n <= 0, text is never split.
func (s *Stream) SetChunkSize(n int) { s.chunk = max(n, 0) }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses a single document from the input stream and delivers its
// events to h, bracketed by DocumentBegin and DocumentEnd.  If any further
// values follow the first, their events are also delivered before
// DocumentEnd, so that h can reject them.  In case of a syntax error, the
// returned error has type [*SyntaxError]; an error reported by h is returned
// unmodified.
func (s *Stream) Parse(h Sink) (err error) {
	defer s.recoverParseError(&err)

	s.checkError(h.DocumentBegin())
	for {
		err := s.nextToken(h)
		if err == io.EOF {
			s.checkError(h.DocumentEnd())
			return nil
		} else if err != nil {
			s.syntaxError(err, "%v", err)
		}

		s.parseElement(h)
	}
}

// ParseOne parses a single value from the input stream and delivers its
// events to h, bracketed by DocumentBegin and DocumentEnd. If no further
// value is available from the input, ParseOne returns io.EOF. In case of a
// syntax error, the returned error has type [*SyntaxError].
func (s *Stream) ParseOne(h Sink) (err error) {
	defer s.recoverParseError(&err)

	if err := s.nextToken(h); err == io.EOF {
		return err
	} else if err != nil {
		s.syntaxError(err, "%v", err)
	}
	s.checkError(h.DocumentBegin())
	s.parseElement(h)
	s.checkError(h.DocumentEnd())
	return nil
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream) parseElement(h Sink) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.enter()
		s.checkError(h.ObjectBegin())
		n := s.parseMembers(h)
		s.require(h, RBrace)
		s.depth--
		s.checkError(h.ObjectEnd(n))
	case LSquare:
		s.enter()
		s.checkError(h.ArrayBegin())
		n := s.parseElements(h)
		s.require(h, RSquare)
		s.depth--
		s.checkError(h.ArrayEnd(n))
	case String:
		s.sendText(s.unescape(), h.StringPart, h.String)
	case Number:
		s.sendNumber(h)
	case True, False:
		s.checkError(h.Bool(tok == True))
	case Null:
		s.checkError(h.Null())
	case RBrace, RSquare, Comma, Colon:
		s.syntaxError(nil, "unexpected %v", tok)
	default:
		s.syntaxError(nil, "unknown token %v", tok)
	}
}

// parseMembers consumes zero of more key:value object members, and returns
// the number of members consumed.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Sink) int {
	tok := s.advance(h, RBrace, String)
	if tok == RBrace {
		return 0 // end of object
	}
	for n := 1; ; n++ {
		// Parse a single member: "key": value
		s.sendText(s.unescape(), h.KeyPart, h.Key)
		s.advance(h, Colon)
		s.advance(h)
		s.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		tok := s.advance(h, RBrace, Comma)
		if tok == RBrace {
			return n // end of object
		} else if s.tcomma {
			// If trailing commas are allowed and the next token is a close
			// bracket, consider this a valid end of the object. Otherwise, it
			// must be a key for a subsequent element.
			next := s.advance(h, String, RBrace)
			if next == RBrace {
				return n // end of object with trailing comma
			}
		} else {
			s.advance(h, String) // advance to next key
		}
	}
}

// parseElements consumes zero or more comma-separated array values, and
// returns the number of values consumed.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Sink) int {
	if tok := s.advance(h); tok == RSquare {
		return 0 // end of array
	}
	s.parseElement(h)
	for n := 1; ; n++ {
		tok := s.advance(h, RSquare, Comma)
		if tok == RSquare {
			return n // end of array
		}

		// If trailing commas are allowed and the next token is a close bracket,
		// consider this a valid end of the array; otherwise it will fail on the
		// next element
		if next := s.advance(h); s.tcomma && next == RSquare {
			return n // end of array with trailing comma
		}
		s.parseElement(h)
	}
}

func (s *Stream) enter() {
	s.depth++
	if s.depth > s.maxDepth {
		s.syntaxError(nil, "exceeded maximum nesting depth %d", s.maxDepth)
	}
}

// unescape decodes the current string token into the shared text buffer.
func (s *Stream) unescape() []byte {
	buf, err := s.s.Unescape(s.sbuf[:0])
	if err != nil {
		s.syntaxError(err, "invalid string: %v", err)
	}
	s.sbuf = buf
	return buf
}

// sendText delivers text to h, as zero or more calls to part followed by one
// call to last.
func (s *Stream) sendText(text []byte, part, last func([]byte, int) error) {
	var total int
	for s.chunk > 0 && len(text) > s.chunk {
		total += s.chunk
		s.checkError(part(text[:s.chunk], total))
		text = text[s.chunk:]
	}
	s.checkError(last(text, total+len(text)))
}

func (s *Stream) sendNumber(h Sink) {
	raw := s.s.Text()
	ev, err := s.s.Number()
	if err != nil {
		s.syntaxError(err, "%v", err)
	}
	for s.chunk > 0 && len(raw) > s.chunk {
		s.checkError(h.NumberPart(raw[:s.chunk]))
		raw = raw[s.chunk:]
	}
	ev.Text = raw
	s.checkError(ev.Send(h))
}

func (s *Stream) sendComment(h Sink) {
	text := s.s.Text()
	for s.chunk > 0 && len(text) > s.chunk {
		s.checkError(h.CommentPart(text[:s.chunk]))
		text = text[s.chunk:]
	}
	s.checkError(h.Comment(text))
}

func (s *Stream) nextToken(h Sink) error {
	for s.s.Next() == nil {
		// Comments are delivered to the sink, but are otherwise invisible to
		// the rest of the parser.
		if s.s.Token() == Comment {
			s.sendComment(h)
			continue
		}
		return nil
	}
	return cmp.Or(s.s.Err(), io.EOF)
}

func (s *Stream) advance(h Sink, tokens ...Token) Token {
	if err := s.nextToken(h); err != nil {
		s.syntaxError(err, "%v", tokLabel(tokens, err))
	}
	tok := s.s.Token()
	if len(tokens) != 0 && !tokOneOf(tok, tokens) {
		s.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok
}

func (s *Stream) require(h Sink, token Token) {
	if tok := s.s.Token(); tok != token {
		s.syntaxError(nil, "expected %v, got %v", token, tok)
	}
}

func (s *Stream) syntaxError(err error, msg string, args ...any) {
	panic(&SyntaxError{
		Location: s.s.Location().First,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		if _, ok := got.(error); ok {
			return fmt.Sprintf("expected more input, got error: %v", got)
		}
		return fmt.Sprint(got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	if _, ok := got.(error); ok {
		return fmt.Sprintf("expected %s, got error: %v", exp, got)
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// tokOneOf reports whether cur is an element of tokens.
func tokOneOf(cur Token, tokens []Token) bool {
	return slices.Contains(tokens, cur)
}

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
