// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package gojsonsource implements a jinto.Source that reads JSON text with
// the token decoder from github.com/goccy/go-json.
//
// The decoder reports keys and string values alike as strings, so the source
// tracks the enclosing objects and arrays to tell them apart. As with
// jinto.Stream, values following the first are delivered to the sink, which
// is expected to reject them.
package gojsonsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jinto"
	json "github.com/goccy/go-json"
	"github.com/tailscale/hujson"
)

// Source delivers the JSON text from a reader as events.
type Source struct {
	r     io.Reader
	hujs  bool
	stack []frame
}

type frame struct {
	object  bool
	wantKey bool // for objects, the next string is a key
	n       int  // members or elements seen so far
}

// New constructs a Source that reads from r.
func New(r io.Reader) *Source { return &Source{r: r} }

// AllowHuJSON sets whether the source accepts HuJSON input, JSON extended
// with comments and trailing commas. If so, the input is read in full and
// standardized before decoding, and comments are not delivered.
func (s *Source) AllowHuJSON(ok bool) { s.hujs = ok }

// Parse delivers the events for the input to sink. It implements the
// jinto.Source interface.
func (s *Source) Parse(sink jinto.Sink) error {
	r := s.r
	if s.hujs {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		std, err := hujson.Standardize(data)
		if err != nil {
			return fmt.Errorf("standardize input: %w", err)
		}
		r = bytes.NewReader(std)
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	s.stack = s.stack[:0]

	if err := sink.DocumentBegin(); err != nil {
		return err
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(s.stack) != 0 {
				return io.ErrUnexpectedEOF
			}
			return sink.DocumentEnd()
		} else if err != nil {
			return err
		}
		if err := s.send(sink, tok); err != nil {
			return err
		}
	}
}

func (s *Source) top() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

// done records the completion of a value in the enclosing frame.
func (s *Source) done() {
	if f := s.top(); f == nil {
		return
	} else if f.object {
		f.wantKey = true
	} else {
		f.n++
	}
}

func (s *Source) send(sink jinto.Sink, tok json.Token) error {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			s.stack = append(s.stack, frame{object: true, wantKey: true})
			return sink.ObjectBegin()
		case '[':
			s.stack = append(s.stack, frame{})
			return sink.ArrayBegin()
		case '}', ']':
			f := s.top()
			if f == nil || f.object != (t == '}') {
				return fmt.Errorf("unbalanced %q", rune(t))
			}
			n := f.n
			s.stack = s.stack[:len(s.stack)-1]
			s.done()
			if t == '}' {
				return sink.ObjectEnd(n)
			}
			return sink.ArrayEnd(n)
		}
		return fmt.Errorf("unknown delimiter %q", rune(t))

	case string:
		if f := s.top(); f != nil && f.object && f.wantKey {
			f.wantKey = false
			f.n++
			return sink.Key([]byte(t), len(t))
		}
		s.done()
		return sink.String([]byte(t), len(t))

	case json.Number:
		s.done()
		return jinto.SendNumber(sink, []byte(t))

	case float64:
		s.done()
		return sink.Double(t, nil)

	case bool:
		s.done()
		return sink.Bool(t)

	case nil:
		s.done()
		return sink.Null()

	default:
		return fmt.Errorf("unexpected token %T", tok)
	}
}
