// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package gjsonsource implements a jinto.Source over JSON text already held
// in memory, using the result tree from github.com/tidwall/gjson.
//
// The input must be a single valid JSON value. A gjson path may be used to
// select a value nested within the input to deliver in place of the whole.
package gjsonsource

import (
	"errors"
	"fmt"

	"github.com/creachadair/jinto"
	"github.com/tidwall/gjson"
)

// ErrInvalid is reported by Parse if the input is not valid JSON.
var ErrInvalid = errors.New("invalid JSON input")

// Source delivers a JSON value held in memory as events.
type Source struct {
	data     []byte
	path     string
	maxDepth int
}

// New constructs a Source for the JSON value in data.
func New(data []byte) *Source { return &Source{data: data, maxDepth: jinto.DefaultMaxDepth} }

// SetMaxDepth sets the maximum nesting depth of objects and arrays. If n <= 0,
// jinto.DefaultMaxDepth is used.
func (s *Source) SetMaxDepth(n int) {
	if n <= 0 {
		n = jinto.DefaultMaxDepth
	}
	s.maxDepth = n
}

// Select sets a gjson path selecting the value to deliver. If path is empty,
// the whole input is delivered.
func (s *Source) Select(path string) { s.path = path }

// Parse delivers the events for the selected value to sink. It implements
// the jinto.Source interface.
func (s *Source) Parse(sink jinto.Sink) error {
	if !gjson.ValidBytes(s.data) {
		return ErrInvalid
	}
	r := gjson.ParseBytes(s.data)
	if s.path != "" {
		r = r.Get(s.path)
		if !r.Exists() {
			return fmt.Errorf("path %q not found", s.path)
		}
	}
	if err := sink.DocumentBegin(); err != nil {
		return err
	} else if err := (walker{sink: sink, maxDepth: s.maxDepth}).walk(r, 0); err != nil {
		return err
	}
	return sink.DocumentEnd()
}

type walker struct {
	sink     jinto.Sink
	maxDepth int
}

// walk delivers r to the sink. The depth is the number of objects and arrays
// enclosing r.
func (w walker) walk(r gjson.Result, depth int) error {
	sink := w.sink
	switch r.Type {
	case gjson.Null:
		return sink.Null()
	case gjson.False, gjson.True:
		return sink.Bool(r.Type == gjson.True)
	case gjson.Number:
		return jinto.SendNumber(sink, []byte(r.Raw))
	case gjson.String:
		return sink.String([]byte(r.Str), len(r.Str))
	}

	// The remaining case is an object or array (gjson.JSON).
	if depth >= w.maxDepth {
		return fmt.Errorf("offset %d: exceeded maximum depth %d", r.Index, w.maxDepth)
	}
	var n int
	var err error
	if r.IsObject() {
		if err := sink.ObjectBegin(); err != nil {
			return err
		}
		r.ForEach(func(key, val gjson.Result) bool {
			if err = sink.Key([]byte(key.Str), len(key.Str)); err == nil {
				err = w.walk(val, depth+1)
			}
			n++
			return err == nil
		})
		if err != nil {
			return err
		}
		return sink.ObjectEnd(n)
	} else if r.IsArray() {
		if err := sink.ArrayBegin(); err != nil {
			return err
		}
		r.ForEach(func(_, val gjson.Result) bool {
			err = w.walk(val, depth+1)
			n++
			return err == nil
		})
		if err != nil {
			return err
		}
		return sink.ArrayEnd(n)
	}
	return fmt.Errorf("unexpected value %q", r.Raw)
}
