// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"

	"github.com/creachadair/jinto"
)

// Emit delivers the events describing v to s, stopping at and returning the
// first error reported. It does not send DocumentBegin or DocumentEnd; use
// Source for a complete document.
func Emit(v Value, s jinto.Sink) error {
	switch t := v.(type) {
	case Object:
		if err := s.ObjectBegin(); err != nil {
			return err
		}
		for _, m := range t {
			if err := s.Key([]byte(m.Key), len(m.Key)); err != nil {
				return err
			} else if err := Emit(m.Value, s); err != nil {
				return err
			}
		}
		return s.ObjectEnd(len(t))
	case Array:
		if err := s.ArrayBegin(); err != nil {
			return err
		}
		for _, elt := range t {
			if err := Emit(elt, s); err != nil {
				return err
			}
		}
		return s.ArrayEnd(len(t))
	case String:
		return s.String([]byte(t), len(t))
	case Number:
		ev := t.ev
		ev.Text = []byte(t.text)
		return ev.Send(s)
	case Bool:
		return s.Bool(bool(t))
	case nullValue:
		return s.Null()
	default:
		return fmt.Errorf("unknown value type %T", v)
	}
}

// Source returns a jinto.Source that delivers v as a single document.
func Source(v Value) jinto.Source { return treeSource{v} }

type treeSource struct{ v Value }

func (t treeSource) Parse(s jinto.Sink) error {
	if err := s.DocumentBegin(); err != nil {
		return err
	} else if err := Emit(t.v, s); err != nil {
		return err
	}
	return s.DocumentEnd()
}

// Decode decodes the tree rooted at v into the value pointed to by dst.
func Decode(v Value, dst any, opts *jinto.Options) error {
	return jinto.DecodeFrom(Source(v), dst, opts)
}
