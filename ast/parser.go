// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jinto"
)

// Parse parses and returns the JSON values from r. In case of error, any
// complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	st := jinto.NewStream(r)
	st.AllowComments(true)
	var vs []Value
	for {
		h := new(parseHandler)
		if err := st.ParseOne(h); err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		v, err := h.result()
		if err != nil {
			return vs, err
		}
		vs = append(vs, v)
	}
}

// ParseSingle parses and returns a single JSON value from r. It is an error
// if r contains anything other than a single value.
func ParseSingle(r io.Reader) (Value, error) {
	st := jinto.NewStream(r)
	st.AllowComments(true)
	return Build(st)
}

// Build constructs a syntax tree from the single document delivered by src.
func Build(src jinto.Source) (Value, error) {
	h := new(parseHandler)
	if err := src.Parse(h); err != nil {
		return nil, err
	}
	return h.result()
}

var (
	errExtra      = errors.New("extra data after value")
	errUnbalanced = errors.New("unbalanced end of object or array")
)

// A parseHandler implements the jinto.Sink interface to construct abstract
// syntax trees for JSON values.
type parseHandler struct {
	stk  []Value  // open *Object and *Array values, or the completed root
	keys []string // pending keys, one per open object
	text []byte   // partial text of the current key, string, or number
	done bool     // a complete value is on the stack
}

func (h *parseHandler) result() (Value, error) {
	if !h.done {
		return nil, jinto.ErrIncomplete
	}
	return h.stk[0], nil
}

// reduceValue attaches a completed value v to the container atop the stack,
// or records it as the result if there is none.
func (h *parseHandler) reduceValue(v Value) error {
	if len(h.stk) == 0 {
		if h.done {
			return errExtra
		}
		h.stk = append(h.stk, v)
		h.done = true
		return nil
	}
	switch top := h.stk[len(h.stk)-1].(type) {
	case *Object:
		key := h.keys[len(h.keys)-1]
		*top = append(*top, Field(key, v))
	case *Array:
		*top = append(*top, v)
	default:
		return errExtra
	}
	return nil
}

// reduce pops the container atop the stack and attaches it to its parent.
func (h *parseHandler) reduce() error {
	if h.done || len(h.stk) == 0 {
		return errUnbalanced
	}
	top := h.stk[len(h.stk)-1]
	h.stk = h.stk[:len(h.stk)-1]
	var v Value
	switch t := top.(type) {
	case *Object:
		h.keys = h.keys[:len(h.keys)-1]
		v = *t
	case *Array:
		v = *t
	}
	return h.reduceValue(v)
}

func (h *parseHandler) push(v Value) error {
	if h.done {
		return errExtra
	}
	h.stk = append(h.stk, v)
	return nil
}

// take returns the accumulated text with the final chunk appended, and
// resets the buffer.
func (h *parseHandler) take(last []byte) string {
	s := string(append(h.text, last...))
	h.text = h.text[:0]
	return s
}

func (h *parseHandler) DocumentBegin() error { return nil }
func (h *parseHandler) DocumentEnd() error   { return nil }

func (h *parseHandler) ObjectBegin() error {
	if err := h.push(&Object{}); err != nil {
		return err
	}
	h.keys = append(h.keys, "")
	return nil
}

func (h *parseHandler) ObjectEnd(int) error { return h.reduce() }

func (h *parseHandler) ArrayBegin() error { return h.push(&Array{}) }

func (h *parseHandler) ArrayEnd(int) error { return h.reduce() }

func (h *parseHandler) KeyPart(text []byte, _ int) error {
	h.text = append(h.text, text...)
	return nil
}

func (h *parseHandler) Key(text []byte, _ int) error {
	if len(h.keys) == 0 {
		return fmt.Errorf("key %q outside an object", text)
	}
	h.keys[len(h.keys)-1] = h.take(text)
	return nil
}

func (h *parseHandler) StringPart(text []byte, _ int) error {
	h.text = append(h.text, text...)
	return nil
}

func (h *parseHandler) String(text []byte, _ int) error {
	return h.reduceValue(String(h.take(text)))
}

func (h *parseHandler) NumberPart(raw []byte) error {
	h.text = append(h.text, raw...)
	return nil
}

func (h *parseHandler) Int64(v int64, raw []byte) error {
	return h.reduceValue(newNumber(h.take(raw), jinto.Event{Kind: jinto.EvInt64, Int: v}))
}

func (h *parseHandler) Uint64(v uint64, raw []byte) error {
	return h.reduceValue(newNumber(h.take(raw), jinto.Event{Kind: jinto.EvUint64, Uint: v}))
}

func (h *parseHandler) Double(v float64, raw []byte) error {
	return h.reduceValue(newNumber(h.take(raw), jinto.Event{Kind: jinto.EvDouble, Float: v}))
}

func (h *parseHandler) Bool(v bool) error { return h.reduceValue(Bool(v)) }
func (h *parseHandler) Null() error       { return h.reduceValue(Null) }

func (h *parseHandler) CommentPart([]byte) error { return nil }
func (h *parseHandler) Comment([]byte) error     { return nil }
