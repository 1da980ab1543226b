// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"bytes"
	"encoding"
	"math"
	"reflect"
)

// Scalar handlers consume a single value event, optionally preceded by
// partial chunks, and then signal their parent. Every scalar answers an array
// close by signaling scope-complete, since an idle scalar only sees one when
// the array enclosing it has ended.

type intHandler struct {
	parent   int
	slot     reflect.Value
	unsigned bool
	frac     bool // a chunk of the current number has a fraction or exponent
}

func (h *intHandler) handle(b *Binder, ev *Event) error {
	switch ev.Kind {
	case EvNumberPart:
		h.frac = h.frac || isFractional(ev.Text)
		return nil
	case EvDouble:
		// An integer literal reported as a double is out of range for every
		// integer type. Without raw text, judge by the value.
		frac := h.frac || isFractional(ev.Text)
		if len(ev.Text) == 0 && !h.frac {
			frac = ev.Float != math.Trunc(ev.Float)
		}
		h.frac = false
		if frac {
			return fail(NotInteger, ev)
		}
		return fail(NotExact, ev)
	case EvInt64:
		if h.unsigned {
			if ev.Int < 0 || h.slot.OverflowUint(uint64(ev.Int)) {
				return fail(NotExact, ev)
			}
			h.slot.SetUint(uint64(ev.Int))
		} else {
			if h.slot.OverflowInt(ev.Int) {
				return fail(NotExact, ev)
			}
			h.slot.SetInt(ev.Int)
		}
		return b.signalValue(h.parent)
	case EvUint64:
		if h.unsigned {
			if h.slot.OverflowUint(ev.Uint) {
				return fail(NotExact, ev)
			}
			h.slot.SetUint(ev.Uint)
		} else {
			if ev.Uint > math.MaxInt64 || h.slot.OverflowInt(int64(ev.Uint)) {
				return fail(NotExact, ev)
			}
			h.slot.SetInt(int64(ev.Uint))
		}
		return b.signalValue(h.parent)
	case EvArrayEnd:
		return b.signalEnd(h.parent)
	}
	return fail(NotInteger, ev)
}

func isFractional(raw []byte) bool { return bytes.ContainsAny(raw, ".eE") }

type floatHandler struct {
	parent int
	slot   reflect.Value
}

func (h *floatHandler) handle(b *Binder, ev *Event) error {
	switch ev.Kind {
	case EvNumberPart:
		return nil
	case EvInt64:
		h.slot.SetFloat(float64(ev.Int))
	case EvUint64:
		h.slot.SetFloat(float64(ev.Uint))
	case EvDouble:
		h.slot.SetFloat(ev.Float)
	case EvArrayEnd:
		return b.signalEnd(h.parent)
	default:
		return fail(NotDouble, ev)
	}
	return b.signalValue(h.parent)
}

// textBuffer accumulates the chunks of a string value.
type textBuffer struct{ buf []byte }

// add appends the chunk carried by ev, and reports whether ev is the final
// chunk of the string. It reports ok == false if ev is not a string event.
func (t *textBuffer) add(ev *Event) (done, ok bool) {
	switch ev.Kind {
	case EvStringPart:
		t.buf = append(t.buf, ev.Text...)
		return false, true
	case EvString:
		t.buf = append(t.buf, ev.Text...)
		return true, true
	}
	return false, false
}

// take returns the accumulated text and resets the buffer.
func (t *textBuffer) take() string {
	s := string(t.buf)
	t.buf = t.buf[:0]
	return s
}

type stringHandler struct {
	parent int
	slot   reflect.Value
	textBuffer
}

func (h *stringHandler) handle(b *Binder, ev *Event) error {
	if done, ok := h.add(ev); !ok {
		if ev.Kind == EvArrayEnd {
			return b.signalEnd(h.parent)
		}
		return fail(NotString, ev)
	} else if !done {
		return nil
	}
	h.slot.SetString(h.take())
	return b.signalValue(h.parent)
}

type boolHandler struct {
	parent int
	slot   reflect.Value
}

func (h *boolHandler) handle(b *Binder, ev *Event) error {
	switch ev.Kind {
	case EvBool:
		h.slot.SetBool(ev.Bool)
		return b.signalValue(h.parent)
	case EvArrayEnd:
		return b.signalEnd(h.parent)
	}
	return fail(NotBool, ev)
}

type nullHandler struct {
	parent int
	slot   reflect.Value
}

func (h *nullHandler) handle(b *Binder, ev *Event) error {
	switch ev.Kind {
	case EvNull:
		h.slot.SetZero()
		return b.signalValue(h.parent)
	case EvArrayEnd:
		return b.signalEnd(h.parent)
	}
	return fail(NotNull, ev)
}

type enumHandler struct {
	parent int
	slot   reflect.Value
	names  map[string]reflect.Value
	textBuffer
}

func (h *enumHandler) handle(b *Binder, ev *Event) error {
	if done, ok := h.add(ev); !ok {
		if ev.Kind == EvArrayEnd {
			return b.signalEnd(h.parent)
		}
		return fail(NotString, ev)
	} else if !done {
		return nil
	}
	name := h.take()
	v, ok := h.names[name]
	if !ok {
		return &Error{Kind: UnknownName, Event: ev.Kind, Name: name}
	}
	h.slot.Set(v)
	return b.signalValue(h.parent)
}

type textHandler struct {
	parent int
	slot   reflect.Value
	textBuffer
}

func (h *textHandler) handle(b *Binder, ev *Event) error {
	if done, ok := h.add(ev); !ok {
		if ev.Kind == EvArrayEnd {
			return b.signalEnd(h.parent)
		}
		return fail(NotString, ev)
	} else if !done {
		return nil
	}
	u := h.slot.Addr().Interface().(encoding.TextUnmarshaler)
	err := u.UnmarshalText(h.buf)
	h.buf = h.buf[:0]
	if err != nil {
		return &Error{Kind: InvalidText, Event: ev.Kind, err: err}
	}
	return b.signalValue(h.parent)
}
