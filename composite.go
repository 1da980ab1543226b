// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"reflect"

	"github.com/creachadair/jinto/shape"
)

// A sequenceHandler decodes an array into a slice. Its element handler is
// built on first use and reused for every element; it writes into a scratch
// value that is appended to the slice and then zeroed.
type sequenceHandler struct {
	self, parent int
	slot         reflect.Value
	elem         *shape.Shape

	child  int           // index of the element handler, or -1
	next   reflect.Value // scratch element
	active bool          // the array has been opened
}

func (h *sequenceHandler) handle(b *Binder, ev *Event) error {
	switch ev.Kind {
	case EvArrayBegin:
		if h.active {
			break
		}
		h.active = true
		if h.slot.IsNil() {
			h.slot.Set(reflect.MakeSlice(h.slot.Type(), 0, 0))
		} else {
			h.slot.SetLen(0)
		}
		if h.child < 0 {
			h.next = reflect.New(h.elem.Type).Elem()
			h.child = b.build(h.elem, h.next, h.self)
		}
		return nil

	case EvArrayEnd:
		if !h.active {
			return b.signalEnd(h.parent)
		}
	}
	return b.forward(h.child, h.active, NotArray, ev)
}

func (h *sequenceHandler) signalValue(*Binder) error {
	h.slot.Set(reflect.Append(h.slot, h.next))
	h.next.SetZero()
	return nil
}

func (h *sequenceHandler) signalEnd(b *Binder) error {
	h.active = false
	return b.signalValue(h.parent)
}

// A mapHandler decodes an object into a map with string keys. Like a
// sequence, it reuses a single value handler writing into a scratch value.
type mapHandler struct {
	self, parent int
	slot         reflect.Value
	elem         *shape.Shape

	child  int           // index of the value handler, or -1
	next   reflect.Value // scratch value
	key    []byte        // pending key
	active bool          // the value handler is active
}

func (h *mapHandler) handle(b *Binder, ev *Event) error {
	if h.active {
		return b.nodes[h.child].handle(b, ev)
	}
	switch ev.Kind {
	case EvObjectBegin:
		if h.slot.IsNil() {
			h.slot.Set(reflect.MakeMap(h.slot.Type()))
		}
		return nil
	case EvObjectEnd:
		return b.signalValue(h.parent)
	case EvArrayEnd:
		return b.signalEnd(h.parent)
	case EvKeyPart:
		h.key = append(h.key, ev.Text...)
		return nil
	case EvKey:
		h.key = append(h.key, ev.Text...)
		if h.child < 0 {
			h.next = reflect.New(h.elem.Type).Elem()
			h.child = b.build(h.elem, h.next, h.self)
		}
		h.active = true
		return nil
	}
	return fail(NotObject, ev)
}

func (h *mapHandler) signalValue(*Binder) error {
	key := reflect.ValueOf(string(h.key)).Convert(h.slot.Type().Key())
	h.slot.SetMapIndex(key, h.next)
	h.next.SetZero()
	h.key = h.key[:0]
	h.active = false
	return nil
}

func (h *mapHandler) signalEnd(b *Binder) error {
	h.active = false
	h.key = h.key[:0]
	return b.signalValue(h.parent)
}

// notStarted is the cursor of a tuple that has not seen its opening bracket.
const notStarted = -1

// A tupleHandler decodes a fixed-length array. It has one pre-built child per
// position, and a cursor selecting the active one.
type tupleHandler struct {
	parent   int
	children []int
	cur      int // index of the active child, or notStarted
}

func (h *tupleHandler) handle(b *Binder, ev *Event) error {
	n := len(h.children)
	switch ev.Kind {
	case EvArrayBegin:
		if h.cur == notStarted {
			h.cur = 0
			return nil
		}
	case EvArrayEnd:
		if h.cur == notStarted {
			return b.signalEnd(h.parent)
		} else if h.cur == n {
			h.cur = notStarted
			return b.signalValue(h.parent)
		}
	}
	if h.cur == notStarted {
		return fail(NotArray, ev)
	} else if h.cur >= n {
		return fail(SizeMismatch, ev)
	}
	return b.nodes[h.children[h.cur]].handle(b, ev)
}

func (h *tupleHandler) signalValue(*Binder) error {
	h.cur++
	return nil
}

// signalEnd is reached only when the tuple's own closing bracket arrives
// before every position has a value.
func (h *tupleHandler) signalEnd(*Binder) error {
	h.cur = notStarted
	return &Error{Kind: SizeMismatch, Event: EvArrayEnd}
}

// noField is the cursor of a record with no active field.
const noField = -1

// A recordHandler decodes an object into a struct. It has one pre-built child
// per field, a pending key, and a cursor selecting the active field.
type recordHandler struct {
	parent   int
	shape    *shape.Shape
	children []int
	skip     int // index of the skip handler, or -1 to reject unknown fields

	key []byte // pending key
	cur int    // index of the active child, or noField
}

func (h *recordHandler) handle(b *Binder, ev *Event) error {
	if h.cur != noField {
		return b.nodes[h.cur].handle(b, ev)
	}
	switch ev.Kind {
	case EvObjectBegin:
		return nil
	case EvObjectEnd:
		return b.signalValue(h.parent)
	case EvArrayEnd:
		return b.signalEnd(h.parent)
	case EvKeyPart:
		h.key = append(h.key, ev.Text...)
		return nil
	case EvKey:
		h.key = append(h.key, ev.Text...)
		if i, ok := h.shape.Lookup(string(h.key)); ok {
			h.cur = h.children[i]
		} else if h.skip >= 0 {
			h.cur = h.skip
		} else {
			return &Error{Kind: UnknownName, Event: ev.Kind, Name: string(h.key)}
		}
		return nil
	}
	return fail(NotObject, ev)
}

func (h *recordHandler) signalValue(*Binder) error {
	h.key = h.key[:0]
	h.cur = noField
	return nil
}

func (h *recordHandler) signalEnd(b *Binder) error {
	h.key = h.key[:0]
	h.cur = noField
	return b.signalValue(h.parent)
}

// A skipHandler consumes and discards one complete value of any shape. It
// serves a record whose unknown fields are skipped.
type skipHandler struct {
	parent int
	depth  int
}

func (h *skipHandler) handle(b *Binder, ev *Event) error {
	switch ev.Kind {
	case EvObjectBegin, EvArrayBegin:
		h.depth++
		return nil
	case EvObjectEnd, EvArrayEnd:
		h.depth--
	case EvKeyPart, EvKey, EvStringPart, EvNumberPart:
		return nil
	}
	if h.depth > 0 {
		return nil
	}
	h.depth = 0
	return b.signalValue(h.parent)
}

// An optionalHandler decodes null or a value into a pointer. The pointee
// handler is built on first use; the first non-null event arms it and is
// delivered to it.
type optionalHandler struct {
	self, parent int
	slot         reflect.Value
	elem         *shape.Shape

	child  int           // index of the pointee handler, or -1
	next   reflect.Value // scratch pointee
	active bool          // the pointee handler is armed
}

func (h *optionalHandler) handle(b *Binder, ev *Event) error {
	if !h.active {
		switch ev.Kind {
		case EvNull:
			h.slot.SetZero()
			return b.signalValue(h.parent)
		case EvArrayEnd:
			return b.signalEnd(h.parent)
		}
		if h.child < 0 {
			h.next = reflect.New(h.elem.Type).Elem()
			h.child = b.build(h.elem, h.next, h.self)
		}
		h.active = true
	}
	return b.nodes[h.child].handle(b, ev)
}

func (h *optionalHandler) signalValue(b *Binder) error {
	p := reflect.New(h.elem.Type)
	p.Elem().Set(h.next)
	h.slot.Set(p)
	h.next.SetZero()
	h.active = false
	return b.signalValue(h.parent)
}

func (h *optionalHandler) signalEnd(b *Binder) error {
	h.active = false
	return b.signalEnd(h.parent)
}
