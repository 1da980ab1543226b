// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/creachadair/jinto/shape"
	"go.uber.org/zap"
)

// A Binder is a Sink that decodes the events of a single document directly
// into a Go value. Construct a Binder with NewBinder, deliver the events of
// one document to it, then call Finish to check that a complete value was
// decoded.
//
// The first error reported by a handler stops the binder: all subsequent
// events report the same error. Any part of the value that was written before
// the error remains written.
//
// A Binder must not be used by multiple goroutines concurrently, and cannot
// be reused for another document.
type Binder struct {
	nodes  []handler // arena of handlers; nodes[0] is the root value
	policy FieldPolicy
	target reflect.Type

	complete bool  // the root value has been fully decoded
	closed   bool  // DocumentEnd has been received
	err      error // the first error reported, if any
}

// NewBinder constructs a Binder that decodes into the value pointed to by v,
// which must be a non-nil pointer to a type that has a shape.
func NewBinder(v any, opts *Options) (*Binder, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("destination must be a non-nil pointer, got %T", v)
	}
	slot := rv.Elem()
	s, err := shape.Classify(slot.Type())
	if err != nil {
		return nil, err
	}
	b := &Binder{policy: opts.unknownFields(), target: slot.Type()}
	b.build(s, slot, root)
	return b, nil
}

// Finish reports whether b received a complete value without error.  It
// returns the first error reported by b, or ErrIncomplete if the value was
// never completed.
func (b *Binder) Finish() error {
	if b.err != nil {
		return b.err
	} else if !b.complete {
		return ErrIncomplete
	}
	return nil
}

// root is the parent index of the top-level handler.
const root = -1

// A handler consumes events for one shape instance in the destination.
type handler interface {
	handle(b *Binder, ev *Event) error
}

// A container is a handler that has children, and which is notified when
// those children finish.
type container interface {
	handler

	// signalValue is called by a child when it has completed its value.
	signalValue(b *Binder) error

	// signalEnd is called by an idle child that receives an array close,
	// meaning the scope enclosing the child has ended.
	signalEnd(b *Binder) error
}

var errUnbalanced = errors.New("unbalanced array end")

// signalValue notifies the handler at p that its child has completed a value.
func (b *Binder) signalValue(p int) error {
	if p == root {
		b.complete = true
		return nil
	}
	return b.nodes[p].(container).signalValue(b)
}

// signalEnd notifies the handler at p that the scope enclosing its child has
// closed.
func (b *Binder) signalEnd(p int) error {
	if p == root {
		return errUnbalanced
	}
	return b.nodes[p].(container).signalEnd(b)
}

// forward delivers ev to the child at index i if active is true. Otherwise it
// reports kind as the error for ev.
func (b *Binder) forward(i int, active bool, kind ErrorKind, ev *Event) error {
	if !active {
		return fail(kind, ev)
	}
	return b.nodes[i].handle(b, ev)
}

// build constructs a handler for s writing into slot, whose parent is the
// handler at index p, and returns the index of the new handler.
func (b *Binder) build(s *shape.Shape, slot reflect.Value, p int) int {
	i := len(b.nodes)
	b.nodes = append(b.nodes, nil) // reserve i before building children

	var h handler
	switch s.Kind {
	case shape.Int:
		h = &intHandler{parent: p, slot: slot}
	case shape.Uint:
		h = &intHandler{parent: p, slot: slot, unsigned: true}
	case shape.Float:
		h = &floatHandler{parent: p, slot: slot}
	case shape.String:
		h = &stringHandler{parent: p, slot: slot}
	case shape.Bool:
		h = &boolHandler{parent: p, slot: slot}
	case shape.Null:
		h = &nullHandler{parent: p, slot: slot}
	case shape.Enum:
		h = &enumHandler{parent: p, slot: slot, names: s.Names}
	case shape.Text:
		h = &textHandler{parent: p, slot: slot}

	case shape.Optional:
		h = &optionalHandler{self: i, parent: p, slot: slot, elem: s.Elem, child: -1}
	case shape.Sequence:
		h = &sequenceHandler{self: i, parent: p, slot: slot, elem: s.Elem, child: -1}
	case shape.Map:
		h = &mapHandler{self: i, parent: p, slot: slot, elem: s.Elem, child: -1}

	case shape.Tuple:
		t := &tupleHandler{parent: p, cur: notStarted}
		for _, e := range s.Elems {
			t.children = append(t.children, b.build(e.Shape, e.Slot(slot), i))
		}
		h = t
	case shape.Record:
		r := &recordHandler{parent: p, shape: s, cur: noField, skip: -1}
		for _, f := range s.Fields {
			r.children = append(r.children, b.build(f.Shape, f.Slot(slot), i))
		}
		if b.policy == SkipUnknown {
			r.skip = len(b.nodes)
			b.nodes = append(b.nodes, &skipHandler{parent: i})
		}
		h = r

	default:
		panic(fmt.Sprintf("unhandled shape kind %v", s.Kind))
	}
	b.nodes[i] = h
	return i
}

// value routes a value event to the root handler.
func (b *Binder) value(ev *Event) error {
	if b.err != nil {
		return b.err
	} else if b.closed || b.complete {
		b.err = fail(ExtraData, ev)
		return b.err
	}
	if err := b.nodes[0].handle(b, ev); err != nil {
		b.err = err
		Logger().Debug("decode failed",
			zap.Stringer("type", b.target),
			zap.Stringer("event", ev.Kind),
			zap.Error(err))
		return err
	}
	return nil
}

// DocumentBegin implements part of the Sink interface.
func (b *Binder) DocumentBegin() error {
	if b.err != nil {
		return b.err
	} else if b.closed || b.complete {
		b.err = &Error{Kind: ExtraData, Event: EvDocumentBegin}
		return b.err
	}
	return nil
}

// DocumentEnd implements part of the Sink interface.
func (b *Binder) DocumentEnd() error {
	if b.err != nil {
		return b.err
	}
	b.closed = true
	return nil
}

// CommentPart implements part of the Sink interface. Comments are ignored.
func (b *Binder) CommentPart([]byte) error { return b.err }

// Comment implements part of the Sink interface. Comments are ignored.
func (b *Binder) Comment([]byte) error { return b.err }

func (b *Binder) ObjectBegin() error {
	return b.value(&Event{Kind: EvObjectBegin})
}

func (b *Binder) ObjectEnd(n int) error {
	return b.value(&Event{Kind: EvObjectEnd, N: n})
}

func (b *Binder) ArrayBegin() error {
	return b.value(&Event{Kind: EvArrayBegin})
}

func (b *Binder) ArrayEnd(n int) error {
	return b.value(&Event{Kind: EvArrayEnd, N: n})
}

func (b *Binder) KeyPart(text []byte, total int) error {
	return b.value(&Event{Kind: EvKeyPart, Text: text, N: total})
}

func (b *Binder) Key(text []byte, total int) error {
	return b.value(&Event{Kind: EvKey, Text: text, N: total})
}

func (b *Binder) StringPart(text []byte, total int) error {
	return b.value(&Event{Kind: EvStringPart, Text: text, N: total})
}

func (b *Binder) String(text []byte, total int) error {
	return b.value(&Event{Kind: EvString, Text: text, N: total})
}

func (b *Binder) NumberPart(raw []byte) error {
	return b.value(&Event{Kind: EvNumberPart, Text: raw})
}

func (b *Binder) Int64(v int64, raw []byte) error {
	return b.value(&Event{Kind: EvInt64, Int: v, Text: raw})
}

func (b *Binder) Uint64(v uint64, raw []byte) error {
	return b.value(&Event{Kind: EvUint64, Uint: v, Text: raw})
}

func (b *Binder) Double(v float64, raw []byte) error {
	return b.value(&Event{Kind: EvDouble, Float: v, Text: raw})
}

func (b *Binder) Bool(v bool) error {
	return b.value(&Event{Kind: EvBool, Bool: v})
}

func (b *Binder) Null() error {
	return b.value(&Event{Kind: EvNull})
}
