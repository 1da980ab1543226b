// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"fmt"
	"strconv"
)

// A Sink consumes parse events from a Source. If a method reports an error,
// the source must stop delivering events and return that error unchanged.
//
// Text arguments are only valid for the duration of the method call. A sink
// that needs to retain them must copy the data.
//
// String, key, comment, and number text may be delivered in pieces: zero or
// more Part calls followed by exactly one final call. The total argument of
// the string and key methods reports the number of bytes delivered so far for
// the current value, including the chunk in the call.
type Sink interface {
	// Begin and end a complete document. A source delivers one top-level
	// value between these calls.
	DocumentBegin() error
	DocumentEnd() error

	// Begin and end an object. The argument to ObjectEnd is the number of
	// members in the object.
	ObjectBegin() error
	ObjectEnd(n int) error

	// Begin and end an array. The argument to ArrayEnd is the number of
	// elements in the array.
	ArrayBegin() error
	ArrayEnd(n int) error

	// Deliver the unescaped text of an object key.
	KeyPart(text []byte, total int) error
	Key(text []byte, total int) error

	// Deliver the unescaped text of a string value.
	StringPart(text []byte, total int) error
	String(text []byte, total int) error

	// Deliver a number. NumberPart carries a prefix of the raw text; the final
	// call carries the parsed value and the remainder of the raw text.
	NumberPart(raw []byte) error
	Int64(v int64, raw []byte) error
	Uint64(v uint64, raw []byte) error
	Double(v float64, raw []byte) error

	Bool(v bool) error
	Null() error

	// Deliver the text of a comment, including its delimiters.
	CommentPart(text []byte) error
	Comment(text []byte) error
}

// A Source delivers the events for a document to a Sink.
type Source interface {
	Parse(Sink) error
}

// EventKind identifies the type of an Event.
type EventKind byte

// Constants defining the valid EventKind values. There is one for each
// method of the Sink interface.
const (
	EvInvalid EventKind = iota
	EvDocumentBegin
	EvDocumentEnd
	EvObjectBegin
	EvObjectEnd
	EvArrayBegin
	EvArrayEnd
	EvKeyPart
	EvKey
	EvStringPart
	EvString
	EvNumberPart
	EvInt64
	EvUint64
	EvDouble
	EvBool
	EvNull
	EvCommentPart
	EvComment
)

var eventStr = [...]string{
	EvInvalid:       "invalid event",
	EvDocumentBegin: "DocumentBegin",
	EvDocumentEnd:   "DocumentEnd",
	EvObjectBegin:   "ObjectBegin",
	EvObjectEnd:     "ObjectEnd",
	EvArrayBegin:    "ArrayBegin",
	EvArrayEnd:      "ArrayEnd",
	EvKeyPart:       "KeyPart",
	EvKey:           "Key",
	EvStringPart:    "StringPart",
	EvString:        "String",
	EvNumberPart:    "NumberPart",
	EvInt64:         "Int64",
	EvUint64:        "Uint64",
	EvDouble:        "Double",
	EvBool:          "Bool",
	EvNull:          "Null",
	EvCommentPart:   "CommentPart",
	EvComment:       "Comment",
}

func (k EventKind) String() string {
	if int(k) >= len(eventStr) {
		return eventStr[EvInvalid]
	}
	return eventStr[k]
}

// An Event is the value form of a single Sink method call.
type Event struct {
	Kind EventKind

	Text []byte // key, string, comment, and number text
	N    int    // total for keys and strings; count for ObjectEnd and ArrayEnd

	Int   int64
	Uint  uint64
	Float float64
	Bool  bool
}

// Send delivers e to the corresponding method of s.
func (e Event) Send(s Sink) error {
	switch e.Kind {
	case EvDocumentBegin:
		return s.DocumentBegin()
	case EvDocumentEnd:
		return s.DocumentEnd()
	case EvObjectBegin:
		return s.ObjectBegin()
	case EvObjectEnd:
		return s.ObjectEnd(e.N)
	case EvArrayBegin:
		return s.ArrayBegin()
	case EvArrayEnd:
		return s.ArrayEnd(e.N)
	case EvKeyPart:
		return s.KeyPart(e.Text, e.N)
	case EvKey:
		return s.Key(e.Text, e.N)
	case EvStringPart:
		return s.StringPart(e.Text, e.N)
	case EvString:
		return s.String(e.Text, e.N)
	case EvNumberPart:
		return s.NumberPart(e.Text)
	case EvInt64:
		return s.Int64(e.Int, e.Text)
	case EvUint64:
		return s.Uint64(e.Uint, e.Text)
	case EvDouble:
		return s.Double(e.Float, e.Text)
	case EvBool:
		return s.Bool(e.Bool)
	case EvNull:
		return s.Null()
	case EvCommentPart:
		return s.CommentPart(e.Text)
	case EvComment:
		return s.Comment(e.Text)
	default:
		return fmt.Errorf("invalid event kind %d", e.Kind)
	}
}

// String renders e in a compact human-readable format.
func (e Event) String() string {
	switch e.Kind {
	case EvObjectEnd, EvArrayEnd:
		return fmt.Sprintf("%v %d", e.Kind, e.N)
	case EvKeyPart, EvKey, EvStringPart, EvString:
		return fmt.Sprintf("%v %s %d", e.Kind, Quote(string(e.Text)), e.N)
	case EvNumberPart, EvCommentPart, EvComment:
		return fmt.Sprintf("%v <%s>", e.Kind, e.Text)
	case EvInt64:
		return fmt.Sprintf("%v %d <%s>", e.Kind, e.Int, e.Text)
	case EvUint64:
		return fmt.Sprintf("%v %d <%s>", e.Kind, e.Uint, e.Text)
	case EvDouble:
		return fmt.Sprintf("%v %s <%s>", e.Kind, strconv.FormatFloat(e.Float, 'g', -1, 64), e.Text)
	case EvBool:
		return fmt.Sprintf("%v %v", e.Kind, e.Bool)
	default:
		return e.Kind.String()
	}
}

// Replay delivers each of the events in order to s, stopping at and
// returning the first error reported.
func Replay(events []Event, s Sink) error {
	for _, e := range events {
		if err := e.Send(s); err != nil {
			return err
		}
	}
	return nil
}

// Recorder is a Sink that records a copy of every event it receives. Its
// methods never report an error.
type Recorder struct {
	Events []Event
}

func (r *Recorder) add(e Event) error {
	if e.Text != nil {
		e.Text = append([]byte(nil), e.Text...)
	}
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) DocumentBegin() error  { return r.add(Event{Kind: EvDocumentBegin}) }
func (r *Recorder) DocumentEnd() error    { return r.add(Event{Kind: EvDocumentEnd}) }
func (r *Recorder) ObjectBegin() error    { return r.add(Event{Kind: EvObjectBegin}) }
func (r *Recorder) ObjectEnd(n int) error { return r.add(Event{Kind: EvObjectEnd, N: n}) }
func (r *Recorder) ArrayBegin() error     { return r.add(Event{Kind: EvArrayBegin}) }
func (r *Recorder) ArrayEnd(n int) error  { return r.add(Event{Kind: EvArrayEnd, N: n}) }
func (r *Recorder) Bool(v bool) error     { return r.add(Event{Kind: EvBool, Bool: v}) }
func (r *Recorder) Null() error           { return r.add(Event{Kind: EvNull}) }

func (r *Recorder) KeyPart(text []byte, total int) error {
	return r.add(Event{Kind: EvKeyPart, Text: text, N: total})
}

func (r *Recorder) Key(text []byte, total int) error {
	return r.add(Event{Kind: EvKey, Text: text, N: total})
}

func (r *Recorder) StringPart(text []byte, total int) error {
	return r.add(Event{Kind: EvStringPart, Text: text, N: total})
}

func (r *Recorder) String(text []byte, total int) error {
	return r.add(Event{Kind: EvString, Text: text, N: total})
}

func (r *Recorder) NumberPart(raw []byte) error {
	return r.add(Event{Kind: EvNumberPart, Text: raw})
}

func (r *Recorder) Int64(v int64, raw []byte) error {
	return r.add(Event{Kind: EvInt64, Int: v, Text: raw})
}

func (r *Recorder) Uint64(v uint64, raw []byte) error {
	return r.add(Event{Kind: EvUint64, Uint: v, Text: raw})
}

func (r *Recorder) Double(v float64, raw []byte) error {
	return r.add(Event{Kind: EvDouble, Float: v, Text: raw})
}

func (r *Recorder) CommentPart(text []byte) error {
	return r.add(Event{Kind: EvCommentPart, Text: text})
}

func (r *Recorder) Comment(text []byte) error {
	return r.add(Event{Kind: EvComment, Text: text})
}

// Source returns a Source that replays the recorded events.
func (r *Recorder) Source() Source { return replaySource(r.Events) }

type replaySource []Event

func (rs replaySource) Parse(s Sink) error { return Replay(rs, s) }
