// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an untyped syntax tree for JSON values, built from the
// events of any jinto.Source.
//
// A tree can be rendered back to JSON text, replayed as events with Emit, or
// decoded into a typed Go value with Decode.
package ast

import (
	"strconv"
	"strings"

	"github.com/creachadair/jinto"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON renders the value as compact JSON text.
	JSON() string
}

// An Object is a collection of key-value members, in input order.
type Object []*Member

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Len returns the number of members in o.
func (o Object) Len() int { return len(o) }

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string // unescaped
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, val Value) *Member { return &Member{Key: key, Value: val} }

// JSON renders the member as a key:value pair.
func (m *Member) JSON() string { return jinto.Quote(m.Key) + ":" + m.Value.JSON() }

// An Array is a sequence of values.
type Array []Value

// Len returns the number of elements in a.
func (a Array) Len() int { return len(a) }

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// A String is a string value. Its contents are unescaped.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return jinto.Quote(string(s)) }

// Len returns the length of s in bytes.
func (s String) Len() int { return len(s) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// Null represents the null constant.
var Null nullValue

type nullValue struct{}

// JSON satisfies the Value interface.
func (nullValue) JSON() string { return "null" }

// A Number is a numeric value. It retains the text of the number as written,
// along with the value reported by its source.
type Number struct {
	text string
	ev   jinto.Event // one of EvInt64, EvUint64, EvDouble
}

// newNumber constructs a Number from ev. If text is empty, the text is
// formatted from the value.
func newNumber(text string, ev jinto.Event) Number {
	if text == "" {
		switch ev.Kind {
		case jinto.EvInt64:
			text = strconv.FormatInt(ev.Int, 10)
		case jinto.EvUint64:
			text = strconv.FormatUint(ev.Uint, 10)
		default:
			text = strconv.FormatFloat(ev.Float, 'g', -1, 64)
		}
	}
	ev.Text = nil
	return Number{text: text, ev: ev}
}

// Int constructs a Number with the given integer value.
func Int(z int64) Number { return newNumber("", jinto.Event{Kind: jinto.EvInt64, Int: z}) }

// Float constructs a Number with the given floating-point value.
func Float(f float64) Number { return newNumber("", jinto.Event{Kind: jinto.EvDouble, Float: f}) }

// ParseNumber parses text as a JSON number.
func ParseNumber(text string) (Number, error) {
	ev, err := jinto.NumberEvent([]byte(text))
	if err != nil {
		return Number{}, err
	}
	return newNumber(text, ev), nil
}

// IsInt reports whether n has an integer value that fits in an int64 or a
// uint64.
func (n Number) IsInt() bool { return n.ev.Kind == jinto.EvInt64 || n.ev.Kind == jinto.EvUint64 }

// Int64 returns the value of n as an int64, and reports whether it is exact.
func (n Number) Int64() (int64, bool) {
	switch n.ev.Kind {
	case jinto.EvInt64:
		return n.ev.Int, true
	case jinto.EvUint64:
		return int64(n.ev.Uint), false
	default:
		return int64(n.ev.Float), false
	}
}

// Uint64 returns the value of n as a uint64, and reports whether it is exact.
func (n Number) Uint64() (uint64, bool) {
	switch n.ev.Kind {
	case jinto.EvInt64:
		return uint64(n.ev.Int), n.ev.Int >= 0
	case jinto.EvUint64:
		return n.ev.Uint, true
	default:
		return uint64(n.ev.Float), false
	}
}

// Float64 returns the value of n as a float64.
func (n Number) Float64() float64 {
	switch n.ev.Kind {
	case jinto.EvInt64:
		return float64(n.ev.Int)
	case jinto.EvUint64:
		return float64(n.ev.Uint)
	default:
		return n.ev.Float
	}
}

// Text returns the text of n as written.
func (n Number) Text() string { return n.text }

// JSON satisfies the Value interface.
func (n Number) JSON() string { return n.text }
