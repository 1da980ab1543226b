// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package shape classifies Go types into the closed set of shapes that the
// jinto binder knows how to decode into.
//
// A Shape describes how a value of a given type is assembled from parse
// events: as a scalar, an optional, a sequence, a string-keyed map, a
// fixed-arity tuple, or a record with named fields. Shapes are derived once
// per type by Classify and cached; they are immutable once returned.
//
// Callers that need a field table other than the one implied by struct tags
// can build a Shape by hand and install it with Register.
package shape

import (
	"fmt"
	"reflect"
)

// Kind is the tag of a Shape.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid  Kind = iota // not a valid shape
	Int                  // signed integer: int, int8, ..., int64
	Uint                 // unsigned integer: uint, uint8, ..., uint64, uintptr
	Float                // float32, float64
	String               // string
	Bool                 // bool
	Null                 // the NullValue type
	Enum                 // named type with a registered name table
	Text                 // implements encoding.TextUnmarshaler
	Optional             // pointer *T
	Sequence             // slice []T
	Map                  // map[K]T, where K has string kind
	Tuple                // [N]T, or a struct embedding AsTuple
	Record               // struct with named fields
)

var kindStr = [...]string{
	Invalid:  "invalid",
	Int:      "int",
	Uint:     "uint",
	Float:    "float",
	String:   "string",
	Bool:     "bool",
	Null:     "null",
	Enum:     "enum",
	Text:     "text",
	Optional: "optional",
	Sequence: "sequence",
	Map:      "map",
	Tuple:    "tuple",
	Record:   "record",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

// IsScalar reports whether k is a leaf shape, one that consumes a single
// value event (possibly preceded by partial chunks).
func (k Kind) IsScalar() bool { return k >= Int && k <= Text }

// A Shape describes how to decode a value of Type.
type Shape struct {
	Kind Kind
	Type reflect.Type

	// Elem is the shape of the pointee (Optional), the element (Sequence), or
	// the value (Map). It is nil for other kinds.
	Elem *Shape

	// Elems are the positions of a Tuple, in order.
	Elems []Element

	// Fields are the fields of a Record, in declaration order.
	Fields []Field

	// Names is the name table of an Enum.
	Names map[string]reflect.Value

	index map[string]int // field name → offset in Fields
}

// An Accessor maps an addressable value of a tuple or record type to the
// addressable slot of one of its positions or fields.
type Accessor func(reflect.Value) reflect.Value

// An Element is one position of a Tuple.
type Element struct {
	Shape *Shape
	Slot  Accessor
}

// A Field is one named field of a Record.
type Field struct {
	Name  string
	Shape *Shape
	Slot  Accessor
}

// Lookup returns the offset in s.Fields of the field whose name is exactly
// name, and reports whether it was found.
func (s *Shape) Lookup(name string) (int, bool) {
	if s.index != nil {
		i, ok := s.index[name]
		return i, ok
	}
	for i, f := range s.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// String renders a compact description of s, for diagnostics.
func (s *Shape) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.format(make(map[*Shape]bool))
}

func (s *Shape) format(seen map[*Shape]bool) string {
	if seen[s] {
		return s.Type.String() // recursive reference
	}
	switch s.Kind {
	case Optional:
		seen[s] = true
		defer delete(seen, s)
		return "?" + s.Elem.format(seen)
	case Sequence:
		seen[s] = true
		defer delete(seen, s)
		return "[" + s.Elem.format(seen) + "]"
	case Map:
		seen[s] = true
		defer delete(seen, s)
		return "{" + s.Elem.format(seen) + "}"
	case Tuple:
		seen[s] = true
		defer delete(seen, s)
		out := "("
		for i, e := range s.Elems {
			if i > 0 {
				out += ","
			}
			out += e.Shape.format(seen)
		}
		return out + ")"
	case Record:
		seen[s] = true
		defer delete(seen, s)
		out := "{"
		for i, f := range s.Fields {
			if i > 0 {
				out += ","
			}
			out += fmt.Sprintf("%q:%s", f.Name, f.Shape.format(seen))
		}
		return out + "}"
	case Enum, Text:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Type)
	default:
		return s.Kind.String()
	}
}

// NewRecord constructs a Record shape for t with the given fields. Field
// names must be unique. It is intended for callers that supply their own field
// table via Register.
func NewRecord(t reflect.Type, fields ...Field) (*Shape, error) {
	s := &Shape{Kind: Record, Type: t, Fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, ok := s.index[f.Name]; ok {
			return nil, fmt.Errorf("duplicate field name %q in %v", f.Name, t)
		} else if f.Shape == nil || f.Slot == nil {
			return nil, fmt.Errorf("field %q of %v is missing a shape or slot", f.Name, t)
		}
		s.index[f.Name] = i
	}
	return s, nil
}

// NewTuple constructs a Tuple shape for t with the given positions.
func NewTuple(t reflect.Type, elems ...Element) (*Shape, error) {
	for i, e := range elems {
		if e.Shape == nil || e.Slot == nil {
			return nil, fmt.Errorf("position %d of %v is missing a shape or slot", i, t)
		}
	}
	return &Shape{Kind: Tuple, Type: t, Elems: elems}, nil
}

// FieldByName returns an Accessor for the struct field with the given Go name.
// It panics if t has no such field.
func FieldByName(t reflect.Type, name string) Accessor {
	sf, ok := t.FieldByName(name)
	if !ok {
		panic(fmt.Sprintf("type %v has no field %q", t, name))
	}
	return fieldAt(sf.Index)
}

func fieldAt(index []int) Accessor {
	if len(index) == 1 {
		i := index[0]
		return func(v reflect.Value) reflect.Value { return v.Field(i) }
	}
	return func(v reflect.Value) reflect.Value { return v.FieldByIndex(index) }
}

func indexAt(i int) Accessor {
	return func(v reflect.Value) reflect.Value { return v.Index(i) }
}

// NullValue is a type whose only valid encoding is the JSON null.
type NullValue struct{}

// AsTuple is a marker type. A struct that embeds AsTuple is decoded as a
// tuple of its remaining exported fields in declaration order, rather than as
// a record:
//
//	type Point struct {
//	   shape.AsTuple
//	   X, Y float64
//	}
type AsTuple struct{}
