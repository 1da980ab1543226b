// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package shape

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var (
	// cache holds the shapes derived by Classify, keyed by reflect.Type.
	cache sync.Map

	// registry holds shapes installed by Register and RegisterEnum. Entries
	// here take precedence over derived shapes.
	registry sync.Map

	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	nullType            = reflect.TypeFor[NullValue]()
	asTupleType         = reflect.TypeFor[AsTuple]()
)

// UnsupportedError is reported by Classify for a type that has no shape.
type UnsupportedError struct {
	Type   reflect.Type // the type that could not be classified
	Path   string       // where Type occurs inside the requested type, if nested
	Reason string
}

// Error satisfies the error interface.
func (u *UnsupportedError) Error() string {
	if u.Path != "" {
		return fmt.Sprintf("unsupported type %v at %s: %s", u.Type, u.Path, u.Reason)
	}
	return fmt.Sprintf("unsupported type %v: %s", u.Type, u.Reason)
}

// Of returns the shape of the type T. It is shorthand for Classify with the
// type of T.
func Of[T any]() (*Shape, error) { return Classify(reflect.TypeFor[T]()) }

// MustClassify is as Classify, but panics if t cannot be classified.
func MustClassify(t reflect.Type) *Shape {
	s, err := Classify(t)
	if err != nil {
		panic(err)
	}
	return s
}

// Classify returns the shape of t. The result is cached, so that subsequent
// calls for the same type return the same *Shape. Classify is safe for
// concurrent use.
func Classify(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nil, &UnsupportedError{Reason: "nil type"}
	}
	if s, ok := lookup(t); ok {
		return s, nil
	}
	c := &classifier{pending: make(map[reflect.Type]*Shape)}
	s, err := c.classify(t, "")
	if err != nil {
		return nil, err
	}

	// Publish everything derived along the way. If another goroutine won the
	// race for t, report its shape so callers agree on a single value.
	for pt, ps := range c.pending {
		if pt != t {
			cache.LoadOrStore(pt, ps)
		}
	}
	got, _ := cache.LoadOrStore(t, s)
	return got.(*Shape), nil
}

func lookup(t reflect.Type) (*Shape, bool) {
	if s, ok := registry.Load(t); ok {
		return s.(*Shape), true
	}
	if s, ok := cache.Load(t); ok {
		return s.(*Shape), true
	}
	return nil, false
}

// Register installs s as the shape of s.Type, replacing any shape previously
// derived or registered for that type. Register should be called before any
// type containing s.Type is classified, since shapes of enclosing types that
// were already cached are not updated.
func Register(s *Shape) error {
	if s == nil || s.Type == nil {
		return fmt.Errorf("register: missing shape type")
	} else if s.Kind == Invalid {
		return fmt.Errorf("register %v: invalid shape kind", s.Type)
	}
	if s.Kind == Record && s.index == nil {
		r, err := NewRecord(s.Type, s.Fields...)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		s.index = r.index
	}
	registry.Store(s.Type, s)
	cache.Delete(s.Type)
	return nil
}

// RegisterEnum installs a name table for the type T, so that values of T are
// decoded from strings by exact name lookup. Names not in the table are
// rejected by the decoder.
func RegisterEnum[T any](names map[string]T) error {
	t := reflect.TypeFor[T]()
	tab := make(map[string]reflect.Value, len(names))
	for name, v := range names {
		tab[name] = reflect.ValueOf(v)
	}
	return Register(&Shape{Kind: Enum, Type: t, Names: tab})
}

type classifier struct {
	pending map[reflect.Type]*Shape // shapes under construction, for cycles
}

func (c *classifier) classify(t reflect.Type, path string) (*Shape, error) {
	if s, ok := lookup(t); ok {
		return s, nil
	} else if s, ok := c.pending[t]; ok {
		return s, nil // a recursive reference; s is filled in by the caller
	}
	if t == nullType {
		return &Shape{Kind: Null, Type: t}, nil
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return &Shape{Kind: Text, Type: t}, nil
	}

	s := &Shape{Type: t}
	unsupported := func(reason string) (*Shape, error) {
		return nil, &UnsupportedError{Type: t, Path: path, Reason: reason}
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s.Kind = Int
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		s.Kind = Uint
	case reflect.Float32, reflect.Float64:
		s.Kind = Float
	case reflect.String:
		s.Kind = String
	case reflect.Bool:
		s.Kind = Bool

	case reflect.Pointer:
		s.Kind = Optional
		c.pending[t] = s
		elem, err := c.classify(t.Elem(), path+"*")
		if err != nil {
			return nil, err
		}
		s.Elem = elem

	case reflect.Slice:
		s.Kind = Sequence
		c.pending[t] = s
		elem, err := c.classify(t.Elem(), path+"[]")
		if err != nil {
			return nil, err
		}
		s.Elem = elem

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return unsupported("map key is not a string")
		}
		s.Kind = Map
		c.pending[t] = s
		elem, err := c.classify(t.Elem(), path+"{}")
		if err != nil {
			return nil, err
		}
		s.Elem = elem

	case reflect.Array:
		s.Kind = Tuple
		c.pending[t] = s
		elem, err := c.classify(t.Elem(), path+"[]")
		if err != nil {
			return nil, err
		}
		s.Elems = make([]Element, t.Len())
		for i := range s.Elems {
			s.Elems[i] = Element{Shape: elem, Slot: indexAt(i)}
		}

	case reflect.Struct:
		c.pending[t] = s
		if err := c.classifyStruct(s, path); err != nil {
			return nil, err
		}

	default:
		return unsupported("no shape for " + t.Kind().String())
	}
	c.pending[t] = s
	return s, nil
}

func (c *classifier) classifyStruct(s *Shape, path string) error {
	t := s.Type
	isTuple := false
	for i := range t.NumField() {
		if f := t.Field(i); f.Anonymous && f.Type == asTupleType {
			isTuple = true
			break
		}
	}

	if isTuple {
		s.Kind = Tuple
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || f.Type == asTupleType {
				continue
			}
			fs, err := c.classify(f.Type, path+"."+f.Name)
			if err != nil {
				return err
			}
			s.Elems = append(s.Elems, Element{Shape: fs, Slot: fieldAt(f.Index)})
		}
		return nil
	}

	s.Kind = Record
	s.index = make(map[string]int)
	return c.collectFields(s, t, nil, path)
}

// collectFields appends the fields of struct type t to s. Untagged embedded
// structs have their fields promoted; prefix is the index path of t within
// s.Type.
func (c *classifier) collectFields(s *Shape, t reflect.Type, prefix []int, path string) error {
	for i := range t.NumField() {
		f := t.Field(i)
		name, skip := fieldName(f)
		if skip {
			continue
		}
		index := append(append([]int(nil), prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Tag.Get("json") == "" {
			if err := c.collectFields(s, f.Type, index, path); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		fs, err := c.classify(f.Type, path+"."+f.Name)
		if err != nil {
			return err
		}
		if _, dup := s.index[name]; dup {
			return &UnsupportedError{Type: s.Type, Path: path, Reason: fmt.Sprintf("duplicate field name %q", name)}
		}
		s.index[name] = len(s.Fields)
		s.Fields = append(s.Fields, Field{Name: name, Shape: fs, Slot: fieldAt(index)})
	}
	return nil
}

// fieldName returns the decoded name of f, and reports whether f should be
// skipped entirely.
func fieldName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name, false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name, false
	}
	return name, false
}
