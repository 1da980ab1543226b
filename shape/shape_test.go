// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package shape_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/creachadair/jinto/shape"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

type list struct {
	Head int   `json:"head"`
	Tail *list `json:"tail"`
}

type base struct {
	ID string `json:"id"`
}

type derived struct {
	base
	Name  string `json:"name,omitempty"`
	Skip  int    `json:"-"`
	Bare  bool
	inner int
}

type triple struct {
	shape.AsTuple
	A int
	B string
	c bool
	D []float64
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"int", reflect.TypeFor[int16](), "int"},
		{"uint", reflect.TypeFor[uintptr](), "uint"},
		{"float", reflect.TypeFor[float32](), "float"},
		{"string", reflect.TypeFor[string](), "string"},
		{"bool", reflect.TypeFor[bool](), "bool"},
		{"null", reflect.TypeFor[shape.NullValue](), "null"},
		{"text", reflect.TypeFor[time.Time](), "text(time.Time)"},
		{"optional", reflect.TypeFor[*int](), "?int"},
		{"sequence", reflect.TypeFor[[][]string](), "[[string]]"},
		{"map", reflect.TypeFor[map[string]*bool](), "{?bool}"},
		{"array", reflect.TypeFor[[2]uint8](), "(uint,uint)"},
		{"tuple", reflect.TypeFor[triple](), "(int,string,[float])"},
		{"record", reflect.TypeFor[derived](), `{"id":string,"name":string,"Bare":bool}`},
		{"recursive", reflect.TypeFor[list](), `{"head":int,"tail":?shape_test.list}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := shape.Classify(tc.typ)
			if err != nil {
				t.Fatalf("Classify %v: unexpected error: %v", tc.typ, err)
			}
			if got := s.String(); got != tc.want {
				t.Errorf("Classify %v: got %s, want %s", tc.typ, got, tc.want)
			}
			if s.Type != tc.typ {
				t.Errorf("Shape type: got %v, want %v", s.Type, tc.typ)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	a := shape.MustClassify(reflect.TypeFor[list]())
	b, err := shape.Of[list]()
	if err != nil {
		t.Fatalf("Of: unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("Classify twice: got %p and %p, want identical shapes", a, b)
	}

	// The recursive reference resolves to the same shape.
	tail := a.Fields[1].Shape
	if tail.Kind != shape.Optional || tail.Elem != a {
		t.Errorf("Recursive field: got %v, want optional of %v", tail, a)
	}

	// Concurrent callers agree on a single value.
	type fresh struct {
		X []map[string]int `json:"x"`
	}
	var wg sync.WaitGroup
	got := make([]*shape.Shape, 8)
	for i := range got {
		wg.Go(func() { got[i] = shape.MustClassify(reflect.TypeFor[fresh]()) })
	}
	wg.Wait()
	for i, s := range got {
		if s != got[0] {
			t.Errorf("Shape %d: got %p, want %p", i, s, got[0])
		}
	}
}

func TestRecordFields(t *testing.T) {
	s := shape.MustClassify(reflect.TypeFor[derived]())
	var names []string
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"id", "name", "Bare"}, names); diff != "" {
		t.Errorf("Fields (-want, +got):\n%s", diff)
	}
	for i, name := range names {
		if j, ok := s.Lookup(name); !ok || j != i {
			t.Errorf("Lookup %q: got %d, %v; want %d, true", name, j, ok, i)
		}
	}
	if _, ok := s.Lookup("ID"); ok {
		t.Error("Lookup ID: unexpectedly found")
	}

	// Field accessors address the fields of an addressable value.
	var d derived
	v := reflect.ValueOf(&d).Elem()
	s.Fields[0].Slot(v).SetString("a")
	s.Fields[1].Slot(v).SetString("b")
	s.Fields[2].Slot(v).SetBool(true)
	if d.ID != "a" || d.Name != "b" || !d.Bare {
		t.Errorf("Slots: got %+v", d)
	}
}

type opaque struct{ F func() }

// A promoted field collides with a field of the enclosing struct.
type dupe struct {
	Name string
	named
}

type named struct{ Name string }

func TestUnsupported(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		path string
	}{
		{reflect.TypeFor[chan int](), ""},
		{reflect.TypeFor[any](), ""},
		{reflect.TypeFor[map[int]string](), ""},
		{reflect.TypeFor[[]func()](), "[]"},
		{reflect.TypeFor[opaque](), ".F"},
		{reflect.TypeFor[map[string][]complex64](), "{}[]"},
		{reflect.TypeFor[dupe](), ""},
	}
	for _, tc := range tests {
		s, err := shape.Classify(tc.typ)
		var uerr *shape.UnsupportedError
		if !errors.As(err, &uerr) {
			t.Errorf("Classify %v: got %v, %v; want *UnsupportedError", tc.typ, s, err)
			continue
		}
		if uerr.Path != tc.path {
			t.Errorf("Classify %v: error path %q, want %q", tc.typ, uerr.Path, tc.path)
		}
	}
	if _, err := shape.Classify(nil); err == nil {
		t.Error("Classify(nil): got nil, want error")
	}

	mtest.MustPanic(t, func() { shape.MustClassify(reflect.TypeFor[chan bool]()) })
	mtest.MustPanic(t, func() { shape.FieldByName(reflect.TypeFor[derived](), "Nope") })
}

type level int

type coord struct{ Lat, Lon float64 }

func TestRegister(t *testing.T) {
	if err := shape.RegisterEnum(map[string]level{"low": 1, "high": 2}); err != nil {
		t.Fatalf("RegisterEnum: %v", err)
	}
	s := shape.MustClassify(reflect.TypeFor[level]())
	if s.Kind != shape.Enum || len(s.Names) != 2 {
		t.Errorf("Enum shape: got %v with %d names", s, len(s.Names))
	}
	if got := s.Names["high"].Interface(); got != level(2) {
		t.Errorf("Name high: got %v, want 2", got)
	}

	ct := reflect.TypeFor[coord]()
	f64 := shape.MustClassify(reflect.TypeFor[float64]())
	ts, err := shape.NewTuple(ct,
		shape.Element{Shape: f64, Slot: shape.FieldByName(ct, "Lat")},
		shape.Element{Shape: f64, Slot: shape.FieldByName(ct, "Lon")},
	)
	if err != nil {
		t.Fatalf("NewTuple: %v", err)
	}

	// Registration replaces a shape that was already derived.
	if got := shape.MustClassify(ct); got.Kind != shape.Record {
		t.Fatalf("Derived shape: got %v, want record", got)
	}
	if err := shape.Register(ts); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := shape.MustClassify(ct); got != ts {
		t.Errorf("Registered shape: got %v, want %v", got, ts)
	}
	if got := shape.MustClassify(reflect.TypeFor[[]coord]()).String(); got != "[(float,float)]" {
		t.Errorf("Enclosing shape: got %s", got)
	}

	for _, bad := range []*shape.Shape{nil, {}, {Type: ct}} {
		if err := shape.Register(bad); err == nil {
			t.Errorf("Register %v: got nil, want error", bad)
		}
	}
	if _, err := shape.NewRecord(ct,
		shape.Field{Name: "a", Shape: f64, Slot: shape.FieldByName(ct, "Lat")},
		shape.Field{Name: "a", Shape: f64, Slot: shape.FieldByName(ct, "Lon")},
	); err == nil {
		t.Error("NewRecord with duplicate names: got nil, want error")
	}
	if _, err := shape.NewTuple(ct, shape.Element{Shape: f64}); err == nil {
		t.Error("NewTuple without slot: got nil, want error")
	}
}

func TestKind(t *testing.T) {
	for _, k := range []shape.Kind{shape.Int, shape.Enum, shape.Text} {
		if !k.IsScalar() {
			t.Errorf("%v.IsScalar: got false, want true", k)
		}
	}
	for _, k := range []shape.Kind{shape.Invalid, shape.Optional, shape.Record} {
		if k.IsScalar() {
			t.Errorf("%v.IsScalar: got true, want false", k)
		}
	}
}
