// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"strings"
	"testing"

	"github.com/creachadair/jinto"
	"github.com/creachadair/jinto/ast"
)

func TestBuildChunked(t *testing.T) {
	const input = `{"a long key": ["a long string value", 1234567.125e3, -98765432100], "k": {}}`
	const want = `{"a long key":["a long string value",1234567.125e3,-98765432100],"k":{}}`
	for _, n := range []int{0, 1, 3, 8} {
		st := jinto.NewStream(strings.NewReader(input))
		st.SetChunkSize(n)
		v, err := ast.Build(st)
		if err != nil {
			t.Fatalf("Build (chunk %d): %v", n, err)
		}
		if got := v.JSON(); got != want {
			t.Errorf("Build (chunk %d): got %s, want %s", n, got, want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		isInt bool
		want  float64
	}{
		{"0", true, 0},
		{"-17", true, -17},
		{"9223372036854775808", true, 9223372036854775808},
		{"1.5e2", false, 150},
		{"1e400", false, 0}, // out of range
	}
	for _, tc := range tests {
		n, err := ast.ParseNumber(tc.input)
		if tc.input == "1e400" {
			if err == nil {
				t.Errorf("ParseNumber(%q): got %v, want error", tc.input, n)
			}
			continue
		} else if err != nil {
			t.Errorf("ParseNumber(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if n.IsInt() != tc.isInt || n.Float64() != tc.want {
			t.Errorf("ParseNumber(%q): got (%v, %v), want (%v, %v)", tc.input, n.IsInt(), n.Float64(), tc.isInt, tc.want)
		}
		if n.Text() != tc.input {
			t.Errorf("ParseNumber(%q): text is %q", tc.input, n.Text())
		}
	}
	if _, err := ast.ParseNumber("12x"); err == nil {
		t.Error("ParseNumber(12x): got nil, want error")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		events []jinto.Event
	}{
		{"Unbalanced", []jinto.Event{{Kind: jinto.EvArrayEnd}}},
		{"Extra", []jinto.Event{{Kind: jinto.EvNull}, {Kind: jinto.EvBool}}},
		{"KeyOutside", []jinto.Event{{Kind: jinto.EvKey, Text: []byte("x")}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &jinto.Recorder{Events: tc.events}
			if v, err := ast.Build(rec.Source()); err == nil {
				t.Errorf("Build: got %v, want error", v)
			}
		})
	}
}
