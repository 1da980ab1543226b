// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"testing"

	"github.com/creachadair/jinto/ast"
	"github.com/creachadair/jinto/shape"
)

func TestParseTypeExpr(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"int", "int"},
		{"?uint8", "?uint"},
		{"[string]", "[string]"},
		{"{ [float64] }", "{[float]}"},
		{"(int, string, ?bool)", "(int,string,?bool)"},
		{"[2]int", "(int,int)"},
		{"[?(null,int8)]", "[?(null,int)]"},
		{"uuid", "text(uuid.UUID)"},
		{"{time}", "{text(time.Time)}"},
	}
	for _, tc := range tests {
		typ, err := parseTypeExpr(tc.input)
		if err != nil {
			t.Errorf("parseTypeExpr(%q): unexpected error: %v", tc.input, err)
			continue
		}
		s, err := shape.Classify(typ)
		if err != nil {
			t.Errorf("Classify %v: unexpected error: %v", typ, err)
			continue
		}
		if got := s.String(); got != tc.want {
			t.Errorf("parseTypeExpr(%q): got shape %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseTypeExprErrors(t *testing.T) {
	tests := []string{
		"",
		"bogus",
		"int8x",
		"int int",
		"[int",
		"{int",
		"(int,",
		"(int string)",
		"?",
		"[99999999999999999999]int",
		"%",
	}
	for _, input := range tests {
		if typ, err := parseTypeExpr(input); err == nil {
			t.Errorf("parseTypeExpr(%q): got %v, want error", input, typ)
		}
	}
}

func TestSchemaType(t *testing.T) {
	schema := ast.Object{
		ast.Field("name", ast.String("string")),
		ast.Field("tags", ast.Array{ast.String("string")}),
		ast.Field("limits", ast.Object{
			ast.Field("max", ast.String("?uint32")),
		}),
	}
	typ, err := schemaType(schema)
	if err != nil {
		t.Fatalf("schemaType: unexpected error: %v", err)
	}
	s, err := shape.Classify(typ)
	if err != nil {
		t.Fatalf("Classify: unexpected error: %v", err)
	}
	const want = `{"name":string,"tags":[string],"limits":{"max":?uint}}`
	if got := s.String(); got != want {
		t.Errorf("Shape: got %s, want %s", got, want)
	}

	for _, bad := range []ast.Value{
		ast.Int(5),
		ast.Array{},
		ast.Array{ast.String("int"), ast.String("int")},
		ast.Object{ast.Field("x", ast.String("bogus"))},
	} {
		if typ, err := schemaType(bad); err == nil {
			t.Errorf("schemaType(%s): got %v, want error", bad.JSON(), typ)
		}
	}
}
