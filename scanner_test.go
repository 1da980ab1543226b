// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jinto_test

import (
	"io"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/jinto"
	"github.com/google/go-cmp/cmp"
)

type tokText struct {
	Tok  jinto.Token
	Text string
}

// scanAll scans input to the end and returns the tokens it found, with their
// text, along with the first error other than io.EOF.
func scanAll(input string, comments bool) ([]tokText, error) {
	s := jinto.NewScanner(strings.NewReader(input))
	s.AllowComments(comments)
	var got []tokText
	for {
		if err := s.Next(); err == io.EOF {
			return got, nil
		} else if err != nil {
			return got, err
		}
		got = append(got, tokText{s.Token(), string(s.Text())})
	}
}

func TestScannerTokens(t *testing.T) {
	const (
		lb, rb, ls, rs = jinto.LBrace, jinto.RBrace, jinto.LSquare, jinto.RSquare
		cm, cn         = jinto.Comma, jinto.Colon
		num, str, com  = jinto.Number, jinto.String, jinto.Comment
	)
	tests := []struct {
		input    string
		comments bool
		want     []tokText
	}{
		{"", false, nil},
		{" \t\r\n ", false, nil},
		{`true false null`, false, []tokText{
			{jinto.True, "true"}, {jinto.False, "false"}, {jinto.Null, "null"},
		}},
		{`{"a": [1, -2.5e3]}`, false, []tokText{
			{lb, "{"}, {str, `"a"`}, {cn, ":"}, {ls, "["}, {num, "1"}, {cm, ","},
			{num, "-2.5e3"}, {rs, "]"}, {rb, "}"},
		}},
		{`0 -0 1e5 1E+5 1.5e-3 12.25`, false, []tokText{
			{num, "0"}, {num, "-0"}, {num, "1e5"}, {num, "1E+5"}, {num, "1.5e-3"}, {num, "12.25"},
		}},
		{`"" "a\"b" "\u00e9"`, false, []tokText{
			{str, `""`}, {str, `"a\"b"`}, {str, `"\u00e9"`},
		}},
		{`[1,2]{}`, false, []tokText{
			{ls, "["}, {num, "1"}, {cm, ","}, {num, "2"}, {rs, "]"}, {lb, "{"}, {rb, "}"},
		}},

		// Comments.
		{"/* a */", true, []tokText{{com, "/* a */"}}},
		{"/***/", true, []tokText{{com, "/***/"}}},
		{"/****/", true, []tokText{{com, "/****/"}}},
		{"/* x **/ 2", true, []tokText{{com, "/* x **/"}, {num, "2"}}},
		{"/* a * b / c */", true, []tokText{{com, "/* a * b / c */"}}},
		{"/**\n*/", true, []tokText{{com, "/**\n*/"}}},
		{"// line\n1", true, []tokText{{com, "// line\n"}, {num, "1"}}},
		{"// at EOF", true, []tokText{{com, "// at EOF"}}},
		{"// one\n\n// two\n", true, []tokText{{com, "// one\n"}, {com, "// two\n"}}},
		{"[1, /* x **/ 2, /* y */ 3]", true, []tokText{
			{ls, "["}, {num, "1"}, {cm, ","}, {com, "/* x **/"}, {num, "2"}, {cm, ","},
			{com, "/* y */"}, {num, "3"}, {rs, "]"},
		}},
		{`{"k"/**/:/**/true}`, true, []tokText{
			{lb, "{"}, {str, `"k"`}, {com, "/**/"}, {cn, ":"}, {com, "/**/"}, {jinto.True, "true"}, {rb, "}"},
		}},
	}
	for _, test := range tests {
		got, err := scanAll(test.input, test.comments)
		if err != nil {
			t.Errorf("Scan %#q: unexpected error: %v", test.input, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Scan %#q: tokens (-want, +got):\n%s", test.input, diff)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input    string
		comments bool
		want     string
	}{
		{`01`, false, "extra leading zeroes"},
		{`[1, 01]`, false, "extra leading zeroes (offset 6)"},
		{`-`, false, "want digit"},
		{`-x`, false, "got 'x', want digit"},
		{`1.`, false, "no digits after decimal point"},
		{`1.e5`, false, "no digits after decimal point"},
		{`1e`, false, "missing exponent digits"},
		{`1e+`, false, "missing exponent digits"},
		{`nul`, false, `unknown constant "nul"`},
		{`truex`, false, `unknown constant "truex"`},
		{`"abc`, false, "unterminated string"},
		{`"\q"`, false, "invalid 'q' after escape"},
		{`"\u12x4"`, false, "not a hex digit"},
		{"\"a\x01\"", false, "unescaped control"},
		{`@`, false, "unexpected '@'"},
		{`/* ok */`, false, "unexpected '/'"},
		{`/* open`, true, "unterminated block comment"},
		{`/* open *`, true, "unterminated block comment"},
		{`/x`, true, "invalid 'x' in comment"},
		{`/`, true, "incomplete comment"},
	}
	for _, test := range tests {
		_, err := scanAll(test.input, test.comments)
		if err == nil {
			t.Errorf("Scan %#q: got nil, want error", test.input)
		} else if !strings.Contains(err.Error(), test.want) {
			t.Errorf("Scan %#q: got %v, want %q", test.input, err, test.want)
		}
	}
}

func TestScannerNumber(t *testing.T) {
	tests := []struct {
		input string
		want  jinto.Event
	}{
		{"0", jinto.Event{Kind: jinto.EvInt64}},
		{"-15", jinto.Event{Kind: jinto.EvInt64, Int: -15}},
		{"9223372036854775807", jinto.Event{Kind: jinto.EvInt64, Int: math.MaxInt64}},
		{"-9223372036854775808", jinto.Event{Kind: jinto.EvInt64, Int: math.MinInt64}},
		{"9223372036854775808", jinto.Event{Kind: jinto.EvUint64, Uint: 1 << 63}},
		{"18446744073709551615", jinto.Event{Kind: jinto.EvUint64, Uint: math.MaxUint64}},
		{"18446744073709551616", jinto.Event{Kind: jinto.EvDouble, Float: 1 << 64}},
		{"-9223372036854775809", jinto.Event{Kind: jinto.EvDouble, Float: -(1 << 63)}},

		// A fraction or exponent always makes a Double, even if the value is integral.
		{"1.0", jinto.Event{Kind: jinto.EvDouble, Float: 1}},
		{"1e2", jinto.Event{Kind: jinto.EvDouble, Float: 100}},
		{"-2.5E-1", jinto.Event{Kind: jinto.EvDouble, Float: -0.25}},
	}
	for _, test := range tests {
		s := jinto.NewScanner(strings.NewReader(test.input))
		if err := s.Next(); err != nil {
			t.Fatalf("Next %q: unexpected error: %v", test.input, err)
		}
		got, err := s.Number()
		if err != nil {
			t.Errorf("Number %q: unexpected error: %v", test.input, err)
			continue
		}
		test.want.Text = []byte(test.input)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Number %q (-want, +got):\n%s", test.input, diff)
		}

		// The scanner agrees with classifying the raw text directly.
		if ev, err := jinto.NumberEvent([]byte(test.input)); err != nil {
			t.Errorf("NumberEvent %q: unexpected error: %v", test.input, err)
		} else if diff := cmp.Diff(got, ev); diff != "" {
			t.Errorf("NumberEvent %q (-scanner, +raw):\n%s", test.input, diff)
		}
	}

	t.Run("Range", func(t *testing.T) {
		s := jinto.NewScanner(strings.NewReader("1e400"))
		if err := s.Next(); err != nil {
			t.Fatalf("Next: unexpected error: %v", err)
		}
		if ev, err := s.Number(); err == nil {
			t.Errorf("Number: got %v, want error", ev)
		}
	})
	t.Run("NotNumber", func(t *testing.T) {
		s := jinto.NewScanner(strings.NewReader(`"12"`))
		if err := s.Next(); err != nil {
			t.Fatalf("Next: unexpected error: %v", err)
		}
		if ev, err := s.Number(); err == nil {
			t.Errorf("Number: got %v, want error", ev)
		}
	})
}

func TestScannerUnescape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`""`, ""},
		{`"plain text"`, "plain text"},
		{`"a\tb\nc"`, "a\tb\nc"},
		{`"\"quoted\" \\ \/"`, `"quoted" \ /`},
		{`"\u00e9t\u00e9"`, "\u00e9t\u00e9"},
		{`"\ud83d\ude00"`, "\U0001f600"},
	}
	for _, test := range tests {
		s := jinto.NewScanner(strings.NewReader(test.input))
		if err := s.Next(); err != nil {
			t.Fatalf("Next %#q: unexpected error: %v", test.input, err)
		}
		got, err := s.Unescape([]byte("pre:"))
		if err != nil {
			t.Errorf("Unescape %#q: unexpected error: %v", test.input, err)
		} else if want := "pre:" + test.want; string(got) != want {
			t.Errorf("Unescape %#q: got %#q, want %#q", test.input, got, want)
		}
	}

	s := jinto.NewScanner(strings.NewReader(`true`))
	if err := s.Next(); err != nil {
		t.Fatalf("Next: unexpected error: %v", err)
	}
	if got, err := s.Unescape(nil); err == nil {
		t.Errorf("Unescape(true): got %#q, want error", got)
	}
}

func TestScannerLocation(t *testing.T) {
	type tokPos struct {
		Tok jinto.Token
		Loc string
	}
	tests := []struct {
		input string
		want  []tokPos
	}{
		{"", nil},
		{`"foo" // bar`, []tokPos{{jinto.String, "1:0-5"}, {jinto.Comment, "1:6-12"}}},
		{"/* ok */\ntrue\n false\n", []tokPos{
			{jinto.Comment, "1:0-8"}, {jinto.True, "2:0-4"}, {jinto.False, "3:1-6"},
		}},
		{"/* ok\n*/\n null", []tokPos{{jinto.Comment, "1:0-2:2"}, {jinto.Null, "3:1-5"}}},
		{"// first\n[1,\n /* x **/ 2\n]", []tokPos{
			{jinto.Comment, "1:0-2:0"}, {jinto.LSquare, "2:0-1"}, {jinto.Number, "2:1-2"},
			{jinto.Comma, "2:2-3"}, {jinto.Comment, "3:1-9"}, {jinto.Number, "3:10-11"},
			{jinto.RSquare, "4:0-1"},
		}},
	}
	for _, test := range tests {
		s := jinto.NewScanner(strings.NewReader(test.input))
		s.AllowComments(true)
		var got []tokPos
		for s.Next() == nil {
			got = append(got, tokPos{s.Token(), s.Location().String()})
		}
		if err := s.Err(); err != io.EOF {
			t.Errorf("Scan %#q: got error %v, want EOF", test.input, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Scan %#q: locations (-want, +got):\n%s", test.input, diff)
		}
	}

	s := jinto.NewScanner(strings.NewReader("  true"))
	if err := s.Next(); err != nil {
		t.Fatalf("Next: unexpected error: %v", err)
	}
	if got, want := s.Span(), (jinto.Span{Pos: 2, End: 6}); got != want {
		t.Errorf("Span: got %+v, want %+v", got, want)
	}
	if got := (jinto.Location{First: jinto.LineCol{Line: 1, Column: 3}, Last: jinto.LineCol{Line: 1, Column: 3}}).String(); got != "1:3" {
		t.Errorf("Empty location: got %q, want 1:3", got)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\x00\x01\x02", `"\u0000\u0001\u0002"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{`\ufffd`, `"\\ufffd"`},
		{"\u2028 \u2029 \xff", `"\u2028 \u2029 \ufffd"`},
		{"\U0001f600", "\"\U0001f600\""},
		{"This is the end\v", `"This is the end\u000b"`},
		{"<\x1e>", `"<\u001e>"`},
	}
	for _, test := range tests {
		got := jinto.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},                        // missing quotes
		{`"missing quote`, ``, true},          // missing quotes
		{`missing quote"`, ``, true},          // missing quotes
		{`""`, ``, false},                     // ok
		{`"ok go"`, "ok go", false},           // ok
		{`"abc\ndef"`, "abc\ndef", false},     // C escapes
		{`"\tabc\n"`, "\tabc\n", false},       // C escapes
		{`"\b\f\n\r\t"`, "\b\f\n\r\t", false}, // C escapes
		{`"a \u0026 b"`, "a & b", false},      // short Unicode escape
		{`"\u"`, ``, true},                    // incomplete Unicode escape
		{`"\u00"`, ``, true},                  // incomplete Unicode escape
		{`"\u00x9"`, "\ufffd", false},         // invalid Unicode escape
		{`"\u019 "`, "\ufffd", false},         // invalid Unicode escape
		{`"a\"b"`, `a"b`, false},              // ok
		{`"a\\b\\cd"`, `a\b\cd`, false},       // ok
	}

	for _, test := range tests {
		got, err := jinto.Unquote(test.input)
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if err == nil && test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if cmp := string(got); cmp != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, cmp, test.want)
		}
	}
}
