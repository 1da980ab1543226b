// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jinto decodes JSON directly into Go values, from a stream of parse
// events, without building an intermediate tree.
//
// # Sources and Sinks
//
// A Source delivers the structure of a document as a sequence of calls to the
// methods of a Sink. The Stream type is a Source that parses JSON text from
// an io.Reader:
//
//	s := jinto.NewStream(input)
//	if err := s.Parse(sink); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// The Sink methods correspond to the syntax of JSON values:
//
//	JSON type  | Methods                      | Description
//	---------- | ---------------------------- | ------------------------------
//	document   | DocumentBegin, DocumentEnd   | one top-level value
//	object     | ObjectBegin, ObjectEnd       | { ... }
//	key        | KeyPart, Key                 | "key":
//	array      | ArrayBegin, ArrayEnd         | [ ... ]
//	string     | StringPart, String           | "text"
//	number     | NumberPart, Int64, Uint64,   | 1, -2, 3.5e9
//	           | Double                       |
//	constant   | Bool, Null                   | true, false, null
//	comment    | CommentPart, Comment         | /* ... */, // ...
//
// The packages under source/ provide other sources: gojsonsource (the
// go-json token decoder, optionally accepting HuJSON), yamlsource (YAML via
// yaml.v3), and gjsonsource (JSON held in memory, via gjson).
//
// Long text may be delivered in pieces, as zero or more Part calls followed
// by one final call. Text passed to a Sink method is only valid for the
// duration of that call.
//
// # Binding
//
// A Binder is a Sink that writes the values it receives into a Go value whose
// type has a shape (see package shape). The binder checks each event against
// the shape as it arrives, and reports the first mismatch as an *Error whose
// Kind classifies the failure:
//
//	var v struct {
//	   Name string   `json:"name"`
//	   Tags []string `json:"tags"`
//	}
//	if err := jinto.Unmarshal(data, &v, nil); errors.Is(err, jinto.UnknownName) {
//	   log.Print("Unexpected field")
//	}
//
// To decode from any Source, construct a Binder directly, or use DecodeFrom.
// After the source finishes, Finish reports whether a complete value was
// received.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and returns nil, or reports an error:
//
//	s := jinto.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// For a Number token, the Number method reports its value as an Event,
// classified the same way as NumberEvent.
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
package jinto
