// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decoding failure. Each ErrorKind is itself an error,
// so that a decoding error can be tested with errors.Is:
//
//	if errors.Is(err, jinto.NotExact) { ... }
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	NotInteger   ErrorKind = iota + 1 // expected an integer
	NotDouble                         // expected a number
	NotString                         // expected a string
	NotBool                           // expected true or false
	NotNull                           // expected null
	NotArray                          // expected an array
	NotObject                         // expected an object
	NotExact                          // integer out of range for the target
	UnknownName                       // enum name or record field not found
	SizeMismatch                      // tuple has the wrong number of elements
	ExtraData                         // content after the document value
	InvalidText                       // text rejected by an UnmarshalText method
)

var errorKindStr = [...]string{
	0:            "unknown error",
	NotInteger:   "not_integer",
	NotDouble:    "not_double",
	NotString:    "not_string",
	NotBool:      "not_bool",
	NotNull:      "not_null",
	NotArray:     "not_array",
	NotObject:    "not_object",
	NotExact:     "not_exact",
	UnknownName:  "unknown_name",
	SizeMismatch: "size_mismatch",
	ExtraData:    "extra_data",
	InvalidText:  "invalid_text",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStr) {
		return errorKindStr[0]
	}
	return errorKindStr[k]
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string { return k.String() }

// ErrIncomplete is reported when a source finishes before a complete value
// has been decoded.
var ErrIncomplete = errors.New("incomplete value")

// Error is the concrete type of errors reported by a Binder.
type Error struct {
	Kind  ErrorKind // the classification of the failure
	Event EventKind // the event that triggered the failure
	Name  string    // for UnknownName, the name that was not found

	err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s at %v", e.Kind, e.Event)
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

// Is reports whether target is the ErrorKind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.err }

func fail(kind ErrorKind, ev *Event) error {
	return &Error{Kind: kind, Event: ev.Kind}
}
