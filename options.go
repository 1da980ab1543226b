// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

// DefaultMaxDepth is the nesting limit used by a Stream when none is set.
const DefaultMaxDepth = 10000

// FieldPolicy controls how a record treats an object key that does not name
// one of its fields.
type FieldPolicy byte

const (
	// RejectUnknown reports UnknownName for an unrecognized field.
	RejectUnknown FieldPolicy = iota

	// SkipUnknown discards the value of an unrecognized field.
	SkipUnknown
)

func (p FieldPolicy) String() string {
	switch p {
	case RejectUnknown:
		return "reject"
	case SkipUnknown:
		return "skip"
	default:
		return "invalid"
	}
}

// Options control decoding. A nil *Options is ready for use and selects the
// default for each setting.
type Options struct {
	// Allow comments in the input. This is a non-standard extension.
	AllowComments bool

	// Allow a trailing comma after the last member of an object or the last
	// element of an array. This is a non-standard extension.
	AllowTrailingCommas bool

	// The maximum nesting depth of objects and arrays. If zero, the limit is
	// DefaultMaxDepth.
	MaxDepth int

	// If positive, string, key, comment, and number text longer than this
	// many bytes is delivered to the binder in pieces of at most this size.
	// This is mainly useful for testing.
	ChunkSize int

	// How to treat object keys that are not fields of the target record.
	UnknownFields FieldPolicy
}

func (o *Options) unknownFields() FieldPolicy {
	if o == nil {
		return RejectUnknown
	}
	return o.UnknownFields
}

// configure applies the stream settings of o to s, and returns s.
func (o *Options) configure(s *Stream) *Stream {
	if o == nil {
		return s
	}
	s.AllowComments(o.AllowComments)
	s.AllowTrailingCommas(o.AllowTrailingCommas)
	s.SetMaxDepth(o.MaxDepth)
	s.SetChunkSize(o.ChunkSize)
	return s
}
