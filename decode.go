// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"bytes"
	"io"
)

// DecodeFrom decodes the single document delivered by src into the value
// pointed to by v. It reports the first error from the binder or the source.
func DecodeFrom(src Source, v any, opts *Options) error {
	b, err := NewBinder(v, opts)
	if err != nil {
		return err
	}
	if err := src.Parse(b); err != nil {
		return err
	}
	return b.Finish()
}

// Decode decodes the JSON document read from r into the value pointed to by
// v. Content following the document value, other than whitespace and
// permitted comments, is reported as an ExtraData error.
func Decode(r io.Reader, v any, opts *Options) error {
	return DecodeFrom(opts.configure(NewStream(r)), v, opts)
}

// Unmarshal decodes the JSON document in data into the value pointed to by v.
func Unmarshal(data []byte, v any, opts *Options) error {
	return Decode(bytes.NewReader(data), v, opts)
}

// A Decoder decodes a sequence of JSON documents from an input stream, such
// as a stream of newline-delimited JSON values.
type Decoder struct {
	st   *Stream
	opts *Options
}

// NewDecoder constructs a Decoder that reads documents from r.
func NewDecoder(r io.Reader, opts *Options) *Decoder {
	return &Decoder{st: opts.configure(NewStream(r)), opts: opts}
}

// Decode decodes the next document from the input into the value pointed to
// by v. It returns io.EOF when no further documents are available.
func (d *Decoder) Decode(v any) error {
	b, err := NewBinder(v, d.opts)
	if err != nil {
		return err
	}
	if err := d.st.ParseOne(b); err != nil {
		return err
	}
	return b.Finish()
}
