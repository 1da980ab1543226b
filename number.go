// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"bytes"
	"fmt"
	"strconv"
)

// NumberEvent classifies the raw text of a JSON number and returns the event
// that reports it. Integers that fit in an int64 are reported as Int64, larger
// non-negative integers that fit in a uint64 as Uint64, and everything else as
// Double. The Text field of the result is raw.
func NumberEvent(raw []byte) (Event, error) {
	if len(raw) == 0 {
		return Event{}, fmt.Errorf("empty number")
	}
	return classifyNumber(raw, bytes.IndexAny(raw, ".eE") < 0)
}

// classifyNumber reports the event for raw. If integral is false, raw has a
// fraction or exponent and is always reported as a Double.
func classifyNumber(raw []byte, integral bool) (Event, error) {
	if integral {
		if v, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return Event{Kind: EvInt64, Int: v, Text: raw}, nil
		}
		if raw[0] != '-' {
			if u, err := strconv.ParseUint(string(raw), 10, 64); err == nil {
				return Event{Kind: EvUint64, Uint: u, Text: raw}, nil
			}
		}
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return Event{}, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return Event{Kind: EvDouble, Float: f, Text: raw}, nil
}

// SendNumber classifies raw as NumberEvent does and delivers the result to s.
func SendNumber(s Sink, raw []byte) error {
	ev, err := NumberEvent(raw)
	if err != nil {
		return err
	}
	return ev.Send(s)
}
