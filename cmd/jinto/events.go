// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"

	"github.com/creachadair/jinto"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newEventsCmd(st *settings) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "events <file>",
		Short: "Print the parse events for a file",
		Long: `Print the events a source delivers for the contents of a file, one per line.

If the input is not valid, the events delivered before the error are printed,
followed by the error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := st.openSource(args[0])
			if err != nil {
				return err
			}
			var rec jinto.Recorder
			perr := src.Parse(&rec)
			if err := writeEvents(cmd.OutOrStdout(), rec.Events, asJSON); err != nil {
				return err
			}
			if perr != nil {
				return fmt.Errorf("parse %s: %w", args[0], perr)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print events as JSON objects")
	return cmd
}

// eventRecord is the JSON encoding of an event.
type eventRecord struct {
	Event string `json:"event"`
	Text  string `json:"text,omitempty"`
	N     int    `json:"n,omitempty"`
	Value any    `json:"value,omitempty"`
}

func newEventRecord(e jinto.Event) eventRecord {
	r := eventRecord{Event: e.Kind.String(), Text: string(e.Text), N: e.N}
	switch e.Kind {
	case jinto.EvInt64:
		r.Value = e.Int
	case jinto.EvUint64:
		r.Value = e.Uint
	case jinto.EvDouble:
		r.Value = e.Float
	case jinto.EvBool:
		r.Value = e.Bool
	}
	return r
}

func writeEvents(w io.Writer, evs []jinto.Event, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, e := range evs {
			if err := enc.Encode(newEventRecord(e)); err != nil {
				return err
			}
		}
		return nil
	}
	for _, e := range evs {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return err
		}
	}
	return nil
}
