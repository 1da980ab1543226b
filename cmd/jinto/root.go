// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/jinto"
	"github.com/creachadair/jinto/source/gjsonsource"
	"github.com/creachadair/jinto/source/gojsonsource"
	"github.com/creachadair/jinto/source/yamlsource"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// settings are the options shared by all commands. They are set by flags, or
// from the config file.
type settings struct {
	Source         string `json:"source"`
	Select         string `json:"select"`
	ChunkSize      int    `json:"chunk"`
	Comments       bool   `json:"comments"`
	TrailingCommas bool   `json:"trailing_commas"`
	MaxDepth       int    `json:"max_depth"`
	Unknown        string `json:"unknown"`
	Verbose        bool   `json:"verbose"`
}

func newRootCmd() *cobra.Command {
	var configPath string
	st := new(settings)

	cmd := &cobra.Command{
		Use:          "jinto",
		Short:        "Inspect and decode JSON and YAML event streams",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := st.load(configPath, cmd); err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			if _, err := st.policy(); err != nil {
				return err
			}
			if st.Verbose {
				log, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("create logger: %w", err)
				}
				jinto.SetLogger(log.Named("jinto"))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = jinto.Logger().Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML file of default settings")
	pf.BoolVarP(&st.Verbose, "verbose", "v", false, "Log decoding details to stderr")
	pf.StringVar(&st.Source, "source", "",
		"Input source: json, gojson, hujson, yaml, gjson (default by file extension)")
	pf.StringVar(&st.Select, "select", "", "Select a nested value by gjson path (gjson source only)")
	pf.IntVar(&st.ChunkSize, "chunk", 0, "Deliver text in pieces of at most this size (json source only)")
	pf.BoolVar(&st.Comments, "comments", false, "Allow comments in JSON input")
	pf.BoolVar(&st.TrailingCommas, "trailing-commas", false, "Allow trailing commas in JSON input")
	pf.IntVar(&st.MaxDepth, "max-depth", 0, "Maximum nesting depth (0 means the default)")
	pf.StringVar(&st.Unknown, "unknown", "reject", "Policy for unknown record fields: reject, skip")

	cmd.AddCommand(newEventsCmd(st), newCheckCmd(st))
	return cmd
}

// load reads settings from the YAML file at path. Settings whose flags were
// set explicitly are not replaced.
func (s *settings) load(path string, cmd *cobra.Command) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	file := *s
	if err := jinto.DecodeFrom(yamlsource.New(f), &file, nil); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fs := cmd.Flags()
	if !fs.Changed("source") {
		s.Source = file.Source
	}
	if !fs.Changed("select") {
		s.Select = file.Select
	}
	if !fs.Changed("chunk") {
		s.ChunkSize = file.ChunkSize
	}
	if !fs.Changed("comments") {
		s.Comments = file.Comments
	}
	if !fs.Changed("trailing-commas") {
		s.TrailingCommas = file.TrailingCommas
	}
	if !fs.Changed("max-depth") {
		s.MaxDepth = file.MaxDepth
	}
	if !fs.Changed("unknown") {
		s.Unknown = file.Unknown
	}
	if !fs.Changed("verbose") {
		s.Verbose = file.Verbose
	}
	return nil
}

func (s *settings) policy() (jinto.FieldPolicy, error) {
	switch s.Unknown {
	case "", "reject":
		return jinto.RejectUnknown, nil
	case "skip":
		return jinto.SkipUnknown, nil
	default:
		return 0, fmt.Errorf("invalid unknown-field policy %q", s.Unknown)
	}
}

func (s *settings) options() *jinto.Options {
	p, _ := s.policy()
	return &jinto.Options{
		AllowComments:       s.Comments,
		AllowTrailingCommas: s.TrailingCommas,
		MaxDepth:            s.MaxDepth,
		ChunkSize:           s.ChunkSize,
		UnknownFields:       p,
	}
}

// sourceName returns the name of the source to use for the file at path.
func (s *settings) sourceName(path string) string {
	if s.Source != "" {
		return s.Source
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".hujson", ".jwcc":
		return "hujson"
	default:
		return "json"
	}
}

// openSource reads the file at path ("-" for stdin) and returns a source for
// its contents.
func (s *settings) openSource(path string) (jinto.Source, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return s.newSource(s.sourceName(path), data)
}

func (s *settings) newSource(name string, data []byte) (jinto.Source, error) {
	switch name {
	case "json":
		st := jinto.NewStream(bytes.NewReader(data))
		st.AllowComments(s.Comments)
		st.AllowTrailingCommas(s.TrailingCommas)
		st.SetMaxDepth(s.MaxDepth)
		st.SetChunkSize(s.ChunkSize)
		return st, nil
	case "gojson", "hujson":
		src := gojsonsource.New(bytes.NewReader(data))
		src.AllowHuJSON(name == "hujson")
		return src, nil
	case "yaml":
		src := yamlsource.New(bytes.NewReader(data))
		src.SetMaxDepth(s.MaxDepth)
		return src, nil
	case "gjson":
		src := gjsonsource.New(data)
		src.Select(s.Select)
		src.SetMaxDepth(s.MaxDepth)
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}
