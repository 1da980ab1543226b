// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/creachadair/jinto"
	"github.com/creachadair/jinto/ast"
	"github.com/creachadair/jinto/ast/cursor"
	"github.com/creachadair/jinto/shape"
	"github.com/creachadair/jinto/source/yamlsource"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newCheckCmd(st *settings) *cobra.Command {
	var schemaPath, at string
	var showShape bool

	cmd := &cobra.Command{
		Use:   "check --schema <schema> <file>",
		Short: "Decode a file into a type described by a schema",
		Long: `Decode the contents of a file into a type described by a YAML schema, and
print the result as JSON.

The schema is a type expression, or a mapping from field names to schemas
describing a record. Type expressions are:

  int int8 int16 int32 int64     signed integers
  uint uint8 uint16 uint32 uint64 unsigned integers
  float32 float64                 floating point
  string bool null                strings, Booleans, and null
  uuid time                       UUIDs and RFC 3339 timestamps
  [T]                             a sequence of T
  [N]T                            exactly N values of type T
  {T}                             a map from string keys to T
  ?T                              an optional T (null or T)
  (T1, T2, ...)                   a tuple of the given types

Type expressions that begin with "[" or "{" must be quoted in YAML. As a
convenience, a YAML sequence with one element [T] is also read as [T].

With --at, the value at the given path within the file is decoded instead of
the whole. A path is a dot-separated list of object keys and array offsets.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaPath == "" {
				return errors.New("a --schema is required")
			}
			t, err := loadSchema(schemaPath)
			if err != nil {
				return fmt.Errorf("load schema: %w", err)
			}
			if showShape {
				s, err := shape.Classify(t)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "shape:", s)
			}

			src, err := st.openSource(args[0])
			if err != nil {
				return err
			}
			v := reflect.New(t)
			if err := decodeAt(src, v.Interface(), st.options(), at); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			out, err := json.MarshalIndent(v.Elem().Interface(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "YAML schema file (required)")
	cmd.Flags().StringVar(&at, "at", "", "Decode the value at this path")
	cmd.Flags().BoolVar(&showShape, "shape", false, "Print the shape of the schema type to stderr")
	return cmd
}

// decodeAt decodes the value at the given path within the document from src
// into dst. If path is empty, the whole document is decoded directly.
func decodeAt(src jinto.Source, dst any, opts *jinto.Options, path string) error {
	if path == "" {
		return jinto.DecodeFrom(src, dst, opts)
	}
	keys, err := cursor.ParsePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	root, err := ast.Build(src)
	if err != nil {
		return err
	}
	return cursor.Decode(root, dst, opts, keys...)
}

// loadSchema reads a schema from the YAML file at path and returns the type
// it describes.
func loadSchema(path string) (reflect.Type, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := ast.Build(yamlsource.New(f))
	if err != nil {
		return nil, err
	}
	return schemaType(v)
}
