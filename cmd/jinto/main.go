// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jinto inspects the parse events of JSON and YAML files, and decodes
// them into types described by a schema.
//
// Usage:
//
//	jinto events [flags] <file>
//	jinto check --schema <schema.yaml> [flags] <file>
//
// Settings may also be read from a YAML file given by --config. Flags given
// on the command line override the values from the file.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
