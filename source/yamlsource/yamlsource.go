// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package yamlsource implements a jinto.Source that delivers YAML documents
// as events, using the node tree from gopkg.in/yaml.v3.
//
// Mappings are reported as objects and sequences as arrays. Scalars are
// reported according to their resolved tag: null, bool, int, and float
// scalars become the corresponding events, and all other scalars are
// delivered as strings. Aliases are followed, and merge keys ("<<") splice
// the members of the merged mappings in place. Comments attached to nodes
// are delivered as Comment events.
//
// The first document in the input is the value. Any further documents are
// delivered to the sink, which is expected to reject them.
package yamlsource

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jinto"
	"gopkg.in/yaml.v3"
)

// Source delivers the YAML documents from a reader as events.
type Source struct {
	r        io.Reader
	maxDepth int
}

// New constructs a Source that reads from r.
func New(r io.Reader) *Source { return &Source{r: r, maxDepth: jinto.DefaultMaxDepth} }

// SetMaxDepth sets the maximum nesting depth of mappings, sequences, and
// aliases. If n <= 0, jinto.DefaultMaxDepth is used.
func (s *Source) SetMaxDepth(n int) {
	if n <= 0 {
		n = jinto.DefaultMaxDepth
	}
	s.maxDepth = n
}

// Parse delivers the events for the input to sink. It implements the
// jinto.Source interface.
func (s *Source) Parse(sink jinto.Sink) error {
	dec := yaml.NewDecoder(s.r)
	if err := sink.DocumentBegin(); err != nil {
		return err
	}
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); errors.Is(err, io.EOF) {
			return sink.DocumentEnd()
		} else if err != nil {
			return err
		}
		w := walker{sink: sink, maxDepth: s.maxDepth}
		if err := w.walk(&doc, 0); err != nil {
			return err
		}
	}
}

type walker struct {
	sink     jinto.Sink
	maxDepth int
}

func (w walker) comment(text string) error {
	if text == "" {
		return nil
	}
	return w.sink.Comment([]byte(text))
}

func (w walker) walk(n *yaml.Node, depth int) error {
	if depth > w.maxDepth {
		return fmt.Errorf("line %d: exceeded maximum depth %d", n.Line, w.maxDepth)
	}
	if err := w.comment(n.HeadComment); err != nil {
		return err
	}
	if err := w.node(n, depth); err != nil {
		return err
	}
	if err := w.comment(n.LineComment); err != nil {
		return err
	}
	return w.comment(n.FootComment)
}

func (w walker) node(n *yaml.Node, depth int) error {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := w.walk(c, depth); err != nil {
				return err
			}
		}
		return nil

	case yaml.MappingNode:
		if err := w.sink.ObjectBegin(); err != nil {
			return err
		}
		nm, err := w.members(n, depth+1)
		if err != nil {
			return err
		}
		return w.sink.ObjectEnd(nm)

	case yaml.SequenceNode:
		if err := w.sink.ArrayBegin(); err != nil {
			return err
		}
		for _, c := range n.Content {
			if err := w.walk(c, depth+1); err != nil {
				return err
			}
		}
		return w.sink.ArrayEnd(len(n.Content))

	case yaml.ScalarNode:
		return w.scalar(n)

	case yaml.AliasNode:
		if n.Alias == nil {
			return fmt.Errorf("line %d: unresolved alias %q", n.Line, n.Value)
		}
		return w.walk(n.Alias, depth+1)

	default:
		return fmt.Errorf("line %d: unknown node kind %v", n.Line, n.Kind)
	}
}

// members delivers the key-value pairs of mapping node n, and returns the
// number of members delivered.
func (w walker) members(n *yaml.Node, depth int) (int, error) {
	if depth > w.maxDepth {
		return 0, fmt.Errorf("line %d: exceeded maximum depth %d", n.Line, w.maxDepth)
	}
	var nm int
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := resolve(n.Content[i]), n.Content[i+1]
		if key.ShortTag() == "!!merge" {
			m, err := w.merge(val, depth)
			if err != nil {
				return 0, err
			}
			nm += m
			continue
		}
		if key.Kind != yaml.ScalarNode {
			return 0, fmt.Errorf("line %d: unsupported mapping key", key.Line)
		}
		if err := w.comment(key.HeadComment); err != nil {
			return 0, err
		} else if err := w.sink.Key([]byte(key.Value), len(key.Value)); err != nil {
			return 0, err
		} else if err := w.comment(key.LineComment); err != nil {
			return 0, err
		} else if err := w.walk(val, depth); err != nil {
			return 0, err
		}
		nm++
	}
	return nm, nil
}

// merge delivers the members of the mapping, or sequence of mappings, that
// is the value of a merge key.
func (w walker) merge(val *yaml.Node, depth int) (int, error) {
	val = resolve(val)
	switch val.Kind {
	case yaml.MappingNode:
		return w.members(val, depth+1)
	case yaml.SequenceNode:
		var nm int
		for _, c := range val.Content {
			c = resolve(c)
			if c.Kind != yaml.MappingNode {
				return 0, fmt.Errorf("line %d: merge of a non-mapping value", c.Line)
			}
			m, err := w.members(c, depth+1)
			if err != nil {
				return 0, err
			}
			nm += m
		}
		return nm, nil
	default:
		return 0, fmt.Errorf("line %d: merge of a non-mapping value", val.Line)
	}
}

func (w walker) scalar(n *yaml.Node) error {
	raw := []byte(n.Value)
	switch n.ShortTag() {
	case "!!null":
		return w.sink.Null()

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		return w.sink.Bool(b)

	case "!!int":
		var z int64
		if err := n.Decode(&z); err == nil {
			return w.sink.Int64(z, raw)
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return w.sink.Uint64(u, raw)
		}
		fallthrough

	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		return w.sink.Double(f, raw)

	default:
		return w.sink.String(raw, len(raw))
	}
}

// resolve returns the target of n if it is an alias, otherwise n itself.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
