// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/creachadair/jinto/ast"
	"github.com/creachadair/jinto/shape"
	"github.com/google/uuid"
)

var namedTypes = map[string]reflect.Type{
	"int":     reflect.TypeFor[int](),
	"int8":    reflect.TypeFor[int8](),
	"int16":   reflect.TypeFor[int16](),
	"int32":   reflect.TypeFor[int32](),
	"int64":   reflect.TypeFor[int64](),
	"uint":    reflect.TypeFor[uint](),
	"uint8":   reflect.TypeFor[uint8](),
	"uint16":  reflect.TypeFor[uint16](),
	"uint32":  reflect.TypeFor[uint32](),
	"uint64":  reflect.TypeFor[uint64](),
	"float32": reflect.TypeFor[float32](),
	"float64": reflect.TypeFor[float64](),
	"string":  reflect.TypeFor[string](),
	"bool":    reflect.TypeFor[bool](),
	"null":    reflect.TypeFor[shape.NullValue](),
	"uuid":    reflect.TypeFor[uuid.UUID](),
	"time":    reflect.TypeFor[time.Time](),
}

// schemaType returns the type described by a schema value. A string is a
// type expression, an object describes a record whose fields are named by
// its keys, and an array of one element is a sequence.
func schemaType(v ast.Value) (reflect.Type, error) {
	switch t := v.(type) {
	case ast.String:
		return parseTypeExpr(string(t))
	case ast.Object:
		return recordType(t)
	case ast.Array:
		if len(t) != 1 {
			return nil, fmt.Errorf("sequence schema has %d elements, want 1", len(t))
		}
		elem, err := schemaType(t[0])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	default:
		return nil, fmt.Errorf("invalid schema %s", v.JSON())
	}
}

func recordType(obj ast.Object) (reflect.Type, error) {
	fields := make([]reflect.StructField, len(obj))
	for i, m := range obj {
		ft, err := schemaType(m.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", m.Key, err)
		}
		fields[i] = reflect.StructField{
			Name: "F" + strconv.Itoa(i),
			Type: ft,
			Tag:  reflect.StructTag(`json:` + strconv.Quote(m.Key)),
		}
	}
	return reflect.StructOf(fields), nil
}

// tupleType returns a struct type embedding shape.AsTuple with one field for
// each of elems.
func tupleType(elems []reflect.Type) reflect.Type {
	fields := []reflect.StructField{{
		Name:      "AsTuple",
		Type:      reflect.TypeFor[shape.AsTuple](),
		Anonymous: true,
	}}
	for i, et := range elems {
		fields = append(fields, reflect.StructField{
			Name: "F" + strconv.Itoa(i),
			Type: et,
			Tag:  reflect.StructTag(`json:"` + strconv.Itoa(i) + `"`),
		})
	}
	return reflect.StructOf(fields)
}

// parseTypeExpr parses a type expression and returns the type it denotes.
func parseTypeExpr(s string) (reflect.Type, error) {
	p := &typeParser{input: s}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.skipSpace(); p.pos < len(p.input) {
		return nil, p.errorf("unexpected %q", p.input[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) errorf(msg string, args ...any) error {
	return fmt.Errorf("type %q at offset %d: %s", p.input, p.pos, fmt.Sprintf(msg, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// next returns the next non-space byte of the input without consuming it, or
// 0 at the end of input.
func (p *typeParser) next() byte {
	p.skipSpace()
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *typeParser) expect(c byte) error {
	if p.next() != c {
		return p.errorf("missing %q", c)
	}
	p.pos++
	return nil
}

func (p *typeParser) span(ok func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.input) && ok(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWord(c byte) bool { return isDigit(c) || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func (p *typeParser) parse() (reflect.Type, error) {
	switch c := p.next(); c {
	case 0:
		return nil, p.errorf("missing type")

	case '?':
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil

	case '[':
		p.pos++
		p.skipSpace()
		if digits := p.span(isDigit); digits != "" {
			n, err := strconv.Atoi(digits)
			if err != nil {
				return nil, p.errorf("invalid length %q", digits)
			} else if err := p.expect(']'); err != nil {
				return nil, err
			}
			elem, err := p.parse()
			if err != nil {
				return nil, err
			}
			return reflect.ArrayOf(n, elem), nil
		}
		elem, err := p.parse()
		if err != nil {
			return nil, err
		} else if err := p.expect(']'); err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil

	case '{':
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		} else if err := p.expect('}'); err != nil {
			return nil, err
		}
		return reflect.MapOf(namedTypes["string"], elem), nil

	case '(':
		p.pos++
		var elems []reflect.Type
		for {
			elem, err := p.parse()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if p.next() != ',' {
				break
			}
			p.pos++
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return tupleType(elems), nil

	default:
		name := p.span(isWord)
		if name == "" {
			return nil, p.errorf("unexpected %q", c)
		}
		t, ok := namedTypes[name]
		if !ok {
			p.pos -= len(name)
			return nil, p.errorf("unknown type %q", name)
		}
		return t, nil
	}
}
