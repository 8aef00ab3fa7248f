// Package marshal converts typed records to and from wire.FieldMap using
// explicit per-type field tables. A Schema is built once (normally in a
// package-level var) and lists, for every transmittable member, its wire
// name, wire kind and an accessor pair. Nothing is discovered at runtime.
//
// Collection-typed members are deliberately unsupported; calls that carry
// lists build their params by hand.
package marshal

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/pkg/wire"
)

// Field describes one transmittable member of T.
type Field[T any] struct {
	Name string
	Kind wire.Kind
	get  func(*T) wire.Value
	set  func(*T, wire.Value) bool
}

// Schema is the field table for record type T.
type Schema[T any] struct {
	name   string
	fields []Field[T]
	index  map[string]int
}

// NewSchema builds a schema. It panics on an empty or duplicated field name,
// which is a programming error caught at init.
func NewSchema[T any](name string, fields ...Field[T]) *Schema[T] {
	s := &Schema[T]{
		name:   name,
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			panic(fmt.Sprintf("marshal: schema %s: field %d has no name", name, i))
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("marshal: schema %s: duplicate field %q", name, f.Name))
		}
		s.index[f.Name] = i
	}
	return s
}

// Name returns the schema's record name, used in diagnostics.
func (s *Schema[T]) Name() string { return s.name }

// Fields returns the wire names in declaration order.
func (s *Schema[T]) Fields() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Serialize emits one field per table entry, in table order.
func (s *Schema[T]) Serialize(rec *T) wire.FieldMap {
	var m wire.FieldMap
	for _, f := range s.fields {
		m.Set(f.Name, f.get(rec))
	}
	return m
}

// Deserialize overwrites the members of target whose names appear in m.
// Members absent from m are left untouched and unknown keys are ignored.
// A value of the wrong shape is skipped rather than failing the whole
// record; its name is returned in skipped and a diagnostic is logged so
// version skew with the remote service stays observable.
func (s *Schema[T]) Deserialize(m wire.FieldMap, target *T) (skipped []string) {
	m.Range(func(name string, v wire.Value) bool {
		i, ok := s.index[name]
		if !ok {
			return true
		}
		f := s.fields[i]
		if !f.set(target, v) {
			skipped = append(skipped, name)
			log.Debug().
				Str("record", s.name).
				Str("field", name).
				Str("want", f.Kind.String()).
				Str("got", v.Kind().String()).
				Msg("skipping mismatched field")
		}
		return true
	})
	return skipped
}

// ── Field constructors ───────────────────────────────────────

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type float interface {
	~float32 | ~float64
}

// String maps a string member.
func String[T any](name string, p func(*T) *string) Field[T] {
	return Field[T]{
		Name: name,
		Kind: wire.KindString,
		get:  func(r *T) wire.Value { return wire.String(*p(r)) },
		set: func(r *T, v wire.Value) bool {
			s, ok := v.AsString()
			if ok {
				*p(r) = s
			}
			return ok
		},
	}
}

// Bool maps a boolean member.
func Bool[T any](name string, p func(*T) *bool) Field[T] {
	return Field[T]{
		Name: name,
		Kind: wire.KindBool,
		get:  func(r *T) wire.Value { return wire.Bool(*p(r)) },
		set: func(r *T, v wire.Value) bool {
			b, ok := v.AsBool()
			if ok {
				*p(r) = b
			}
			return ok
		},
	}
}

// Int maps any integer member. Values that do not fit the member's type are
// treated as mismatches.
func Int[T any, N integer](name string, p func(*T) *N) Field[T] {
	return Field[T]{
		Name: name,
		Kind: wire.KindInt,
		get:  func(r *T) wire.Value { return wire.Int(int64(*p(r))) },
		set: func(r *T, v wire.Value) bool {
			i, ok := v.AsInt()
			if !ok {
				return false
			}
			n := N(i)
			if int64(n) != i || (i < 0) != (n < 0) {
				return false
			}
			*p(r) = n
			return true
		},
	}
}

// Float maps a floating-point member.
func Float[T any, F float](name string, p func(*T) *F) Field[T] {
	return Field[T]{
		Name: name,
		Kind: wire.KindFloat,
		get:  func(r *T) wire.Value { return wire.Float(float64(*p(r))) },
		set: func(r *T, v wire.Value) bool {
			f, ok := v.AsFloat()
			if ok {
				*p(r) = F(f)
			}
			return ok
		},
	}
}

// UUID maps an identifier member. It is sent in canonical string form and
// accepted back from either a string or a native identifier value.
func UUID[T any](name string, p func(*T) *uuid.UUID) Field[T] {
	return Field[T]{
		Name: name,
		Kind: wire.KindUUID,
		get:  func(r *T) wire.Value { return wire.String(p(r).String()) },
		set: func(r *T, v wire.Value) bool {
			u, ok := v.AsUUID()
			if ok {
				*p(r) = u
			}
			return ok
		},
	}
}

// Text maps a member with a custom textual wire layout, such as a vector sent
// as "X,Y,Z". format and parse must be inverses.
func Text[T any, V any](name string, p func(*T) *V, format func(V) string, parse func(string) (V, error)) Field[T] {
	return Field[T]{
		Name: name,
		Kind: wire.KindString,
		get:  func(r *T) wire.Value { return wire.String(format(*p(r))) },
		set: func(r *T, v wire.Value) bool {
			if v.Kind() != wire.KindString {
				return false
			}
			s, _ := v.AsString()
			parsed, err := parse(s)
			if err != nil {
				return false
			}
			*p(r) = parsed
			return true
		},
	}
}
