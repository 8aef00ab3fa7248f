// Package wire defines the value model exchanged with the remote profile
// service: a closed tagged union (Value) and an ordered field map (FieldMap).
//
// Everything sent as JSON-RPC params or received as a result is expressed
// with these two types, so callers never touch encoding/json shapes directly.
package wire

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Kind identifies which member of the union a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindInt
	KindFloat
	KindUUID
	KindMap
	KindList
)

var kindNames = [...]string{
	KindNull:   "null",
	KindString: "string",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindUUID:   "uuid",
	KindMap:    "map",
	KindList:   "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a single wire value. The zero Value is null.
//
// Map and list payloads share storage with the value they were built from;
// treat them as read-only or Clone before mutating.
type Value struct {
	kind Kind
	s    string
	b    bool
	i    int64
	f    float64
	u    uuid.UUID
	m    FieldMap
	l    []Value
}

// ── Constructors ─────────────────────────────────────────────

func Null() Value               { return Value{} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func UUID(u uuid.UUID) Value    { return Value{kind: KindUUID, u: u} }
func Map(m FieldMap) Value      { return Value{kind: KindMap, m: m} }
func List(items ...Value) Value { return Value{kind: KindList, l: items} }

// Kind reports which member the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// ── Accessors ────────────────────────────────────────────────
//
// Accessors are tolerant of the representations JSON forces on us: a UUID
// arrives as a string, a float may arrive as an integer literal. They never
// coerce across unrelated kinds (a string is never a number).

// AsString returns the string form of a string or UUID value.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindUUID:
		return v.u.String(), true
	}
	return "", false
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// AsInt returns v as an integer. Floats are accepted only when integral and
// inside [-2^63, 2^63); float64(math.MaxInt64) rounds up to 2^63.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < math.MaxInt64 {
			return int64(v.f), true
		}
	}
	return 0, false
}

// AsFloat returns v as a float. Integers are widened.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsUUID returns v as an identifier, parsing the canonical string form.
func (v Value) AsUUID() (uuid.UUID, bool) {
	switch v.kind {
	case KindUUID:
		return v.u, true
	case KindString:
		u, err := uuid.Parse(v.s)
		if err != nil {
			return uuid.Nil, false
		}
		return u, true
	}
	return uuid.Nil, false
}

// AsMap returns the field map held by v.
func (v Value) AsMap() (FieldMap, bool) {
	if v.kind == KindMap {
		return v.m, true
	}
	return FieldMap{}, false
}

// AsList returns the items held by v.
func (v Value) AsList() ([]Value, bool) {
	if v.kind == KindList {
		return v.l, true
	}
	return nil, false
}

// Equal reports deep equality. A UUID and its canonical string are not equal;
// use the accessors when comparing across representations.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindUUID:
		return v.u == o.u
	case KindMap:
		return v.m.Equal(o.m)
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMap:
		return Map(v.m.Clone())
	case KindList:
		items := make([]Value, len(v.l))
		for i, it := range v.l {
			items[i] = it.Clone()
		}
		return List(items...)
	}
	return v
}

func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(b)
}
