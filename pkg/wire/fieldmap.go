package wire

// FieldMap is an ordered mapping from field name to Value. Names are unique;
// setting an existing name replaces its value in place. The zero FieldMap is
// empty and ready to use.
type FieldMap struct {
	keys []string
	vals map[string]Value
}

// Fields builds a FieldMap from the given pairs in order.
func Fields(pairs ...Field) FieldMap {
	var m FieldMap
	for _, p := range pairs {
		m.Set(p.Name, p.Value)
	}
	return m
}

// Field is a single name/value pair, used to build maps literally.
type Field struct {
	Name  string
	Value Value
}

// Set stores v under name.
func (m *FieldMap) Set(name string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.vals[name] = v
}

// Get returns the value stored under name.
func (m FieldMap) Get(name string) (Value, bool) {
	v, ok := m.vals[name]
	return v, ok
}

// Has reports whether name is present.
func (m FieldMap) Has(name string) bool {
	_, ok := m.vals[name]
	return ok
}

// Delete removes name, preserving the order of the remaining fields.
func (m *FieldMap) Delete(name string) {
	if _, ok := m.vals[name]; !ok {
		return
	}
	delete(m.vals, name)
	for i, k := range m.keys {
		if k == name {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (m FieldMap) Len() int { return len(m.keys) }

// Keys returns the field names in order.
func (m FieldMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each field in order until fn returns false.
func (m FieldMap) Range(fn func(name string, v Value) bool) {
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy of m.
func (m FieldMap) Clone() FieldMap {
	var out FieldMap
	for _, k := range m.keys {
		out.Set(k, m.vals[k].Clone())
	}
	return out
}

// Equal reports whether both maps hold the same fields in the same order.
func (m FieldMap) Equal(o FieldMap) bool {
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k || !m.vals[k].Equal(o.vals[k]) {
			return false
		}
	}
	return true
}

func (m FieldMap) String() string { return Map(m).String() }
