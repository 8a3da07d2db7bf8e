package interchange

// Cloner allows types to provide deep copy logic.
//
// The Clone method must return a deep copy where modifications to the clone
// do not affect the original value. Value and *Mapping implement it so that a
// document can hand out its content without exposing internal state.
type Cloner[T any] interface {
	Clone() T
}

var (
	_ Cloner[Value]    = Value{}
	_ Cloner[*Mapping] = (*Mapping)(nil)
)

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.Clone()
		}
		return Value{kind: KindSequence, seq: items}
	case KindMapping:
		return Value{kind: KindMapping, m: v.m.Clone()}
	default:
		return v
	}
}

// Clone returns a deep copy of m.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return NewMapping()
	}
	out := &Mapping{
		keys:   make([]string, len(m.keys)),
		values: make([]Value, len(m.values)),
		index:  make(map[string]int, len(m.keys)),
	}
	copy(out.keys, m.keys)
	for i, v := range m.values {
		out.values[i] = v.Clone()
	}
	for k, i := range m.index {
		out.index[k] = i
	}
	return out
}
