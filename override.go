package interchange

// Override interfaces allow types to bypass reflection-based conversion.
// When a type implements ValueMarshaler, FromAny and FromStruct call the
// interface method instead of walking the type with reflection.
//
// This provides two benefits:
// 1. Performance: Avoid reflection overhead for hot paths
// 2. Custom logic: Produce shapes that can't be expressed via struct tags

// ValueMarshaler converts the receiver to a canonical Value.
type ValueMarshaler interface {
	// MarshalValue returns the canonical representation of the receiver.
	MarshalValue() (Value, error)
}

var (
	_ ValueMarshaler = Value{}
	_ ValueMarshaler = (*Mapping)(nil)
)

// MarshalValue implements ValueMarshaler.
func (v Value) MarshalValue() (Value, error) { return v, nil }

// MarshalValue implements ValueMarshaler.
func (m *Mapping) MarshalValue() (Value, error) { return Map(m), nil }
