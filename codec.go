package interchange

// Codec converts between one textual or binary format and the canonical
// Value model.
type Codec interface {
	// Format returns the format this codec reads and writes.
	Format() Format

	// Marshal encodes v into the codec's format.
	Marshal(v Value) ([]byte, error)

	// Unmarshal decodes data into a Value.
	Unmarshal(data []byte) (Value, error)
}
