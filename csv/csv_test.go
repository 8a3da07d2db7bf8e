package csv

import (
	"errors"
	"testing"

	"github.com/zoobzio/interchange"
)

func TestFormat(t *testing.T) {
	c := New()
	if c.Format() != interchange.FormatCSV {
		t.Errorf("Format() = %q, want %q", c.Format(), interchange.FormatCSV)
	}
}

func TestUnmarshal(t *testing.T) {
	input := "id,name\n1,\"smith, j\"\n2,bob\n"

	tests := []struct {
		name   string
		opts   Options
		expect string
	}{
		{"default", Options{}, `[{"id":"1","name":"smith, j"},{"id":"2","name":"bob"}]`},
		{"row array", Options{Type: RowArray}, `[["id","name"],["1","smith, j"],["2","bob"]]`},
		{"keyed object", Options{Type: KeyedObject, KeyedKey: 1}, `{"smith, j":{"id":"1","name":"smith, j"},"bob":{"id":"2","name":"bob"}}`},
		{"keyed array", Options{Type: KeyedArray}, `{"id":["id","name"],"1":["1","smith, j"],"2":["2","bob"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewWithOptions(tt.opts).Unmarshal([]byte(input))
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if got := v.String(); got != tt.expect {
				t.Errorf("Unmarshal() = %s, want %s", got, tt.expect)
			}
		})
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	if _, err := c.Unmarshal([]byte("a,\"b\nc")); err == nil {
		t.Error("Unmarshal(unterminated quote) should return error")
	}
	if _, err := NewWithOptions(Options{Type: "grid"}).Unmarshal([]byte("a,b")); err == nil {
		t.Error("Unmarshal() with unknown type should return error")
	}
}

func TestMarshal(t *testing.T) {
	a := interchange.NewMapping()
	a.Set("id", interchange.Int(1))
	a.Set("name", interchange.String("smith, j"))
	b := interchange.NewMapping()
	b.Set("id", interchange.Int(2))
	b.Set("tags", interchange.Sequence(interchange.String("x")))
	rows := interchange.Sequence(interchange.Map(a), interchange.Map(b))

	tests := []struct {
		name   string
		opts   Options
		expect string
	}{
		{"default", Options{}, "id,name,tags\n1,\"smith, j\",\n2,,\"[\"\"x\"\"]\""},
		{"quoted", Options{Quoted: true}, "\"id\",\"name\",\"tags\"\n\"1\",\"smith, j\",\"\"\n\"2\",\"\",\"[\"\"x\"\"]\""},
		{"no header", Options{OmitHeader: true}, "1,\"smith, j\",\n2,,\"[\"\"x\"\"]\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewWithOptions(tt.opts).Marshal(rows)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(data) != tt.expect {
				t.Errorf("Marshal() = %q, want %q", data, tt.expect)
			}
		})
	}
}

func TestMarshal_Scalar(t *testing.T) {
	_, err := New().Marshal(interchange.Int(1))
	if !errors.Is(err, interchange.ErrUnsupportedShape) {
		t.Errorf("Marshal(int) error = %v, want ErrUnsupportedShape", err)
	}
}

func TestRoundTrip(t *testing.T) {
	c := New()
	input := "a,b\n1,\"x\"\"y\"\n3,4"

	v, err := c.Unmarshal([]byte(input))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	data, err := c.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != input {
		t.Errorf("round-trip = %q, want %q", data, input)
	}
}
