package properties

import (
	"errors"
	"testing"

	"github.com/zoobzio/interchange"
)

const sample = `# settings
a=1
b.c : 2
b.d=3
url=${x}
x = hello world
`

func TestFormat(t *testing.T) {
	c := New()
	if c.Format() != interchange.FormatProperties {
		t.Errorf("Format() = %q, want %q", c.Format(), interchange.FormatProperties)
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		expect string
	}{
		{"flat", Options{}, `{"a":"1","b.c":"2","b.d":"3","url":"${x}","x":"hello world"}`},
		{"tree", Options{ConvertToJSONTree: true}, `{"a":"1","b":{"c":"2","d":"3"},"url":"${x}","x":"hello world"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewWithOptions(tt.opts).Unmarshal([]byte(sample))
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if got := v.String(); got != tt.expect {
				t.Errorf("Unmarshal() = %s, want %s", got, tt.expect)
			}
		})
	}
}

func TestUnmarshal_TreeConflicts(t *testing.T) {
	c := NewWithOptions(Options{ConvertToJSONTree: true})

	v, err := c.Unmarshal([]byte("a=1\na.b=2\nc.d=3\nc=4"))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	want := `{"a":"1","a.b":"2","c":{"d":"3","":"4"}}`
	if got := v.String(); got != want {
		t.Errorf("Unmarshal() = %s, want %s", got, want)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	if _, err := New().Unmarshal([]byte(`key=\uZZZZ`)); err == nil {
		t.Error("Unmarshal(invalid escape) should return error")
	}
}

func TestMarshal(t *testing.T) {
	db := interchange.NewMapping()
	db.Set("host", interchange.String("x"))
	db.Set("ports", interchange.Sequence(interchange.Int(1), interchange.Int(2)))

	m := interchange.NewMapping()
	m.Set("db", interchange.Map(db))
	m.Set("name", interchange.String("a b"))

	data, err := New().Marshal(interchange.Map(m))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := "db.host = x\ndb.ports.0 = 1\ndb.ports.1 = 2\nname = a b"
	if string(data) != want {
		t.Errorf("Marshal() = %q, want %q", data, want)
	}
}

func TestMarshal_Scalar(t *testing.T) {
	_, err := New().Marshal(interchange.String("x"))
	if !errors.Is(err, interchange.ErrUnsupportedShape) {
		t.Errorf("Marshal(string) error = %v, want ErrUnsupportedShape", err)
	}
}
