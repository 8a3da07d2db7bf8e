package querystring

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/interchange"
)

func TestFormat(t *testing.T) {
	c := New()
	if c.Format() != interchange.FormatQueryString {
		t.Errorf("Format() = %q, want %q", c.Format(), interchange.FormatQueryString)
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"flat", "a=1&b=2", `{"a":"1","b":"2"}`},
		{"nested", "a[b][c]=1&a[b][d]=2", `{"a":{"b":{"c":"1","d":"2"}}}`},
		{"push", "a[]=1&a[]=2", `{"a":["1","2"]}`},
		{"repeated key", "a=1&a=2", `{"a":["1","2"]}`},
		{"sparse indices", "a[1]=b&a[3]=c", `{"a":["b","c"]}`},
		{"index over limit", "a[21]=x", `{"a":{"21":"x"}}`},
		{"mixed list and object", "a[]=1&a[x]=2", `{"a":{"0":"1","x":"2"}}`},
		{"decoding", "q=hello+world&e=%E4%BD%A0&bad=%zz", `{"q":"hello world","e":"你","bad":"%zz"}`},
		{"encoded brackets", "a%5Bb%5D=1", `{"a":{"b":"1"}}`},
		{"depth limit", "a[b][c][d][e][f][g][h]=1", `{"a":{"b":{"c":{"d":{"e":{"f":{"[g][h]":"1"}}}}}}}`},
		{"no value", "flag&x=", `{"flag":"","x":""}`},
		{"leading question mark", "?x=1", `{"x":"1"}`},
		{"empty", "", `{}`},
		{"list of objects", "u[0][n]=a&u[1][n]=b", `{"u":[{"n":"a"},{"n":"b"}]}`},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := c.Unmarshal([]byte(tt.input))
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if got := v.String(); got != tt.expect {
				t.Errorf("Unmarshal(%q) = %s, want %s", tt.input, got, tt.expect)
			}
		})
	}
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"a", []string{"a"}},
		{"a[b][]", []string{"a", "[b]", "[]"}},
		{"[x]", []string{"[x]"}},
		{"a[b", []string{"a[b"}},
	}

	for _, tt := range tests {
		if got := splitKey(tt.key); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestMarshal(t *testing.T) {
	inner := interchange.NewMapping()
	inner.Set("b", interchange.Sequence(interchange.String("x y"), interchange.String("~")))

	m := interchange.NewMapping()
	m.Set("a", interchange.Map(inner))
	m.Set("n", interchange.Null())
	m.Set("e", interchange.Sequence())
	m.Set("f", interchange.Float(1.5))
	m.Set("u", interchange.String("你"))

	data, err := New().Marshal(interchange.Map(m))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := "a%5Bb%5D%5B0%5D=x%20y&a%5Bb%5D%5B1%5D=~&n=&f=1.5&u=%E4%BD%A0"
	if string(data) != want {
		t.Errorf("Marshal() = %q, want %q", data, want)
	}
}

func TestMarshal_Scalar(t *testing.T) {
	_, err := New().Marshal(interchange.Bool(true))
	if !errors.Is(err, interchange.ErrUnsupportedShape) {
		t.Errorf("Marshal(bool) error = %v, want ErrUnsupportedShape", err)
	}
}

func TestRoundTrip(t *testing.T) {
	c := New()
	input := "user[name]=a%20b&user[tags][]=x&user[tags][]=y&page=2"

	v, err := c.Unmarshal([]byte(input))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	data, err := c.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	restored, err := c.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !interchange.Equal(v, restored) {
		t.Errorf("round-trip = %s, want %s", restored, v)
	}
}
