package xml

import (
	"testing"

	"github.com/zoobzio/interchange"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestFormat(t *testing.T) {
	c := New()
	if c.Format() != interchange.FormatXML {
		t.Errorf("Format() = %q, want %q", c.Format(), interchange.FormatXML)
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		input  string
		expect string
	}{
		{
			name:   "text elements",
			input:  `<user><name>alice</name><age>30</age></user>`,
			expect: `{"user":{"name":"alice","age":"30"}}`,
		},
		{
			name:   "repeated siblings",
			input:  `<list><item>a</item><other/><item>b</item><item>c</item></list>`,
			expect: `{"list":{"item":["a","b","c"],"other":""}}`,
		},
		{
			name:   "attributes without prefix",
			input:  `<user id="7" role="admin">alice</user>`,
			expect: `{"user":{"id":"7","role":"admin","#text":"alice"}}`,
		},
		{
			name:   "attributes with prefix",
			opts:   Options{AttributePrefix: "@"},
			input:  `<?xml version="1.0"?><!-- c --><a z="1" b="2"><c>x</c></a>`,
			expect: `{"a":{"@z":"1","@b":"2","c":"x"}}`,
		},
		{
			name:   "custom text key",
			opts:   Options{AttributePrefix: "-", TextKey: "_"},
			input:  `<p lang="en">hi</p>`,
			expect: `{"p":{"-lang":"en","_":"hi"}}`,
		},
		{
			name:   "entities",
			input:  `<q>a &amp; b &lt;c&gt;</q>`,
			expect: `{"q":"a & b <c>"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewWithOptions(tt.opts).Unmarshal([]byte(tt.input))
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

	tests := []struct {
		name  string
		input string
	}{
		{"not xml", "not xml at all {{{"},
		{"empty", ""},
		{"unclosed", "<a><b></b>"},
		{"mismatched", "<a></b>"},
		{"two roots", "<a/><b/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Unmarshal([]byte(tt.input)); err == nil {
				t.Errorf("Unmarshal(%q) should return error", tt.input)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	c := NewWithOptions(Options{AttributePrefix: "@"})

	user := interchange.NewMapping()
	user.Set("@id", interchange.Int(7))
	user.Set("name", interchange.String("alice"))
	user.Set("tag", interchange.Sequence(interchange.String("a"), interchange.String("b")))
	user.Set("none", interchange.Null())

	m := interchange.NewMapping()
	m.Set("user", interchange.Map(user))

	data, err := c.Marshal(interchange.Map(m))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `<user id="7">
  <name>alice</name>
  <tag>a</tag>
  <tag>b</tag>
  <none></none>
</user>`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestMarshal_WrapsRoot(t *testing.T) {
	c := New()

	data, err := c.Marshal(interchange.Sequence(interchange.Int(1), interchange.String("x")))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `<root>
  <item>1</item>
  <item>x</item>
</root>`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestRoundTrip(t *testing.T) {
	c := NewWithOptions(Options{AttributePrefix: "@"})
	input := `<doc v="1"><a>x</a><a>y</a><b><c>z</c></b></doc>`

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

func TestElementName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "name"},
		{"", "item"},
		{"1st", "_st"},
		{"a b", "a_b"},
		{"x-1.y", "x-1.y"},
	}

	for _, tt := range tests {
		if got := elementName(tt.in); got != tt.want {
			t.Errorf("elementName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
