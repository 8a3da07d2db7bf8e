package interchange

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

type convertAddress struct {
	City string `json:"city"`
	Zip  string `serialize:"postal_code"`
}

type convertBase struct {
	ID int64 `json:"id"`
}

type convertUser struct {
	convertBase
	Name     string            `json:"name"`
	Email    string            `json:"email,omitempty"`
	Password string            `json:"-"`
	Tags     []string          `json:"tags"`
	Address  *convertAddress   `json:"address"`
	Labels   map[string]string `json:"labels"`
	secret   string
}

type customValue struct{}

func (customValue) MarshalValue() (Value, error) {
	return String("custom"), nil
}

func TestFromAny_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"uint8", uint8(7), Int(7)},
		{"huge uint", uint64(math.MaxUint64), Float(float64(uint64(math.MaxUint64)))},
		{"float", 1.5, Float(1.5)},
		{"string", "x", String("x")},
		{"bytes", []byte("raw"), String("raw")},
		{"json int", json.Number("12"), Int(12)},
		{"json float", json.Number("1.25"), Float(1.25)},
		{"override", customValue{}, String("custom")},
		{"nil pointer", (*convertAddress)(nil), Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			if err != nil {
				t.Fatalf("FromAny() error: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("FromAny() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFromAny_MapSortsKeys(t *testing.T) {
	got, err := FromAny(map[string]any{"b": 1, "a": []any{"x", nil}})
	if err != nil {
		t.Fatalf("FromAny() error: %v", err)
	}
	want := `{"a":["x",null],"b":1}`
	if got.String() != want {
		t.Errorf("FromAny() = %s, want %s", got, want)
	}
}

func TestFromAny_Struct(t *testing.T) {
	u := convertUser{
		convertBase: convertBase{ID: 9},
		Name:        "alice",
		Password:    "hunter2",
		Tags:        []string{"a"},
		Address:     &convertAddress{City: "Paris", Zip: "75001"},
		secret:      "hidden",
	}

	got, err := FromAny(u)
	if err != nil {
		t.Fatalf("FromAny() error: %v", err)
	}
	want := `{"id":9,"name":"alice","tags":["a"],"address":{"city":"Paris","postal_code":"75001"},"labels":null}`
	if got.String() != want {
		t.Errorf("FromAny() = %s, want %s", got, want)
	}
}

func TestFromStruct(t *testing.T) {
	got, err := FromStruct(convertAddress{City: "Oslo", Zip: "0150"})
	if err != nil {
		t.Fatalf("FromStruct() error: %v", err)
	}
	want := `{"city":"Oslo","postal_code":"0150"}`
	if got.String() != want {
		t.Errorf("FromStruct() = %s, want %s", got, want)
	}

	scalar, err := FromStruct(3)
	if err != nil {
		t.Fatalf("FromStruct(3) error: %v", err)
	}
	if !Equal(scalar, Int(3)) {
		t.Errorf("FromStruct(3) = %s, want 3", scalar)
	}
}

func TestFromAny_Unsupported(t *testing.T) {
	_, err := FromAny(make(chan int))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("FromAny(chan) error = %v, want ErrUnsupportedType", err)
	}
}

func TestToAny(t *testing.T) {
	m := NewMapping()
	m.Set("n", Int(1))
	m.Set("list", Sequence(String("a"), Null()))

	got, ok := ToAny(Map(m)).(map[string]any)
	if !ok {
		t.Fatalf("ToAny() returned %T, want map[string]any", ToAny(Map(m)))
	}
	if got["n"] != int64(1) {
		t.Errorf("n = %v, want 1", got["n"])
	}
	list, ok := got["list"].([]any)
	if !ok || len(list) != 2 || list[0] != "a" || list[1] != nil {
		t.Errorf("list = %#v", got["list"])
	}
}
