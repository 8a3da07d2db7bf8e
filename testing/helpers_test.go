package testing

import (
	"testing"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/json"
)

func TestSampleValue(t *testing.T) {
	v := SampleValue(t)
	if v.Kind() != interchange.KindMapping {
		t.Fatalf("SampleValue().Kind() = %s, want mapping", v.Kind())
	}

	want := []string{"id", "name", "ratio", "active", "manager", "tags", "address", "history", "empty"}
	keys := v.Mapping().Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestStringTree(t *testing.T) {
	if got, want := StringTree(t).String(), `{"host":"db.local","port":"5432","auth":{"user":"admin","mode":"md5"}}`; got != want {
		t.Errorf("StringTree() = %s, want %s", got, want)
	}
}

func TestRows(t *testing.T) {
	v := Rows(t)
	if v.Len() != 2 {
		t.Errorf("Rows().Len() = %d, want 2", v.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	v := SampleValue(t)
	AssertEqual(t, RoundTrip(t, json.Compact(), v), v)
}

func TestAssertEqual(t *testing.T) {
	AssertEqual(t, interchange.Int(1), interchange.Int(1))
	AssertEqual(t, MustParse(t, `{"a":[1]}`), MustParse(t, `{ "a" : [ 1 ] }`))
}
