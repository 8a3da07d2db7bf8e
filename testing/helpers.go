// Package testing provides fixtures and assertions for interchange tests.
package testing

import (
	"testing"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/json"
)

// SampleJSON is a document exercising every value kind.
const SampleJSON = `{
    "id": 42,
    "name": "alice \"al\" ü",
    "ratio": 0.25,
    "active": true,
    "manager": null,
    "tags": ["admin", "ops"],
    "address": {"city": "Berlin", "zip": "10115"},
    "history": [{"year": 2020, "role": "dev"}, {"year": 2023, "role": "lead"}],
    "empty": {}
}`

// StringTreeJSON is a document of non-empty string leaves only. Text
// formats without native scalar types round-trip it unchanged.
const StringTreeJSON = `{
    "host": "db.local",
    "port": "5432",
    "auth": {"user": "admin", "mode": "md5"}
}`

// RowsJSON is a list of flat string rows for the tabular formats.
const RowsJSON = `[
    {"id": "1", "name": "alice", "city": "Berlin"},
    {"id": "2", "name": "bob", "city": "São Paulo"}
]`

// MustParse decodes JSON text into a Value or fails the test.
func MustParse(tb testing.TB, text string) interchange.Value {
	tb.Helper()
	v, err := json.New().Unmarshal([]byte(text))
	if err != nil {
		tb.Fatalf("MustParse: %v", err)
	}
	return v
}

// SampleValue returns SampleJSON as a Value.
func SampleValue(tb testing.TB) interchange.Value {
	tb.Helper()
	return MustParse(tb, SampleJSON)
}

// StringTree returns StringTreeJSON as a Value.
func StringTree(tb testing.TB) interchange.Value {
	tb.Helper()
	return MustParse(tb, StringTreeJSON)
}

// Rows returns RowsJSON as a Value.
func Rows(tb testing.TB) interchange.Value {
	tb.Helper()
	return MustParse(tb, RowsJSON)
}

// AssertEqual fails the test when got and want differ, including mapping
// key order.
func AssertEqual(tb testing.TB, got, want interchange.Value) {
	tb.Helper()
	if !interchange.Equal(got, want) {
		tb.Errorf("value mismatch\n got: %s\nwant: %s", got, want)
	}
}

// RoundTrip marshals v with c, unmarshals the result and returns it.
func RoundTrip(tb testing.TB, c interchange.Codec, v interchange.Value) interchange.Value {
	tb.Helper()
	data, err := c.Marshal(v)
	if err != nil {
		tb.Fatalf("%s Marshal() error: %v", c.Format(), err)
	}
	restored, err := c.Unmarshal(data)
	if err != nil {
		tb.Fatalf("%s Unmarshal() error: %v\n%s", c.Format(), err, data)
	}
	return restored
}
