package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	ctx := FromAny(map[string]any{
		"name": "test",
		"repo": map[string]any{"name": "foo", "organ": "bar"},
		"a":    map[string]any{"b": map[string]any{"c": "deep"}},
		"tags": []any{"x", "y"},
		"nil":  nil,
	})

	tests := []struct {
		name  string
		path  string
		want  Value
		found bool
	}{
		{"simple key", "name", String("test"), true},
		{"dotted path", "repo.name", String("foo"), true},
		{"deep nesting", "a.b.c", String("deep"), true},
		{"missing key", "missing", Null{}, false},
		{"missing nested key", "repo.url", Null{}, false},
		{"no list indexing", "tags.0", Null{}, false},
		{"descend into scalar", "name.length", Null{}, false},
		{"empty path", "", Null{}, false},
		{"explicit null", "nil", Null{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Lookup(ctx, tt.path)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_NonMapRoot(t *testing.T) {
	_, found := Lookup(String("root"), "anything")
	assert.False(t, found)

	_, found = Lookup(nil, "anything")
	assert.False(t, found)
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{"nil interface", nil, false},
		{"null", Null{}, false},
		{"true", Bool(true), true},
		{"false", Bool(false), false},
		{"empty string", String(""), false},
		{"non-empty string", String("hello"), true},
		{"empty list", List{}, false},
		{"non-empty list", List{String("a")}, true},
		{"empty map", Map{}, false},
		{"non-empty map", Map{"k": Null{}}, true},
		{"zero is truthy", Number(0), true},
		{"number", Number(3.5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.value))
		})
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "hello", String("hello").String())
	assert.Equal(t, "8", Number(8).String())
	assert.Equal(t, "3.14", Number(3.14).String())
	assert.Equal(t, "-2", Number(-2).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "", Null{}.String())
	assert.Equal(t, `["a",1]`, List{String("a"), Number(1)}.String())
	assert.Equal(t, `{"a":1,"b":"x"}`, Map{"b": String("x"), "a": Number(1)}.String())
}

func TestFromAny(t *testing.T) {
	var decoded any
	require.NoError(t, json.Unmarshal([]byte(`{"n": 8, "s": "x", "b": true, "l": [1, "two"], "z": null}`), &decoded))

	v := FromAny(decoded)
	m, ok := v.(Map)
	require.True(t, ok, "expected map, got %T", v)

	assert.Equal(t, Number(8), m["n"])
	assert.Equal(t, String("x"), m["s"])
	assert.Equal(t, Bool(true), m["b"])
	assert.Equal(t, List{Number(1), String("two")}, m["l"])
	assert.Equal(t, Null{}, m["z"])

	assert.Equal(t, List{String("a"), String("b")}, FromAny([]string{"a", "b"}))
	assert.Equal(t, Map{"k": String("v")}, FromAny(map[string]string{"k": "v"}))
	assert.Equal(t, Map{"1": Bool(false)}, FromAny(map[any]any{1: false}))
	assert.Equal(t, Number(42), FromAny(int64(42)))
	assert.Equal(t, String("x"), FromAny(String("x")))
}

func TestNative_RoundTrip(t *testing.T) {
	original := map[string]any{
		"event": map[string]any{"title": "Launch", "tags": []any{"a"}},
		"count": float64(3),
		"ok":    true,
	}
	assert.Equal(t, original, Native(FromAny(original)))
}
