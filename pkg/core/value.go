package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Value
// =============================================================================

// Kind identifies the variant held by a Value.
type Kind int

// Kind constants for the context value union.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a node in a render context tree.
// The set of implementations is closed: Null, String, Number, Bool, List and Map.
type Value interface {
	Kind() Kind
	// String returns the text substituted for an interpolation marker.
	String() string
	value() // marker method to restrict implementation
}

// Null is the absent value.
type Null struct{}

// String is a text scalar.
type String string

// Number is a numeric scalar.
type Number float64

// Bool is a boolean scalar.
type Bool bool

// List is an ordered sequence of values.
type List []Value

// Map is a string-keyed mapping of values.
type Map map[string]Value

func (Null) Kind() Kind   { return KindNull }
func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (List) Kind() Kind   { return KindList }
func (Map) Kind() Kind    { return KindMap }

func (Null) value()   {}
func (String) value() {}
func (Number) value() {}
func (Bool) value()   {}
func (List) value()   {}
func (Map) value()    {}

func (Null) String() string     { return "" }
func (s String) String() string { return string(s) }

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (l List) String() string { return encodeComposite(l) }
func (m Map) String() string  { return encodeComposite(m) }

// encodeComposite renders lists and maps as JSON. Map keys come out sorted.
func encodeComposite(v Value) string {
	data, err := json.Marshal(Native(v))
	if err != nil {
		return fmt.Sprint(Native(v))
	}
	return string(data)
}

// Truthy reports whether a value counts as present for a conditional.
// Numbers are always truthy, zero included.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(t)
	case String:
		return t != ""
	case List:
		return len(t) > 0
	case Map:
		return len(t) > 0
	default:
		return true
	}
}

// Lookup resolves a dotted path against root.
// Traversal only descends into maps; a missing key or a non-map container
// yields false.
func Lookup(root Value, path string) (Value, bool) {
	if path == "" {
		return Null{}, false
	}
	current := root
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(Map)
		if !ok {
			return Null{}, false
		}
		next, ok := m[part]
		if !ok {
			return Null{}, false
		}
		current = next
	}
	if current == nil {
		return Null{}, true
	}
	return current, true
}

// FromAny converts decoded Go data (JSON, YAML, literals) into a Value.
// Unknown types are stored as their fmt representation.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Number(t)
	case int8:
		return Number(t)
	case int16:
		return Number(t)
	case int32:
		return Number(t)
	case int64:
		return Number(t)
	case uint:
		return Number(t)
	case uint8:
		return Number(t)
	case uint16:
		return Number(t)
	case uint32:
		return Number(t)
	case uint64:
		return Number(t)
	case float32:
		return Number(t)
	case float64:
		return Number(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	case []any:
		list := make(List, len(t))
		for i, item := range t {
			list[i] = FromAny(item)
		}
		return list
	case []string:
		list := make(List, len(t))
		for i, item := range t {
			list[i] = String(item)
		}
		return list
	case map[string]any:
		m := make(Map, len(t))
		for k, item := range t {
			m[k] = FromAny(item)
		}
		return m
	case map[string]string:
		m := make(Map, len(t))
		for k, item := range t {
			m[k] = String(item)
		}
		return m
	case map[any]any:
		m := make(Map, len(t))
		for k, item := range t {
			m[fmt.Sprint(k)] = FromAny(item)
		}
		return m
	default:
		return String(fmt.Sprint(t))
	}
}

// Native converts a Value back into plain Go data suitable for encoding.
func Native(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(t)
	case Number:
		return float64(t)
	case Bool:
		return bool(t)
	case List:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Native(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Native(item)
		}
		return out
	default:
		return nil
	}
}
