package domain

import (
	"bytes"
	"encoding/json"
)

// Metadata is the free-form per-stack data attached to a slot.
type Metadata map[string]any

// Well-known metadata keys
const (
	MetaDurability  = "durability"
	MetaDegrade     = "degrade"
	MetaStack       = "stack"
	MetaLabel       = "label"
	MetaDescription = "description"
	MetaImage       = "image"
	MetaImageURL    = "imageurl"
	MetaContainer   = "container"
)

// UnmarshalJSON accepts an object or an array. Hosts encode an empty table as
// an empty array; non-empty arrays are keyed by their 1-based position.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*m = nil
		return nil
	}
	if data[0] == '[' {
		var list []any
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		out := make(Metadata, len(list))
		for i, v := range list {
			out[formatNumericID(float64(i+1))] = v
		}
		*m = out
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = raw
	return nil
}

// Has reports whether key is present and non-nil.
func (m Metadata) Has(key string) bool {
	if m == nil {
		return false
	}
	v, ok := m[key]
	return ok && v != nil
}

// String returns the value under key when it is a non-empty string.
func (m Metadata) String(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok && s != ""
}

// Number returns the value under key as float64 when it is numeric.
func (m Metadata) Number(key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	return toFloat(m[key])
}

// Bool returns the value under key when it is a bool.
func (m Metadata) Bool(key string) (bool, bool) {
	if m == nil {
		return false, false
	}
	b, ok := m[key].(bool)
	return b, ok
}

// Clone returns a deep copy of the metadata.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// MetadataEqual is structural value equality over untyped key/value data.
// Numbers compare by value regardless of their Go representation, and a nil
// mapping equals an empty one.
func MetadataEqual(a, b Metadata) bool {
	return valueEqual(map[string]any(a), map[string]any(b))
}

func valueEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}

	switch av := a.(type) {
	case nil:
		return b == nil || isEmptyContainer(b)
	case Metadata:
		return mapEqual(av, b)
	case map[string]any:
		return mapEqual(av, b)
	case []any:
		bv, ok := b.([]any)
		if !ok {
			return b == nil && len(av) == 0
		}
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case []string:
		bv, ok := b.([]string)
		if !ok {
			return false
		}
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

func mapEqual(a map[string]any, b any) bool {
	var bm map[string]any
	switch bv := b.(type) {
	case nil:
		return len(a) == 0
	case Metadata:
		bm = bv
	case map[string]any:
		bm = bv
	default:
		return false
	}
	if len(a) != len(bm) {
		return false
	}
	for k, av := range a {
		bv, ok := bm[k]
		if !ok || !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

func isEmptyContainer(v any) bool {
	switch t := v.(type) {
	case Metadata:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Metadata:
		return t.Clone()
	case map[string]any:
		return map[string]any(Metadata(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
