package value

import (
	"reflect"
	"regexp"
	"sort"
)

// Kind classifies a configuration value the way the validator sees it.
// Go values are mapped onto the small set of shapes a configuration
// document can take.
type Kind string

const (
	KindNull     Kind = "null"
	KindBoolean  Kind = "boolean"
	KindNumber   Kind = "number"
	KindString   Kind = "string"
	KindArray    Kind = "array"
	KindObject   Kind = "object"
	KindRegExp   Kind = "regexp"
	KindFunction Kind = "function"
	KindUnknown  Kind = "unknown"
)

// Function stands in for a function-valued configuration entry that was
// loaded from a document rather than constructed in Go.
type Function struct {
	Name string
}

// KindOf returns the kind of v.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case string:
		return KindString
	case *Map:
		if t == nil {
			return KindNull
		}
		return KindObject
	case map[string]any:
		if t == nil {
			return KindNull
		}
		return KindObject
	case []any:
		return KindArray
	case *regexp.Regexp:
		if t == nil {
			return KindNull
		}
		return KindRegExp
	case regexp.Regexp:
		return KindRegExp
	case *Function:
		if t == nil {
			return KindNull
		}
		return KindFunction
	case Function:
		return KindFunction
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return KindNull
		}
		return KindArray
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return KindUnknown
		}
		if rv.IsNil() {
			return KindNull
		}
		return KindObject
	case reflect.Func:
		if rv.IsNil() {
			return KindNull
		}
		return KindFunction
	case reflect.Pointer:
		if rv.IsNil() {
			return KindNull
		}
	}
	return KindUnknown
}

// Keys returns the keys of an object value in iteration order. Ordered maps
// keep insertion order; Go maps are sorted so results are deterministic.
// It returns nil for non-object values.
func Keys(v any) []string {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return nil
		}
		return t.Keys()
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

// Field returns the value stored under key in an object value.
func Field(v any, key string) (any, bool) {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return nil, false
		}
		return t.Get(key)
	case map[string]any:
		f, ok := t[key]
		return f, ok
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	f := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !f.IsValid() {
		return nil, false
	}
	return f.Interface(), true
}

// String returns the text of a string value, including values of named
// string types such as json.Number.
func String(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// Elements returns the elements of an array value, or nil for any other kind.
func Elements(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Equal reports whether a and b are strictly equal. Numbers compare by
// numeric value regardless of their Go type; no other coercion happens.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindNull:
		return true
	case KindNumber:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return fa == fb
	case KindString:
		return reflect.ValueOf(a).String() == reflect.ValueOf(b).String()
	case KindBoolean:
		return reflect.ValueOf(a).Bool() == reflect.ValueOf(b).Bool()
	case KindRegExp:
		return regexpSource(a) == regexpSource(b)
	case KindArray:
		ea, eb := Elements(a), Elements(b)
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !Equal(ea[i], eb[i]) {
				return false
			}
		}
		return true
	case KindObject:
		keysA, keysB := Keys(a), Keys(b)
		if len(keysA) != len(keysB) {
			return false
		}
		for _, k := range keysA {
			fa, _ := Field(a, k)
			fb, ok := Field(b, k)
			if !ok || !Equal(fa, fb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// toFloat converts any Go numeric value to float64.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func regexpSource(v any) string {
	switch t := v.(type) {
	case *regexp.Regexp:
		return t.String()
	case regexp.Regexp:
		return t.String()
	}
	return ""
}
