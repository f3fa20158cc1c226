package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Format renders v the way reports quote configuration values: strings are
// JSON-quoted, null is "null", regular expressions use /source/ notation and
// functions render as [Function name].
func Format(v any) string {
	switch KindOf(v) {
	case KindNull:
		return "null"
	case KindString:
		return quote(reflect.ValueOf(v).String())
	case KindBoolean:
		return strconv.FormatBool(reflect.ValueOf(v).Bool())
	case KindNumber:
		f, _ := toFloat(v)
		return strconv.FormatFloat(f, 'f', -1, 64)
	case KindRegExp:
		return "/" + regexpSource(v) + "/"
	case KindFunction:
		switch fn := v.(type) {
		case Function:
			return functionText(fn.Name)
		case *Function:
			return functionText(fn.Name)
		}
		return functionText("")
	case KindArray:
		elems := Elements(v)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindObject:
		keys := Keys(v)
		parts := make([]string, len(keys))
		for i, k := range keys {
			f, _ := Field(v, k)
			parts[i] = quote(k) + ":" + Format(f)
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return fmt.Sprintf("%v", v)
}

func functionText(name string) string {
	if name == "" {
		return "[Function]"
	}
	return "[Function " + name + "]"
}

// quote JSON-encodes s without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Plain converts v into plain Go maps, slices and scalars so it can be handed
// to libraries that only understand decoded JSON shapes. Regular expressions
// become their source text and functions their name.
func Plain(v any) any {
	switch KindOf(v) {
	case KindNull:
		return nil
	case KindString:
		return reflect.ValueOf(v).String()
	case KindBoolean:
		return reflect.ValueOf(v).Bool()
	case KindNumber:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return rv.Uint()
		}
		f, _ := toFloat(v)
		return f
	case KindRegExp:
		return regexpSource(v)
	case KindFunction:
		switch fn := v.(type) {
		case Function:
			return fn.Name
		case *Function:
			return fn.Name
		}
		return ""
	case KindArray:
		elems := Elements(v)
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = Plain(e)
		}
		return out
	case KindObject:
		out := make(map[string]any)
		for _, k := range Keys(v) {
			f, _ := Field(v, k)
			out[k] = Plain(f)
		}
		return out
	}
	return v
}
