package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Stringify returns a single-line string for an arbitrary loaded value.
// Strings are kept verbatim apart from control characters, collections and
// structs become compact JSON, and nil becomes "null".
func Stringify(v any) string {
	if v == nil {
		return "null"
	}
	switch t := v.(type) {
	case string:
		return escapeScalarString(t)
	case []byte:
		return escapeScalarString(string(t))
	case bool:
		return strconv.FormatBool(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case json.Marshaler:
		if s, ok := compactJSON(t); ok {
			return s
		}
		return fmt.Sprintf("%v", t)
	case fmt.Stringer:
		return escapeScalarString(t.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // only complex types need JSON marshaling
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if s, ok := compactJSON(v); ok {
			return s
		}
	case reflect.Ptr:
		if rv.IsNil() {
			return "null"
		}
		return Stringify(rv.Elem().Interface())
	}
	return escapeScalarString(fmt.Sprintf("%v", v))
}

func compactJSON(v any) (string, bool) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", false
	}
	return strings.TrimRight(buf.String(), "\n"), true
}

// escapeScalarString flattens line breaks and tabs so a value stays on one
// table row. Windows and bare carriage returns are normalized first.
func escapeScalarString(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if strings.Contains(s, "\n") {
		s = strings.ReplaceAll(s, "\n", "\\n")
	}
	if strings.Contains(s, "\t") {
		s = strings.ReplaceAll(s, "\t", "\\t")
	}
	return s
}
