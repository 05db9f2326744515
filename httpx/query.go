package httpx

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// EncodeQuery serializes params into a query string without the leading "?".
// Keys are sorted, nil values are skipped, and slices or arrays repeat the key
// once per element.
func EncodeQuery(params map[string]any) string {
	values := url.Values{}

	for key, v := range params {
		if v == nil {
			continue
		}

		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if b, ok := v.([]byte); ok {
				values.Add(key, string(b))
				continue
			}
			for i := 0; i < rv.Len(); i++ {
				values.Add(key, queryValue(rv.Index(i).Interface()))
			}
		case reflect.Pointer:
			if rv.IsNil() {
				continue
			}
			values.Add(key, queryValue(rv.Elem().Interface()))
		default:
			values.Add(key, queryValue(v))
		}
	}

	return values.Encode()
}

// DecodeQuery parses a query string, with or without a leading "?". Keys that
// appear once map to a string, repeated keys to a []string.
func DecodeQuery(query string) (map[string]any, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}

	out := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) == 1 {
			out[key] = vs[0]
			continue
		}
		out[key] = vs
	}

	return out, nil
}

func queryValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
