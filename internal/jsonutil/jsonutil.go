// Package jsonutil provides shared helpers for the engine's JSON payloads:
// error context and scalar-to-text conversion.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// ToString renders a decoded JSON value as control text. Numbers keep the
// engine's spelling when decoded as json.Number; whole float64s print
// without a fraction. Objects and arrays are re-encoded compactly.
func ToString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// StringMap decodes a JSON object of name to value and renders every value
// with ToString. A JSON null yields an empty map.
func StringMap(data []byte, context string) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", context, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = ToString(v)
	}
	return out, nil
}
