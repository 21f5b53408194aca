package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Id keys in the order they are tried on create/update responses.
var (
	personalIDKeys  = []string{"uuid", "id", "user_id", "user_uuid"}
	addressIDKeys   = []string{"uuid", "id"}
	educationIDKeys = []string{"uuid", "user_uuid"}
	documentIDKeys  = []string{"uuid"}

	// list reads prefer the row id
	addressReadKeys = []string{"id", "uuid"}
)

func decodeObject(body []byte) map[string]interface{} {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil
	}
	return obj
}

// extractID returns the first non-empty value among keys, rendering
// numeric ids as decimal strings.
func extractID(obj map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v := stringValue(obj[k]); v != "" {
			return v
		}
	}
	return ""
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
