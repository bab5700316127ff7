package validation

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Source yields raw textual input by field name. Blank values are reported
// as absent.
type Source interface {
	Lookup(field string) (string, bool)
}

// FormSource reads HTML form values.
type FormSource url.Values

func (s FormSource) Lookup(field string) (string, bool) {
	values, ok := s[field]
	if !ok || len(values) == 0 {
		return "", false
	}
	return present(values[0])
}

// JSONSource reads a decoded JSON object. null is treated like an omitted key.
type JSONSource map[string]json.RawMessage

func (s JSONSource) Lookup(field string) (string, bool) {
	raw, ok := s[field]
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return trimmed, true
		}
		return present(text)
	}
	return trimmed, true
}

// MapSource is a plain string map, used by callers that already hold
// decoded values.
type MapSource map[string]string

func (s MapSource) Lookup(field string) (string, bool) {
	value, ok := s[field]
	if !ok {
		return "", false
	}
	return present(value)
}

func present(value string) (string, bool) {
	value = strings.TrimSpace(value)
	return value, value != ""
}
