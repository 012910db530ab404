package fastpath

import (
	"strings"

	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

// Extract maps a path expression from a question's external mapping onto
// the extracted payload. Known path shapes get dedicated extractors; any
// other expression falls back to a generic dotted-path walk. An empty
// Value means the source had nothing usable.
func Extract(path string, payload Payload) screening.Value {
	if path == "" || payload == nil {
		return screening.Value{}
	}
	for prefix, fn := range shapeExtractors {
		if strings.HasPrefix(path, prefix) {
			return fn(strings.TrimPrefix(path, prefix), payload)
		}
	}
	return dottedPath(path, payload)
}

// shapeExtractors is the lookup table of known path shapes. The reference
// source hardcodes a handful of field names per shape; anything outside
// these goes through dottedPath.
var shapeExtractors = map[string]func(rest string, payload Payload) screening.Value{
	"demographics.": extractDemographic,
	"conditions[].": extractCondition,
	"observations.": extractObservation,
}

// extractDemographic reads a field from the demographics section, falling
// back to a top-level field of the same name.
func extractDemographic(field string, payload Payload) screening.Value {
	if demo, ok := payload["demographics"].(map[string]any); ok {
		if v := toValue(demo[field]); !v.IsEmpty() {
			return v
		}
	}
	return toValue(payload[field])
}

// extractCondition reports whether the named condition code appears in the
// conditions list. Entries may be bare codes or objects with a "code"
// field.
func extractCondition(code string, payload Payload) screening.Value {
	list, ok := payload["conditions"].([]any)
	if !ok {
		return screening.Value{}
	}
	for _, entry := range list {
		switch e := entry.(type) {
		case string:
			if e == code {
				return screening.BoolValue(true)
			}
		case map[string]any:
			if c, _ := e["code"].(string); c == code {
				return screening.BoolValue(true)
			}
		}
	}
	return screening.BoolValue(false)
}

// extractObservation reads a named observation value; observation entries
// may be bare values or objects carrying a "value" field.
func extractObservation(name string, payload Payload) screening.Value {
	obs, ok := payload["observations"].(map[string]any)
	if !ok {
		return screening.Value{}
	}
	entry := obs[name]
	if m, ok := entry.(map[string]any); ok {
		return toValue(m["value"])
	}
	return toValue(entry)
}

// dottedPath is the generic fallback: walk nested maps segment by
// segment.
func dottedPath(path string, payload Payload) screening.Value {
	segments := strings.Split(path, ".")
	var cur any = map[string]any(payload)
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return screening.Value{}
		}
		cur, ok = m[seg]
		if !ok {
			return screening.Value{}
		}
	}
	return toValue(cur)
}

// toValue converts an untyped payload leaf into a tagged answer value.
// Unrecognized shapes yield the empty value, which callers treat as "no
// data found".
func toValue(raw any) screening.Value {
	switch t := raw.(type) {
	case nil:
		return screening.Value{}
	case bool:
		return screening.BoolValue(t)
	case float64:
		return screening.NumberValue(t)
	case int:
		return screening.NumberValue(float64(t))
	case int64:
		return screening.NumberValue(float64(t))
	case string:
		return screening.StringValue(t)
	default:
		return screening.Value{}
	}
}
