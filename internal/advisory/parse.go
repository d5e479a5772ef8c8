package advisory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// extractObject pulls the first JSON object out of a model reply. Markdown
// fences and prose around the object are ignored.
func extractObject(text string) (map[string]any, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return nil, fmt.Errorf("empty reply")
	}

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(body[start:end+1]), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}
	return fields, nil
}

// boolField reads key as a boolean. Models sometimes quote booleans or
// answer "yes"/"no"; ok is false when the value cannot be interpreted.
func boolField(fields map[string]any, key string) (value bool, ok bool) {
	switch v := fields[key].(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y":
			return true, true
		case "false", "no", "n":
			return false, true
		}
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b, true
		}
	case float64:
		return v != 0, true
	}
	return false, false
}

// stringField reads key as text. Non-string scalars are formatted and
// missing keys yield "".
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		return strings.Join(listField(fields, key), "\n")
	default:
		return fmt.Sprint(v)
	}
}

// listField reads key as a list of strings. A lone string becomes a
// one-element list.
func listField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			var s string
			if str, ok := item.(string); ok {
				s = strings.TrimSpace(str)
			} else {
				s = fmt.Sprint(item)
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}
