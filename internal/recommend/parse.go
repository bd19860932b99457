package recommend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON pulls a JSON object out of a model response, dropping markdown
// fences and surrounding prose.
func extractJSON(response string) string {
	if matches := fencePattern.FindStringSubmatch(response); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end > start {
		return response[start : end+1]
	}
	return strings.TrimSpace(response)
}

// parseOutput extracts the signature's output fields from a response. JSON
// is tried first; fields it lacks are taken from "Label:" sections. Every
// stage field must be present, the rationale is optional.
func parseOutput(sig signature, response string) (map[string]string, error) {
	fields := sig.outputs()
	values := parseJSONFields(fields, response)
	for key, value := range parseLabeledFields(fields, response) {
		if values[key] == "" {
			values[key] = value
		}
	}
	var missing []string
	for _, key := range sig.outputKeys() {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{Stage: sig.Stage, Fields: missing, Response: response}
	}
	return values, nil
}

// parseJSONFields returns the non-empty fields of the response's JSON
// object, or an empty map when there is none.
func parseJSONFields(fields []field, response string) map[string]string {
	values := make(map[string]string, len(fields))
	var raw map[string]any
	if err := json.Unmarshal([]byte(extractJSON(response)), &raw); err != nil {
		return values
	}
	for _, f := range fields {
		value, ok := raw[f.Key]
		if !ok {
			continue
		}
		text := strings.TrimSpace(stringify(value))
		if text == "" {
			continue
		}
		values[f.Key] = text
	}
	return values
}

// stringify renders a decoded JSON value as display text. String lists become
// one item per line.
func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []any:
		lines := make([]string, 0, len(typed))
		for i, item := range typed {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(stringify(item))))
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		data, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(data)
	default:
		return fmt.Sprint(typed)
	}
}

func parseLabeledFields(fields []field, response string) map[string]string {
	values := make(map[string]string, len(fields))
	sections := make(map[string]*strings.Builder, len(fields))
	current := ""
	for _, line := range strings.Split(response, "\n") {
		if key, rest, ok := matchLabel(fields, line); ok {
			current = key
			if sections[key] == nil {
				sections[key] = &strings.Builder{}
			}
			sections[key].WriteString(rest)
			continue
		}
		if current == "" {
			continue
		}
		sections[current].WriteString("\n" + line)
	}
	for key, builder := range sections {
		if text := strings.TrimSpace(builder.String()); text != "" {
			values[key] = text
		}
	}
	return values
}

// matchLabel reports whether line opens a "Label:" section, tolerating
// markdown emphasis and heading marks around the label.
func matchLabel(fields []field, line string) (string, string, bool) {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "#*_ ")
	for _, f := range fields {
		if len(trimmed) < len(f.Label) || !strings.EqualFold(trimmed[:len(f.Label)], f.Label) {
			continue
		}
		rest := strings.TrimLeft(trimmed[len(f.Label):], "*_ ")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		rest = strings.TrimLeft(strings.TrimPrefix(rest, ":"), "*_ ")
		return f.Key, rest, true
	}
	return "", "", false
}
