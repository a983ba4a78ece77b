package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Writer output arrives in whatever shape the model felt like producing.
// parseCandidate tries three encodings in priority order: a JSON object
// (fenced or plain), a leading "Subject:" line, then a block heuristic.

var (
	subjectKeys = []string{"subject", "subject_line", "title"}
	bodyKeys    = []string{"html_body", "body_html", "email_html", "body", "email_body"}

	fencedJSON  = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	subjectLine = regexp.MustCompile(`(?i)^subject(?:\s+line)?\s*:\s*(.*)$`)
)

const defaultSubject = "Sales Email"

func parseCandidate(raw string) (subject, body string, err error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", "", fmt.Errorf("empty writer output")
	}

	if s, b, ok := parseJSONObject(text); ok {
		subject, body = s, b
	} else if s, b, ok := parseSubjectLine(text); ok {
		subject, body = s, b
	} else {
		subject, body = parseFallback(text)
	}

	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" || body == "" {
		return "", "", fmt.Errorf("parsed candidate missing subject or body")
	}
	return subject, body, nil
}

func parseJSONObject(text string) (string, string, bool) {
	candidate := text
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if i := strings.Index(text, "{"); i >= 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			candidate = text[i : j+1]
		}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return "", "", false
	}

	// Key lookup is case-insensitive.
	lowered := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		lowered[strings.ToLower(k)] = v
	}

	subject := firstKey(lowered, subjectKeys)
	body := firstKey(lowered, bodyKeys)
	if subject == "" && body == "" {
		return "", "", false
	}
	return subject, body, true
}

func firstKey(obj map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		if raw, ok := obj[k]; ok {
			if v := flattenValue(raw); strings.TrimSpace(v) != "" {
				return v
			}
		}
	}
	return ""
}

// flattenValue turns whatever the model put under a key into paragraph text:
// strings pass through, lists join with blank lines, objects join their
// values in key order.
func flattenValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if v := flattenValue(item); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, "\n\n")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if v := flattenValue(obj[k]); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, "\n\n")
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", num), "0"), ".")
	}
	return ""
}

func parseSubjectLine(text string) (string, string, bool) {
	lines := strings.SplitN(text, "\n", 2)
	m := subjectLine.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if m == nil {
		return "", "", false
	}
	body := ""
	if len(lines) == 2 {
		body = lines[1]
	}
	return m[1], body, true
}

// parseFallback treats a leading block that announces itself as a subject
// as one; otherwise the whole text becomes the body under a stock subject.
func parseFallback(text string) (string, string) {
	blocks := strings.SplitN(text, "\n\n", 2)
	first := strings.TrimSpace(blocks[0])
	if len(blocks) == 2 && strings.HasPrefix(strings.ToLower(first), "subject") {
		return first, blocks[1]
	}
	return defaultSubject, text
}
