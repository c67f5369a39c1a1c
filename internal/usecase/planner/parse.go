package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/labassist/internal/domain"
	"github.com/kailas-cloud/labassist/internal/domain/plan"
)

// parsePlan decodes the model reply and merges it over fallback field by field.
// A key that is absent or null keeps the fallback value, as does a blank string field.
func parsePlan(reply string, fallback plan.Plan) (plan.Plan, error) {
	raw := extractObject(reply)
	if raw == "" {
		return fallback, fmt.Errorf("no JSON object in reply: %w", domain.ErrMalformedResponse)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return fallback, fmt.Errorf("decode plan: %v: %w", err, domain.ErrMalformedResponse)
	}

	p := fallback
	if v, ok := present(fields, "isGreeting"); ok {
		p.IsGreeting = truthy(v)
	}
	if v, ok := present(fields, "isDataSourceRequired"); ok {
		p.IsDataSourceRequired = truthy(v)
	}
	if v, ok := fields["dataSource"]; ok {
		if s, _ := v.(string); s == string(plan.AISearch) {
			p.DataSource = plan.AISearch
		} else {
			p.DataSource = plan.None
		}
	}
	if s := nonBlank(fields, "searchQuery"); s != "" {
		p.SearchQuery = s
	}
	if v, ok := present(fields, "top"); ok {
		p.Top = toInt(v, fallback.Top)
	}
	if s := nonBlank(fields, "defaultAnswer"); s != "" {
		p.DefaultAnswer = s
	}
	return p, nil
}

func present(fields map[string]any, key string) (any, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// nonBlank returns the string value of key, or "" when it is absent, not a string or blank.
func nonBlank(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// truthy mirrors loose boolean coercion: zero values are false, everything else true.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}

func toInt(v any, def int) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

// extractObject returns the first balanced {...} in s, skipping braces inside
// JSON strings. Returns "" when none is found.
func extractObject(s string) string {
	start, depth := -1, 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
