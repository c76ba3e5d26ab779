package widgetrender

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/goliatone/go-headless/internal/elements"
)

func str(settings map[string]any, key string) string {
	raw, ok := settings[key]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	default:
		return fmt.Sprint(v)
	}
}

func esc(settings map[string]any, key string) string {
	return html.EscapeString(str(settings, key))
}

func object(settings map[string]any, key string) map[string]any {
	switch v := settings[key].(type) {
	case map[string]any:
		return v
	case elements.Settings:
		return v
	default:
		return nil
	}
}

func list(settings map[string]any, key string) []map[string]any {
	raw, ok := settings[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// linkURL reads a {url: ...} link setting.
func linkURL(settings map[string]any, key string) string {
	return safeURL(str(object(settings, key), "url"))
}

// safeURL escapes raw for an attribute and drops scripting schemes.
func safeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return html.EscapeString(raw)
	default:
		return ""
	}
}

func oneOf(value, fallback string, allowed ...string) string {
	for _, candidate := range allowed {
		if value == candidate {
			return value
		}
	}
	return fallback
}
