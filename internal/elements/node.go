package elements

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Element kinds used by the builder's serialised tree.
const (
	KindContainer = "container"
	KindSection   = "section"
	KindColumn    = "column"
	KindWidget    = "widget"
)

// Node is one element of a builder layout tree. WidgetType is only set on
// widget nodes.
type Node struct {
	ID         string   `json:"id"`
	ElType     string   `json:"elType"`
	WidgetType string   `json:"widgetType,omitempty"`
	Settings   Settings `json:"settings,omitempty"`
	Elements   []Node   `json:"elements,omitempty"`
}

// Settings holds a node's raw settings. The builder serialises empty
// settings as an empty JSON array, which decodes to an empty map.
type Settings map[string]any

func (s *Settings) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		if len(items) > 0 {
			return fmt.Errorf("elements: settings must be an object, got array of %d items", len(items))
		}
		*s = Settings{}
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = m
	return nil
}

// IsWidget reports whether the node renders a widget.
func (n Node) IsWidget() bool {
	return n.ElType == KindWidget
}

// IsContainer reports whether the node only wraps children.
func (n Node) IsContainer() bool {
	switch n.ElType {
	case KindContainer, KindSection, KindColumn:
		return true
	default:
		return false
	}
}

// Setting returns a settings value as a trimmed string.
func (n Node) Setting(key string) string {
	raw, ok := n.Settings[key]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}

// ParseTree decodes a serialised tree. Both a bare array of root nodes and
// an object carrying an "elements" array are accepted.
func ParseTree(data []byte) ([]Node, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Elements []Node `json:"elements"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
			return nil, fmt.Errorf("elements: decode tree: %w", err)
		}
		return wrapper.Elements, nil
	}
	var nodes []Node
	if err := json.Unmarshal([]byte(trimmed), &nodes); err != nil {
		return nil, fmt.Errorf("elements: decode tree: %w", err)
	}
	return nodes, nil
}

// Walk visits every node depth first, parents before children. Returning
// false from fn skips the node's children.
func Walk(tree []Node, fn func(Node) bool) {
	for _, node := range tree {
		if fn(node) {
			Walk(node.Elements, fn)
		}
	}
}
