package elements

import (
	"strings"
	"sync"
)

// Scan returns the widget types used in tree, each once, in order of first
// appearance. Every node is descended into regardless of its kind.
func Scan(tree []Node) []string {
	seen := map[string]struct{}{}
	var types []string
	Walk(tree, func(node Node) bool {
		if widgetType := strings.TrimSpace(node.WidgetType); node.IsWidget() && widgetType != "" {
			if _, ok := seen[widgetType]; !ok {
				seen[widgetType] = struct{}{}
				types = append(types, widgetType)
			}
		}
		return true
	})
	return types
}

// Inventory memoises Scan results per page for the duration of one bundle
// build. Create a new Inventory per build; nothing is shared across builds.
type Inventory struct {
	mu     sync.Mutex
	byPage map[int64][]string
	scans  int
}

// NewInventory returns an empty memo.
func NewInventory() *Inventory {
	return &Inventory{byPage: map[int64][]string{}}
}

// WidgetTypes returns the widget types of pageID, calling load and scanning
// the tree only on the first request for that page.
func (inv *Inventory) WidgetTypes(pageID int64, load func() []Node) []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if types, ok := inv.byPage[pageID]; ok {
		return append([]string(nil), types...)
	}
	var tree []Node
	if load != nil {
		tree = load()
	}
	types := Scan(tree)
	inv.byPage[pageID] = types
	inv.scans++
	return append([]string(nil), types...)
}

// Scans reports how many trees were walked.
func (inv *Inventory) Scans() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.scans
}
