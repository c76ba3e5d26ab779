package widgetrender

import (
	"strconv"

	"github.com/goliatone/go-headless/internal/dom"
	xhtml "golang.org/x/net/html"
)

const (
	activeClass     = "elementor-active"
	titleSelector   = ".elementor-tab-title"
	contentSelector = ".elementor-tab-content"
	dismissSelector = ".elementor-alert-dismiss"
	alertSelector   = ".elementor-alert"
	groupSelector   = ".elementor-tabs, .elementor-accordion, .elementor-toggle"
)

// Interactions dispatches clicks inside a rendered container.
type Interactions struct {
	container  *xhtml.Node
	Tabs       int
	Accordions int
	Toggles    int
	Alerts     int
}

// Wire scans container for interactive widgets and normalises their initial
// state: every tabs widget has exactly one active pane and collapsible panes
// start closed.
func Wire(container *xhtml.Node) *Interactions {
	i := &Interactions{container: container}
	if container == nil {
		return i
	}
	tabs, _ := dom.QueryAll(container, ".elementor-tabs")
	for _, group := range tabs {
		titles := ownTitles(group)
		if len(titles) > 0 && activeTitle(titles) == nil {
			activateTab(group, titles[0])
		}
	}
	accordions, _ := dom.QueryAll(container, ".elementor-accordion")
	toggles, _ := dom.QueryAll(container, ".elementor-toggle")
	alerts, _ := dom.QueryAll(container, dismissSelector)
	i.Tabs, i.Accordions, i.Toggles, i.Alerts = len(tabs), len(accordions), len(toggles), len(alerts)
	return i
}

// Click handles a click on target, delegating from target up to the nearest
// interactive control. It reports whether anything changed.
func (i *Interactions) Click(target *xhtml.Node) bool {
	if i == nil || target == nil || !within(target, i.container) {
		return false
	}
	if button := dom.Closest(target, dismissSelector); button != nil && within(button, i.container) {
		alert := dom.Closest(button, alertSelector)
		if alert == nil {
			return false
		}
		dom.Remove(alert)
		i.Alerts--
		return true
	}

	title := dom.Closest(target, titleSelector)
	if title == nil || !within(title, i.container) {
		return false
	}
	group := dom.Closest(title, groupSelector)
	if group == nil {
		return false
	}
	switch {
	case dom.HasClass(group, "elementor-tabs"):
		activateTab(group, title)
	case dom.HasClass(group, "elementor-accordion"):
		open := !dom.HasClass(title, activeClass)
		for _, other := range ownTitles(group) {
			setExpanded(group, other, false)
		}
		setExpanded(group, title, open)
	default:
		setExpanded(group, title, !dom.HasClass(title, activeClass))
	}
	return true
}

// IsActive reports whether a tab title or pane is currently active.
func IsActive(n *xhtml.Node) bool {
	return dom.HasClass(n, activeClass)
}

func activateTab(group, title *xhtml.Node) {
	tab, _ := dom.Attr(title, "data-tab")
	for _, other := range ownTitles(group) {
		selected := other == title
		setActive(other, selected)
		dom.SetAttr(other, "aria-selected", strconv.FormatBool(selected))
	}
	for _, pane := range ownPanes(group) {
		id, _ := dom.Attr(pane, "data-tab")
		setActive(pane, id == tab)
		setHidden(pane, id != tab)
	}
}

func setExpanded(group, title *xhtml.Node, open bool) {
	setActive(title, open)
	dom.SetAttr(title, "aria-expanded", strconv.FormatBool(open))
	tab, _ := dom.Attr(title, "data-tab")
	for _, pane := range ownPanes(group) {
		if id, _ := dom.Attr(pane, "data-tab"); id == tab {
			setActive(pane, open)
			setHidden(pane, !open)
		}
	}
}

func setActive(n *xhtml.Node, active bool) {
	if active {
		dom.AddClass(n, activeClass)
		return
	}
	dom.RemoveClass(n, activeClass)
}

func setHidden(n *xhtml.Node, hidden bool) {
	if hidden {
		dom.SetAttr(n, "hidden", "")
		return
	}
	dom.RemoveAttr(n, "hidden")
}

// ownTitles returns the titles belonging to group, skipping nested widgets.
func ownTitles(group *xhtml.Node) []*xhtml.Node {
	return owned(group, titleSelector)
}

func ownPanes(group *xhtml.Node) []*xhtml.Node {
	return owned(group, contentSelector)
}

func owned(group *xhtml.Node, selector string) []*xhtml.Node {
	nodes, _ := dom.QueryAll(group, selector)
	out := nodes[:0]
	for _, n := range nodes {
		if dom.Closest(n.Parent, groupSelector) == group {
			out = append(out, n)
		}
	}
	return out
}

func activeTitle(titles []*xhtml.Node) *xhtml.Node {
	for _, title := range titles {
		if IsActive(title) {
			return title
		}
	}
	return nil
}

func within(n, container *xhtml.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == container {
			return true
		}
	}
	return false
}
