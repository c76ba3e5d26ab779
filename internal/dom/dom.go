// Package dom is a small mutable HTML tree on top of golang.org/x/net/html
// with CSS selector queries from cascadia.
package dom

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrSelectorInvalid = errors.New("dom: selector is invalid")
	ErrNodeRequired    = errors.New("dom: node is required")
)

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
}

// Parse parses markup into a full document. Missing html/head/body elements
// are synthesised by the parser.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// MustParse is Parse for trusted markup.
func MustParse(markup string) *Document {
	doc, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return doc
}

// New returns an empty document.
func New() *Document {
	return MustParse("<!DOCTYPE html><html><head></head><body></body></html>")
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Head returns the head element.
func (d *Document) Head() *html.Node { return findAtom(d.root, atom.Head) }

// Body returns the body element.
func (d *Document) Body() *html.Node { return findAtom(d.root, atom.Body) }

// Query returns the first element under the document matching selector.
func (d *Document) Query(selector string) (*html.Node, error) {
	return QueryFirst(d.root, selector)
}

// String renders the whole document.
func (d *Document) String() string {
	return Render(d.root)
}

var (
	selectorMu    sync.RWMutex
	selectorCache = map[string]cascadia.Selector{}
)

func compile(selector string) (cascadia.Selector, error) {
	selectorMu.RLock()
	sel, ok := selectorCache[selector]
	selectorMu.RUnlock()
	if ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSelectorInvalid, selector, err)
	}
	selectorMu.Lock()
	selectorCache[selector] = sel
	selectorMu.Unlock()
	return sel, nil
}

// QueryFirst returns the first descendant of n matching selector, or nil.
func QueryFirst(n *html.Node, selector string) (*html.Node, error) {
	if n == nil {
		return nil, ErrNodeRequired
	}
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := sel.MatchFirst(c); found != nil {
			return found, nil
		}
	}
	return nil, nil
}

// QueryAll returns every descendant of n matching selector in document order.
func QueryAll(n *html.Node, selector string) ([]*html.Node, error) {
	if n == nil {
		return nil, ErrNodeRequired
	}
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, sel.MatchAll(c)...)
	}
	return out, nil
}

// Matches reports whether n itself matches selector.
func Matches(n *html.Node, selector string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	sel, err := compile(selector)
	if err != nil {
		return false
	}
	return sel.Match(n)
}

// Closest returns the nearest ancestor-or-self of n matching selector.
func Closest(n *html.Node, selector string) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if Matches(cur, selector) {
			return cur
		}
	}
	return nil
}

// SetInnerHTML replaces the children of n with the parsed markup.
func SetInnerHTML(n *html.Node, markup string) error {
	if n == nil {
		return ErrNodeRequired
	}
	context := n
	if context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("dom: parse fragment: %w", err)
	}
	Clear(n)
	for _, child := range nodes {
		n.AppendChild(child)
	}
	return nil
}

// AppendHTML parses markup and appends the result to n.
func AppendHTML(n *html.Node, markup string) error {
	if n == nil {
		return ErrNodeRequired
	}
	holder := &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
	if err := SetInnerHTML(holder, markup); err != nil {
		return err
	}
	for child := holder.FirstChild; child != nil; child = holder.FirstChild {
		holder.RemoveChild(child)
		n.AppendChild(child)
	}
	return nil
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// Render renders n including itself.
func Render(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	_ = html.Render(&b, n)
	return b.String()
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Clear removes every child of n.
func Clear(n *html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Element creates a detached element with the given attributes, supplied as
// name/value pairs.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

// Attr returns the value of attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key to value.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops attribute key.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	value, _ := Attr(n, "class")
	return strings.Fields(value)
}

// HasClass reports whether n carries class.
func HasClass(n *html.Node, class string) bool {
	return slices.Contains(Classes(n), class)
}

// AddClass adds class to n when absent.
func AddClass(n *html.Node, class string) {
	class = strings.TrimSpace(class)
	if n == nil || class == "" || HasClass(n, class) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), class), " "))
}

// RemoveClass drops class from n. The attribute is removed when it empties.
func RemoveClass(n *html.Node, class string) {
	if n == nil {
		return
	}
	kept := slices.DeleteFunc(Classes(n), func(c string) bool { return c == class })
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// RemoveClassPrefix drops every class of n starting with prefix.
func RemoveClassPrefix(n *html.Node, prefix string) {
	for _, class := range Classes(n) {
		if strings.HasPrefix(class, prefix) {
			RemoveClass(n, class)
		}
	}
}

// ToggleClass flips class on n and reports whether it is now present.
func ToggleClass(n *html.Node, class string) bool {
	if HasClass(n, class) {
		RemoveClass(n, class)
		return false
	}
	AddClass(n, class)
	return true
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}
