package client

import (
	"strings"

	"github.com/goliatone/go-headless/internal/bundle"
	"github.com/goliatone/go-headless/internal/dom"
	xhtml "golang.org/x/net/html"
)

func (l *Loader) loadStyles(b *bundle.Bundle, report *Report) {
	if b.Kit.CSSURL != nil {
		l.addLink(*b.Kit.CSSURL, true, report)
	}
	l.addInline(b.Kit.InlineCSS, "kit", report)
	for _, url := range b.StyleLinks {
		l.addLink(url, false, report)
	}
	l.addInline(b.InlineCSS, "page", report)
}

func (l *Loader) addLink(url string, isKit bool, report *Report) {
	url = strings.TrimSpace(url)
	if url == "" || l.session.hasStyle(url) {
		return
	}
	link := dom.Element("link", "rel", "stylesheet", "href", url)
	l.head().AppendChild(link)
	l.session.rememberStyle(url, link, isKit)
	report.StylesAdded = append(report.StylesAdded, url)
}

func (l *Loader) addInline(css, kind string, report *Report) {
	if strings.TrimSpace(css) == "" {
		return
	}
	fp := fingerprint(css)
	if l.session.hasInline(fp) {
		return
	}
	style := dom.Element("style", inlineAttr, kind)
	style.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: css})
	l.head().AppendChild(style)
	l.session.rememberInline(fp, style)
	report.InlineAdded++
}

func (l *Loader) head() *xhtml.Node {
	if head := l.doc.Head(); head != nil {
		return head
	}
	return l.doc.Root()
}
