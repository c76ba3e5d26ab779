package client

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/goliatone/go-headless/internal/dom"
	"golang.org/x/net/html"
)

// Session remembers what has already been injected into a document so
// repeated renders do not load the same asset twice.
type Session struct {
	mu        sync.Mutex
	styles    map[string]*html.Node
	kitStyles map[string]struct{}
	scripts   map[string]struct{}
	inline    map[string]*html.Node
}

var (
	sessionsMu sync.Mutex
	sessions   = map[*dom.Document]*Session{}
)

// SessionFor returns the session shared by every loader of doc. Loaders of
// different documents never share injected assets.
func SessionFor(doc *dom.Document) *Session {
	if doc == nil {
		return NewSession()
	}
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	session, ok := sessions[doc]
	if !ok {
		session = NewSession()
		sessions[doc] = session
	}
	return session
}

// ReleaseSession drops the session kept for doc.
func ReleaseSession(doc *dom.Document) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	delete(sessions, doc)
}

// NewSession returns an independent session.
func NewSession() *Session {
	return &Session{
		styles:    map[string]*html.Node{},
		kitStyles: map[string]struct{}{},
		scripts:   map[string]struct{}{},
		inline:    map[string]*html.Node{},
	}
}

// LoadedStyles returns the stylesheet URLs currently linked, sorted.
func (s *Session) LoadedStyles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.styles)
}

// LoadedScripts returns the script URLs loaded so far, sorted.
func (s *Session) LoadedScripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.scripts))
	for url := range s.scripts {
		out = append(out, url)
	}
	sort.Strings(out)
	return out
}

// InlineStyles reports how many inline style blocks are injected.
func (s *Session) InlineStyles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inline)
}

func (s *Session) hasStyle(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.styles[url]
	return ok
}

func (s *Session) rememberStyle(url string, node *html.Node, kit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles[url] = node
	if kit {
		s.kitStyles[url] = struct{}{}
	}
}

func (s *Session) hasInline(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inline[fingerprint]
	return ok
}

func (s *Session) rememberInline(fingerprint string, node *html.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inline[fingerprint] = node
}

func (s *Session) hasScript(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.scripts[url]
	return ok
}

func (s *Session) rememberScript(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[url] = struct{}{}
}

// forgetPageStyles drops the page specific stylesheets matched by isPage,
// never the Kit stylesheet, and every inline block. It returns the detached
// nodes for the caller to remove from the tree.
func (s *Session) forgetPageStyles(isPage func(url string) bool) []*html.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []*html.Node
	for url, node := range s.styles {
		if _, kit := s.kitStyles[url]; kit || !isPage(url) {
			continue
		}
		delete(s.styles, url)
		removed = append(removed, node)
	}
	for fingerprint, node := range s.inline {
		delete(s.inline, fingerprint)
		removed = append(removed, node)
	}
	return removed
}

func fingerprint(css string) string {
	sum := sha256.Sum256([]byte(css))
	return hex.EncodeToString(sum[:])
}

func sortedKeys(m map[string]*html.Node) []string {
	out := make([]string, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
