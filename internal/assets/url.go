package assets

import (
	"net/url"
	"strings"
)

// Normalizer turns host relative asset URLs into absolute ones.
type Normalizer struct {
	base *url.URL
}

// NewNormalizer parses siteURL. An empty or unparsable site URL yields a
// normalizer that leaves URLs untouched.
func NewNormalizer(siteURL string) Normalizer {
	trimmed := strings.TrimSpace(siteURL)
	if trimmed == "" {
		return Normalizer{}
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Normalizer{}
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	return Normalizer{base: parsed}
}

// Absolute returns raw resolved against the site URL. Absolute and protocol
// relative URLs are returned as is.
func (n Normalizer) Absolute(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "//") || n.base == nil {
		return trimmed
	}
	ref, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if ref.IsAbs() {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "/") {
		return n.base.Scheme + "://" + n.base.Host + trimmed
	}
	return n.base.ResolveReference(ref).String()
}

// Base returns the normalised site URL without a trailing slash.
func (n Normalizer) Base() string {
	if n.base == nil {
		return ""
	}
	return strings.TrimSuffix(n.base.String(), "/")
}
