package kit

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-headless/internal/documents"
)

// DefaultClassPrefix is prepended to the Kit id to form the wrapper class.
const DefaultClassPrefix = "elementor-kit-"

// Kit is the site-wide design settings document.
type Kit struct {
	ID         int64
	CSSMode    documents.CSSMode
	CSSFileURL string
	InlineCSS  string
}

// Data is the wire form of the active Kit.
type Data struct {
	ID        *int64  `json:"id"`
	CSSURL    *string `json:"cssUrl"`
	InlineCSS string  `json:"inlineCss"`
}

// Source returns the active Kit. A nil Kit with a nil error means no Kit is
// configured.
type Source interface {
	ActiveKit(ctx context.Context) (*Kit, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*Kit, error)

func (fn SourceFunc) ActiveKit(ctx context.Context) (*Kit, error) {
	return fn(ctx)
}

// StaticSource always returns the same Kit.
type StaticSource struct {
	Kit *Kit
}

func (s StaticSource) ActiveKit(context.Context) (*Kit, error) {
	if s.Kit == nil || s.Kit.ID <= 0 {
		return nil, nil
	}
	cloned := *s.Kit
	return &cloned, nil
}

// ToData converts k to its wire form. File and inline delivery are exclusive:
// a file mode Kit never carries inline CSS and vice versa.
func ToData(k *Kit) Data {
	if k == nil || k.ID <= 0 {
		return Data{}
	}
	id := k.ID
	data := Data{ID: &id}
	switch k.CSSMode {
	case documents.CSSModeInline:
		data.InlineCSS = k.InlineCSS
	default:
		if url := strings.TrimSpace(k.CSSFileURL); url != "" {
			data.CSSURL = &url
		}
	}
	return data
}

// ClassName returns the wrapper class for a Kit id, or "" when id is unset.
func ClassName(prefix string, id int64) string {
	if id <= 0 {
		return ""
	}
	if prefix == "" {
		prefix = DefaultClassPrefix
	}
	return prefix + strconv.FormatInt(id, 10)
}
