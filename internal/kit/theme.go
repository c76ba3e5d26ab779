package kit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-headless/internal/documents"
	gotheme "github.com/goliatone/go-theme"
)

// Tokens exposes design tokens as CSS custom properties.
type Tokens interface {
	CSSVariables(prefix string) map[string]string
}

// LoadTheme loads the theme manifest under dir and selects theme/variant.
func LoadTheme(dir, theme, variant string) (*gotheme.Selection, error) {
	cleaned := filepath.Clean(strings.TrimSpace(dir))
	if cleaned == "" || cleaned == "." {
		return nil, fmt.Errorf("kit: theme directory required")
	}
	manifest, err := gotheme.LoadDir(os.DirFS(cleaned), ".")
	if err != nil {
		return nil, fmt.Errorf("kit: load theme manifest from %s: %w", cleaned, err)
	}
	if name := strings.TrimSpace(theme); name != "" {
		manifest.Name = name
	}
	if strings.TrimSpace(manifest.Name) == "" {
		return nil, fmt.Errorf("kit: theme name required for manifest registration")
	}

	registry := gotheme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("kit: register theme manifest: %w", err)
	}
	selector := gotheme.Selector{
		Registry:       registry,
		DefaultTheme:   manifest.Name,
		DefaultVariant: strings.TrimSpace(variant),
	}
	selection, err := selector.Select(manifest.Name, strings.TrimSpace(variant))
	if err != nil {
		return nil, fmt.Errorf("kit: select theme %s: %w", manifest.Name, err)
	}
	return selection, nil
}

// ThemeSource decorates a Source with the global design tokens of a theme,
// emitted as a rule scoped to the Kit wrapper class. A Kit without a CSS file
// is switched to inline delivery so the tokens reach the client.
type ThemeSource struct {
	base        Source
	tokens      Tokens
	prefix      string
	classPrefix string
}

// NewThemeSource builds a ThemeSource. prefix names the custom property
// namespace, e.g. "e-global".
func NewThemeSource(base Source, tokens Tokens, prefix, classPrefix string) *ThemeSource {
	return &ThemeSource{base: base, tokens: tokens, prefix: prefix, classPrefix: classPrefix}
}

func (s *ThemeSource) ActiveKit(ctx context.Context) (*Kit, error) {
	if s.base == nil {
		return nil, nil
	}
	k, err := s.base.ActiveKit(ctx)
	if err != nil || k == nil || s.tokens == nil {
		return k, err
	}

	rule := TokensRule(ClassName(s.classPrefix, k.ID), s.tokens.CSSVariables(s.prefix))
	if rule == "" {
		return k, nil
	}
	if k.CSSMode == documents.CSSModeFile && strings.TrimSpace(k.CSSFileURL) != "" {
		return k, nil
	}
	k.CSSMode = documents.CSSModeInline
	if k.InlineCSS == "" {
		k.InlineCSS = rule
	} else {
		k.InlineCSS = strings.TrimRight(k.InlineCSS, "\n") + "\n" + rule
	}
	return k, nil
}

// TokensRule renders vars as one declaration block for className. Keys are
// sorted so output is stable.
func TokensRule(className string, vars map[string]string) string {
	if className == "" || len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.TrimSpace(key) != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(".")
	b.WriteString(className)
	b.WriteString("{")
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(strings.TrimSpace(vars[key]))
		b.WriteString(";")
	}
	b.WriteString("}")
	return b.String()
}
