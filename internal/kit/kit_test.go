package kit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/kit"
)

type fakeTokens map[string]string

func (f fakeTokens) CSSVariables(prefix string) map[string]string {
	out := make(map[string]string, len(f))
	for key, value := range f {
		out[prefix+"-"+key] = value
	}
	return out
}

func TestToDataFileAndInlineAreExclusive(t *testing.T) {
	file := kit.ToData(&kit.Kit{ID: 5, CSSMode: documents.CSSModeFile, CSSFileURL: "/uploads/post-5.css", InlineCSS: "ignored"})
	if file.ID == nil || *file.ID != 5 {
		t.Fatalf("expected id 5, got %v", file.ID)
	}
	if file.CSSURL == nil || *file.CSSURL != "/uploads/post-5.css" || file.InlineCSS != "" {
		t.Fatalf("unexpected file data %+v", file)
	}

	inline := kit.ToData(&kit.Kit{ID: 5, CSSMode: documents.CSSModeInline, CSSFileURL: "/ignored.css", InlineCSS: ".a{}"})
	if inline.CSSURL != nil || inline.InlineCSS != ".a{}" {
		t.Fatalf("unexpected inline data %+v", inline)
	}

	empty := kit.ToData(nil)
	if empty.ID != nil || empty.CSSURL != nil || empty.InlineCSS != "" {
		t.Fatalf("expected empty data, got %+v", empty)
	}
}

func TestClassName(t *testing.T) {
	if got := kit.ClassName("", 12); got != "elementor-kit-12" {
		t.Fatalf("unexpected class %q", got)
	}
	if got := kit.ClassName("site-kit-", 3); got != "site-kit-3" {
		t.Fatalf("unexpected class %q", got)
	}
	if got := kit.ClassName("", 0); got != "" {
		t.Fatalf("expected empty class, got %q", got)
	}
}

func TestStaticSourceIgnoresUnsetKit(t *testing.T) {
	k, err := kit.StaticSource{Kit: &kit.Kit{}}.ActiveKit(context.Background())
	if err != nil || k != nil {
		t.Fatalf("expected no kit, got %v %v", k, err)
	}
}

func TestThemeSourceInlinesTokens(t *testing.T) {
	base := kit.StaticSource{Kit: &kit.Kit{ID: 7, CSSMode: documents.CSSModeFile}}
	source := kit.NewThemeSource(base, fakeTokens{"primary": "#336699", "accent": "#ff0000"}, "e-global", "")

	k, err := source.ActiveKit(context.Background())
	if err != nil {
		t.Fatalf("ActiveKit: %v", err)
	}
	want := ".elementor-kit-7{--e-global-accent:#ff0000;--e-global-primary:#336699;}"
	if k.CSSMode != documents.CSSModeInline || k.InlineCSS != want {
		t.Fatalf("unexpected kit %+v", k)
	}
}

func TestThemeSourceKeepsFileDelivery(t *testing.T) {
	base := kit.StaticSource{Kit: &kit.Kit{ID: 7, CSSMode: documents.CSSModeFile, CSSFileURL: "/kit.css"}}
	source := kit.NewThemeSource(base, fakeTokens{"primary": "#000"}, "e-global", "")

	k, _ := source.ActiveKit(context.Background())
	if k.CSSMode != documents.CSSModeFile || k.InlineCSS != "" {
		t.Fatalf("expected file kit untouched, got %+v", k)
	}
}

func TestThemeSourcePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	source := kit.NewThemeSource(kit.SourceFunc(func(context.Context) (*kit.Kit, error) {
		return nil, boom
	}), fakeTokens{"a": "b"}, "e-global", "")

	if _, err := source.ActiveKit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestLoadThemeRequiresDirectory(t *testing.T) {
	if _, err := kit.LoadTheme(" ", "", ""); err == nil {
		t.Fatal("expected error for blank directory")
	}
}
