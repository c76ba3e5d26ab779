package elements

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-headless/pkg/testsupport"
)

func loadTree(t *testing.T, path string) []Node {
	t.Helper()
	tree, err := ParseTree(testsupport.Fixture(t, path))
	if err != nil {
		t.Fatalf("parse tree: %v", err)
	}
	return tree
}

func TestScanReturnsTypesInFirstAppearanceOrder(t *testing.T) {
	tree := loadTree(t, "testdata/landing.json")

	got := Scan(tree)
	want := []string{"heading", "image-carousel", "tabs"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestScanDescendsIntoEveryKind(t *testing.T) {
	tree := []Node{{
		ID:     "odd",
		ElType: "unknown-wrapper",
		Elements: []Node{
			{ID: "w", ElType: KindWidget, WidgetType: "button"},
		},
	}}
	if got := Scan(tree); !reflect.DeepEqual(got, []string{"button"}) {
		t.Fatalf("expected nested widget to be found, got %v", got)
	}
}

func TestScanIgnoresWidgetsWithoutType(t *testing.T) {
	tree := []Node{{ID: "w", ElType: KindWidget}}
	if got := Scan(tree); len(got) != 0 {
		t.Fatalf("expected no types, got %v", got)
	}
}

func TestInventoryMemoisesPerPage(t *testing.T) {
	tree := loadTree(t, "testdata/landing.json")
	inv := NewInventory()
	loads := 0
	load := func() []Node {
		loads++
		return tree
	}

	first := inv.WidgetTypes(10, load)
	second := inv.WidgetTypes(10, load)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected stable results, got %v and %v", first, second)
	}
	if loads != 1 || inv.Scans() != 1 {
		t.Fatalf("expected a single scan, got loads=%d scans=%d", loads, inv.Scans())
	}

	first[0] = "mutated"
	if inv.WidgetTypes(10, load)[0] != "heading" {
		t.Fatal("expected memo to be isolated from callers")
	}

	inv.WidgetTypes(11, func() []Node { return nil })
	if inv.Scans() != 2 {
		t.Fatalf("expected a second page to scan, got %d", inv.Scans())
	}
}

func TestParseTreeAcceptsWrappedObject(t *testing.T) {
	tree, err := ParseTree([]byte(`{"elements":[{"id":"a","elType":"widget","widgetType":"spacer"}]}`))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if len(tree) != 1 || tree[0].WidgetType != "spacer" {
		t.Fatalf("unexpected tree %+v", tree)
	}
}

func TestNodeSetting(t *testing.T) {
	node := Node{Settings: map[string]any{"title": "  Hi ", "size": 3.0}}
	if node.Setting("title") != "Hi" || node.Setting("size") != "3" || node.Setting("missing") != "" {
		t.Fatalf("unexpected settings %q %q", node.Setting("title"), node.Setting("size"))
	}
}

func TestParseTreeMatchesPlainDecode(t *testing.T) {
	var plain []Node
	testsupport.FixtureJSON(t, "testdata/landing.json", &plain)
	tree := loadTree(t, "testdata/landing.json")
	if !reflect.DeepEqual(plain, tree) {
		t.Fatalf("expected ParseTree to match plain decode")
	}
}
