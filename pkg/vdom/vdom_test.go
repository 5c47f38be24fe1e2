package vdom

import (
	"testing"

	"github.com/curvedex/curveui/pkg/dom"
)

func TestH_LiftsKeyProp(t *testing.T) {
	n := H("li", map[string]any{"key": 42, "class": "row"})
	if n.Key != "42" {
		t.Errorf("Key = %q, want %q", n.Key, "42")
	}
	if _, ok := n.Props["key"]; ok {
		t.Error("key prop should not remain in Props")
	}
	if n.Props["class"] != "row" {
		t.Error("other props should survive key lifting")
	}
}

func TestH_ChildCoercion(t *testing.T) {
	rows := []*VNode{H("li", nil, "a"), H("li", nil, "b")}
	n := H("ul", nil, "text", 7, nil, rows, H("li", nil))

	if len(n.Children) != 5 {
		t.Fatalf("expected 5 children, got %d", len(n.Children))
	}
	if !n.Children[0].IsText() || n.Children[0].Text != "text" {
		t.Error("string child should become a text node")
	}
	if n.Children[1].Text != "7" {
		t.Error("numeric child should be formatted as text")
	}
	if n.Children[2] != rows[0] || n.Children[3] != rows[1] {
		t.Error("slice children should be flattened in order")
	}
}

func TestIsHandlerProp(t *testing.T) {
	var h dom.Handler = func(*dom.Event) {}
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"onclick", h, true},
		{"onclick", func(*dom.Event) {}, true},
		{"onclick", "not a func", false},
		{"class", h, false},
		{"on", h, false},
	}
	for _, tc := range tests {
		if got := IsHandlerProp(tc.name, tc.value); got != tc.want {
			t.Errorf("IsHandlerProp(%q, %T) = %v, want %v", tc.name, tc.value, got, tc.want)
		}
	}
}

func TestRenderOutput(t *testing.T) {
	if out := HTML("<p>hi</p>"); out.Mode() != ModeHTML || out.HTML() != "<p>hi</p>" {
		t.Error("HTML output lost its payload")
	}
	tree := H("div", nil)
	if out := Tree(tree); out.Mode() != ModeTree || out.Tree() != tree {
		t.Error("Tree output lost its payload")
	}
	if !HTML("").Empty() || !Tree(nil).Empty() {
		t.Error("empty outputs should report Empty")
	}
	if HTML("<p></p>").Empty() || Tree(tree).Empty() {
		t.Error("non-empty outputs should not report Empty")
	}
}

func TestParseHTML(t *testing.T) {
	nodes, err := ParseHTML(`<div class="panel"><span>ETH</span> <b>price</b></div>`)
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 root, got %d", len(nodes))
	}
	root := nodes[0]
	if root.Tag != "div" || root.Props["class"] != "panel" {
		t.Errorf("root = %s %v", root.Tag, root.Props)
	}
	// Whitespace-only text between elements is dropped.
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if root.Children[0].Tag != "span" || root.Children[1].Tag != "b" {
		t.Error("child order lost")
	}
	if root.Children[0].Children[0].Text != "ETH" {
		t.Error("text content lost")
	}
}

func TestParseHTML_Fragment(t *testing.T) {
	nodes, err := ParseHTML(`<h2>Holdings</h2><ul><li>one</li></ul>`)
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(nodes))
	}
	if nodes[0].Tag != "h2" || nodes[1].Tag != "ul" {
		t.Errorf("roots = %s, %s", nodes[0].Tag, nodes[1].Tag)
	}
}

func TestParseHTML_Empty(t *testing.T) {
	nodes, err := ParseHTML("")
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("empty template should parse to nothing, got %d nodes", len(nodes))
	}
}
