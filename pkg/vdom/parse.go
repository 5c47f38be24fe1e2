package vdom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses string-template render output into a VNode forest.
// Whitespace-only text between elements is dropped; comments are ignored.
// The fragment is parsed in a div context, so flow content behaves the way
// it would inside a component's root element.
func ParseHTML(s string) ([]*VNode, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	var out []*VNode
	for _, n := range nodes {
		if v := fromHTMLNode(n); v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func fromHTMLNode(n *html.Node) *VNode {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return Text(n.Data)
	case html.ElementNode:
		v := &VNode{Tag: n.Data}
		if len(n.Attr) > 0 {
			v.Props = make(map[string]any, len(n.Attr))
			for _, a := range n.Attr {
				v.Props[a.Key] = a.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if cv := fromHTMLNode(c); cv != nil {
				v.Children = append(v.Children, cv)
			}
		}
		return v
	default:
		return nil
	}
}
