// Package dom implements the in-memory document tree the UI runtime renders
// into. It models the subset of the browser DOM the runtime needs: an element
// tree with attributes, per-node event listeners, bubbling dispatch, and
// focus/scroll bookkeeping. The node API is the boundary a real browser
// backend would implement; everything here runs without one, which is what
// makes the runtime testable.
package dom

import (
	"github.com/oklog/ulid/v2"
)

// NodeType discriminates the two node kinds in the tree.
type NodeType int

const (
	// ElementNode is a tagged element with attributes and children.
	ElementNode NodeType = iota
	// TextNode is a leaf holding character data.
	TextNode
)

// Node is a member of the document tree.
type Node interface {
	// Type returns the node kind.
	Type() NodeType

	// Parent returns the containing element, or nil for a detached node.
	Parent() *Element

	setParent(*Element)
	serialize(w *writer)
}

// Document owns a node tree rooted at Body and tracks document-wide state:
// the focused element and the id registry used for selector queries.
type Document struct {
	body   *Element
	active *Element
	byID   map[string]*Element
}

// NewDocument creates a document with an empty body element.
func NewDocument() *Document {
	d := &Document{byID: make(map[string]*Element)}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the document's root element.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement creates a detached element owned by this document.
func (d *Document) CreateElement(tag string) *Element {
	e := &Element{
		id:    ulid.Make().String(),
		tag:   tag,
		attrs: make(map[string]string),
		doc:   d,
	}
	d.byID[e.id] = e
	return e
}

// CreateText creates a detached text node owned by this document.
func (d *Document) CreateText(data string) *Text {
	return &Text{data: data, doc: d}
}

// ActiveElement returns the element holding focus, or nil.
func (d *Document) ActiveElement() *Element {
	return d.active
}

// HTML serializes the whole document body.
func (d *Document) HTML() string {
	return d.body.OuterHTML()
}

func (d *Document) lookup(id string) *Element {
	return d.byID[id]
}

func (d *Document) forget(e *Element) {
	delete(d.byID, e.id)
	if d.active == e {
		d.active = nil
	}
}
