package dom

// Element is a tagged node with attributes, children, and event listeners.
// Element identity is stable: moving an element to a new position keeps its
// listeners, focus, and scroll state intact.
type Element struct {
	id        string
	tag       string
	attrs     map[string]string
	children  []Node
	parent    *Element
	doc       *Document
	listeners map[string][]*Listener
	scrollTop int
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// Type implements Node.
func (e *Element) Type() NodeType { return ElementNode }

// Parent implements Node.
func (e *Element) Parent() *Element { return e.parent }

func (e *Element) setParent(p *Element) { e.parent = p }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// SetAttribute sets an attribute value, replacing any previous value.
func (e *Element) SetAttribute(name, value string) {
	e.attrs[name] = value
}

// RemoveAttribute deletes an attribute. Removing an absent attribute is a
// no-op.
func (e *Element) RemoveAttribute(name string) {
	delete(e.attrs, name)
}

// Attribute returns an attribute value and whether it is set.
func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Attributes returns a copy of the attribute map.
func (e *Element) Attributes() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// Children returns a copy of the child list.
func (e *Element) Children() []Node {
	out := make([]Node, len(e.children))
	copy(out, e.children)
	return out
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return len(e.children) }

// ChildAt returns the child at index i, or nil if out of range.
func (e *Element) ChildAt(i int) Node {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// AppendChild adds n as the last child. If n already has a parent it is
// moved, not copied; its listeners and state travel with it.
func (e *Element) AppendChild(n Node) {
	detach(n)
	n.setParent(e)
	e.children = append(e.children, n)
}

// InsertBefore inserts n immediately before ref. A nil ref appends. If ref
// is not a child of e, n is appended.
func (e *Element) InsertBefore(n, ref Node) {
	if ref == nil {
		e.AppendChild(n)
		return
	}
	detach(n)
	for i, c := range e.children {
		if c == ref {
			n.setParent(e)
			e.children = append(e.children[:i], append([]Node{n}, e.children[i:]...)...)
			return
		}
	}
	n.setParent(e)
	e.children = append(e.children, n)
}

// RemoveChild detaches n from e. Removing a node that is not a child is a
// no-op. The node keeps its listeners and may be re-inserted.
func (e *Element) RemoveChild(n Node) {
	if n.Parent() != e {
		return
	}
	for i, c := range e.children {
		if c == n {
			e.children = append(e.children[:i], e.children[i+1:]...)
			n.setParent(nil)
			return
		}
	}
}

// RemoveAllChildren detaches every child.
func (e *Element) RemoveAllChildren() {
	for _, c := range e.children {
		c.setParent(nil)
	}
	e.children = nil
}

// Detach removes the element from its parent, if any.
func (e *Element) Detach() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Dispose detaches the element and releases it and all descendant elements
// from the document registry, dropping their listeners. A disposed element
// must not be re-inserted.
func (e *Element) Dispose() {
	e.Detach()
	e.dispose()
}

func (e *Element) dispose() {
	e.listeners = nil
	e.doc.forget(e)
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			el.dispose()
		}
	}
}

// SetTextContent replaces all children with a single text node. An empty
// string just empties the element.
func (e *Element) SetTextContent(s string) {
	e.RemoveAllChildren()
	if s != "" {
		e.AppendChild(e.doc.CreateText(s))
	}
}

// TextContent returns the concatenated text of all descendant text nodes.
func (e *Element) TextContent() string {
	var out string
	for _, c := range e.children {
		switch n := c.(type) {
		case *Text:
			out += n.data
		case *Element:
			out += n.TextContent()
		}
	}
	return out
}

// Focus makes this element the document's active element.
func (e *Element) Focus() {
	e.doc.active = e
}

// Blur clears focus if this element holds it.
func (e *Element) Blur() {
	if e.doc.active == e {
		e.doc.active = nil
	}
}

// Focused reports whether this element is the document's active element.
func (e *Element) Focused() bool {
	return e.doc.active == e
}

// ScrollTop returns the element's scroll offset.
func (e *Element) ScrollTop() int { return e.scrollTop }

// SetScrollTop records the element's scroll offset.
func (e *Element) SetScrollTop(v int) { e.scrollTop = v }

func detach(n Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

// Text is a leaf node holding character data.
type Text struct {
	data   string
	parent *Element
	doc    *Document
}

// Type implements Node.
func (t *Text) Type() NodeType { return TextNode }

// Parent implements Node.
func (t *Text) Parent() *Element { return t.parent }

func (t *Text) setParent(p *Element) { t.parent = p }

// Data returns the text content.
func (t *Text) Data() string { return t.data }

// SetData replaces the text content in place.
func (t *Text) SetData(s string) { t.data = s }
