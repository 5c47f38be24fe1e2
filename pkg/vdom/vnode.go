// Package vdom provides the virtual node tree components describe their
// output with. A VNode is a lightweight description of a DOM element, a text
// leaf, or a child component slot; it carries no behavior beyond tree
// construction. The runtime's renderer consumes previous/next trees to
// compute minimal DOM patches.
package vdom

import (
	"fmt"
	"strings"

	"github.com/curvedex/curveui/pkg/dom"
)

// VNode describes one node of desired output.
type VNode struct {
	// Tag is the DOM tag name for element nodes. Empty for text and
	// component nodes.
	Tag string
	// Props maps attribute and handler names to values. Names starting
	// with "on" holding a dom.Handler are event handlers; they are never
	// diffed by value, only rebound.
	Props map[string]any
	// Children is the ordered child list. Empty is valid and renders
	// nothing.
	Children []*VNode
	// Text holds character data for text nodes.
	Text string
	// Component is an opaque child-component binding interpreted by the
	// renderer; see runtime.Child.
	Component any
	// Key enables identity matching within one children list. Taken from
	// the "key" prop when present.
	Key string

	node      dom.Node
	listeners map[string]*dom.Listener
	instance  any
}

// H builds an element VNode. Children may be *VNode, string, or any value
// formattable with fmt.Sprint (rendered as text); nil children are skipped.
// A "key" prop is lifted onto the node and not emitted as an attribute.
func H(tag string, props map[string]any, children ...any) *VNode {
	n := &VNode{Tag: tag, Props: props}
	if props != nil {
		if k, ok := props["key"]; ok {
			n.Key = fmt.Sprint(k)
			delete(props, "key")
		}
	}
	for _, c := range children {
		switch v := c.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case string:
			n.Children = append(n.Children, Text(v))
		case []*VNode:
			for _, cv := range v {
				if cv != nil {
					n.Children = append(n.Children, cv)
				}
			}
		default:
			n.Children = append(n.Children, Text(fmt.Sprint(v)))
		}
	}
	return n
}

// Text builds a text VNode.
func Text(s string) *VNode {
	return &VNode{Text: s}
}

// Textf builds a formatted text VNode.
func Textf(format string, args ...any) *VNode {
	return &VNode{Text: fmt.Sprintf(format, args...)}
}

// Slot builds a child-component VNode. The component value is interpreted by
// the renderer, which owns the instance lifecycle; key identifies the slot
// across renders.
func Slot(key string, component any, props map[string]any) *VNode {
	return &VNode{Component: component, Key: key, Props: props}
}

// IsText reports whether the node is a text leaf.
func (n *VNode) IsText() bool {
	return n.Tag == "" && n.Component == nil
}

// IsComponent reports whether the node is a child component slot.
func (n *VNode) IsComponent() bool {
	return n.Component != nil
}

// IsHandlerProp reports whether a prop name/value pair is an event handler
// binding ("on" prefix with a handler-typed value).
func IsHandlerProp(name string, value any) bool {
	if !strings.HasPrefix(name, "on") || len(name) <= 2 {
		return false
	}
	switch value.(type) {
	case dom.Handler, func(*dom.Event):
		return true
	}
	return false
}

// HandlerProp coerces a handler prop value to a dom.Handler.
func HandlerProp(value any) dom.Handler {
	switch h := value.(type) {
	case dom.Handler:
		return h
	case func(*dom.Event):
		return h
	}
	return nil
}

// The renderer binds live DOM state onto the previous tree so the next diff
// can reuse it. These accessors are for the renderer, not component code.

// DOMNode returns the live DOM node the renderer bound to this vnode.
func (n *VNode) DOMNode() dom.Node { return n.node }

// BindDOM records the live DOM node for this vnode.
func (n *VNode) BindDOM(d dom.Node) { n.node = d }

// BoundListener returns the live listener bound for a handler prop name.
func (n *VNode) BoundListener(name string) *dom.Listener {
	return n.listeners[name]
}

// BindListener records the live listener for a handler prop name. A nil
// listener clears the binding.
func (n *VNode) BindListener(name string, l *dom.Listener) {
	if n.listeners == nil {
		n.listeners = make(map[string]*dom.Listener)
	}
	if l == nil {
		delete(n.listeners, name)
		return
	}
	n.listeners[name] = l
}

// Instance returns the mounted child component bound to this slot.
func (n *VNode) Instance() any { return n.instance }

// BindInstance records the mounted child component for this slot.
func (n *VNode) BindInstance(inst any) { n.instance = inst }
