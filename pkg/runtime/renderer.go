package runtime

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/curvedex/curveui/pkg/dom"
	"github.com/curvedex/curveui/pkg/vdom"
)

// Renderer reconciles a previous VNode forest against a next one and applies
// the minimal DOM mutations: a single depth-first pass with positional
// matching, or key matching where a key prop is present. Tag or kind
// mismatches are never patched in place; the old subtree is torn down and
// the new one built fresh.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a renderer logging through l.
func NewRenderer(l *slog.Logger) *Renderer {
	if l == nil {
		l = slog.Default()
	}
	return &Renderer{logger: l}
}

// PatchChildren reconciles parent's children from prev to next. Keyed nodes
// are matched by key (reordering moves the existing DOM nodes), unkeyed
// nodes positionally. Nodes present only in prev are removed, with nested
// child components unmounted so their cleanups run. Key collisions within
// one list are a programmer error: they are warned about loudly and the
// first occurrence wins.
func (r *Renderer) PatchChildren(owner *Component, parent *dom.Element, prev, next []*vdom.VNode) {
	keyed := make(map[string]*vdom.VNode)
	var unkeyed []*vdom.VNode
	for _, p := range prev {
		if p.Key == "" {
			unkeyed = append(unkeyed, p)
			continue
		}
		if _, dup := keyed[p.Key]; dup {
			r.logger.Warn("duplicate key in children list", "key", p.Key)
			continue
		}
		keyed[p.Key] = p
	}

	matched := make(map[*vdom.VNode]bool)
	seen := make(map[string]bool)
	ui := 0
	for i, n := range next {
		var p *vdom.VNode
		if n.Key != "" {
			if seen[n.Key] {
				r.logger.Warn("duplicate key in children list", "key", n.Key)
			}
			seen[n.Key] = true
			if cand, ok := keyed[n.Key]; ok && !matched[cand] {
				if compatible(cand, n) {
					p = cand
				} else {
					// Same key, different kind: tear the old subtree down
					// before building fresh so the replacement lands at the
					// old position.
					matched[cand] = true
					r.remove(owner, cand)
				}
			}
		} else if ui < len(unkeyed) {
			cand := unkeyed[ui]
			ui++
			if compatible(cand, n) {
				p = cand
			}
		}

		ref := parent.ChildAt(i)
		if p == nil {
			r.insert(owner, parent, n, ref)
			continue
		}
		matched[p] = true
		r.patchNode(owner, p, n)
		if node := n.DOMNode(); node != nil && node != ref {
			parent.InsertBefore(node, ref)
		}
	}

	for _, p := range prev {
		if !matched[p] {
			r.remove(owner, p)
		}
	}
}

// Replace implements the string-template contract: the previous subtree is
// torn down wholesale (unmounting any child-component slots) and the next
// forest built fresh.
func (r *Renderer) Replace(owner *Component, parent *dom.Element, prev, next []*vdom.VNode) {
	for _, p := range prev {
		r.remove(owner, p)
	}
	parent.RemoveAllChildren()
	for _, n := range next {
		r.insert(owner, parent, n, nil)
	}
}

func compatible(p, n *vdom.VNode) bool {
	switch {
	case p.IsComponent() || n.IsComponent():
		return p.IsComponent() && n.IsComponent() &&
			p.Key != "" && p.Key == n.Key && sameSlot(p, n)
	case p.IsText() || n.IsText():
		return p.IsText() && n.IsText()
	default:
		return p.Tag == n.Tag
	}
}

// sameSlot reports whether n would produce the same widget kind already
// mounted for p. Factories compare by code pointer, explicit instances by
// dynamic type; any mismatch is incompatible and falls through to
// remove+create, never an in-place patch of the old instance.
func sameSlot(p, n *vdom.VNode) bool {
	switch nc := n.Component.(type) {
	case Factory:
		pc, ok := p.Component.(Factory)
		return ok && reflect.ValueOf(pc).Pointer() == reflect.ValueOf(nc).Pointer()
	case func() Widget:
		pc, ok := p.Component.(func() Widget)
		return ok && reflect.ValueOf(pc).Pointer() == reflect.ValueOf(nc).Pointer()
	case Widget:
		pw, ok := p.Instance().(Widget)
		return ok && pw != nil && reflect.TypeOf(pw) == reflect.TypeOf(nc)
	default:
		return false
	}
}

func (r *Renderer) insert(owner *Component, parent *dom.Element, n *vdom.VNode, ref dom.Node) {
	doc := parent.Document()
	switch {
	case n.IsText():
		t := doc.CreateText(n.Text)
		parent.InsertBefore(t, ref)
		n.BindDOM(t)
	case n.IsComponent():
		r.insertSlot(owner, parent, n, ref)
	default:
		el := r.buildElement(owner, doc, n)
		parent.InsertBefore(el, ref)
	}
}

func (r *Renderer) insertSlot(owner *Component, parent *dom.Element, n *vdom.VNode, ref dom.Node) {
	key := n.Key
	if key == "" {
		r.logger.Warn("component slot without key; instance will not be reused")
	}
	w := r.instantiate(n)
	if w == nil {
		return
	}
	owner.CreateChild(slotKey(key, w), w)
	// Props applied before mount are buffered into the initial render.
	if pr, ok := w.(PropReceiver); ok && n.Props != nil {
		r.safeApply(pr, n.Props)
	}
	if err := w.Base().mountBefore(parent, ref); err != nil {
		r.logger.Error("child component mount failed", "key", key, "err", err)
		return
	}
	n.BindDOM(w.Base().element)
	n.BindInstance(w)
}

func (r *Renderer) instantiate(n *vdom.VNode) Widget {
	switch f := n.Component.(type) {
	case Factory:
		return r.construct(f)
	case func() Widget:
		return r.construct(f)
	case Widget:
		return f
	default:
		r.logger.Warn("unsupported component slot value",
			"key", n.Key, "type", fmt.Sprintf("%T", n.Component))
		return nil
	}
}

func (r *Renderer) construct(f func() Widget) (w Widget) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("component factory panicked", "err", rec)
			w = nil
		}
	}()
	return f()
}

func (r *Renderer) buildElement(owner *Component, doc *dom.Document, n *vdom.VNode) *dom.Element {
	el := doc.CreateElement(n.Tag)
	for name, v := range n.Props {
		if vdom.IsHandlerProp(name, v) {
			l := el.AddListener(eventName(name), vdom.HandlerProp(v))
			n.BindListener(name, l)
			continue
		}
		if v == nil {
			continue
		}
		el.SetAttribute(name, fmt.Sprint(v))
	}
	for _, c := range n.Children {
		r.insert(owner, el, c, nil)
	}
	n.BindDOM(el)
	return el
}

func (r *Renderer) patchNode(owner *Component, p, n *vdom.VNode) {
	switch {
	case n.IsText():
		t, _ := p.DOMNode().(*dom.Text)
		if t == nil {
			return
		}
		if p.Text != n.Text {
			t.SetData(n.Text)
		}
		n.BindDOM(t)
	case n.IsComponent():
		n.BindDOM(p.DOMNode())
		w, _ := p.Instance().(Widget)
		n.BindInstance(w)
		if w == nil {
			return
		}
		// The parent's diff never peeks inside the child's DOM; the child
		// may turn new props into its own SetState.
		if pr, ok := w.(PropReceiver); ok {
			r.safeApply(pr, n.Props)
		}
	default:
		el, _ := p.DOMNode().(*dom.Element)
		if el == nil {
			return
		}
		n.BindDOM(el)
		r.patchProps(el, p, n)
		r.PatchChildren(owner, el, p.Children, n.Children)
	}
}

func (r *Renderer) patchProps(el *dom.Element, p, n *vdom.VNode) {
	for name, v := range n.Props {
		old := p.BoundListener(name)
		if vdom.IsHandlerProp(name, v) {
			// Handlers are never compared by value: always rebind.
			if old != nil {
				el.RemoveListener(old)
			}
			l := el.AddListener(eventName(name), vdom.HandlerProp(v))
			n.BindListener(name, l)
			continue
		}
		if old != nil {
			// Prop changed kind from handler to attribute.
			el.RemoveListener(old)
		}
		if v == nil {
			// nil means absent, matching the first-render skip.
			el.RemoveAttribute(name)
			continue
		}
		val := fmt.Sprint(v)
		if oldV, ok := p.Props[name]; !ok || old != nil || fmt.Sprint(oldV) != val {
			el.SetAttribute(name, val)
		}
	}
	for name := range p.Props {
		if n.Props != nil {
			if _, keep := n.Props[name]; keep {
				continue
			}
		}
		if old := p.BoundListener(name); old != nil {
			el.RemoveListener(old)
			continue
		}
		el.RemoveAttribute(name)
	}
}

func (r *Renderer) remove(owner *Component, p *vdom.VNode) {
	switch {
	case p.IsComponent():
		if w, ok := p.Instance().(Widget); ok && w != nil {
			w.Base().Unmount()
			if key := slotKey(p.Key, w); owner.GetChild(key) == w {
				owner.dropChild(key)
			}
		}
	case p.IsText():
		if t, ok := p.DOMNode().(*dom.Text); ok && t != nil {
			if par := t.Parent(); par != nil {
				par.RemoveChild(t)
			}
		}
	default:
		r.unmountSlots(owner, p)
		if el, ok := p.DOMNode().(*dom.Element); ok && el != nil {
			el.Dispose()
		}
	}
}

// unmountSlots unmounts every child-component slot nested inside a subtree
// being discarded, so cleanups run before the DOM is dropped.
func (r *Renderer) unmountSlots(owner *Component, p *vdom.VNode) {
	for _, c := range p.Children {
		if c.IsComponent() {
			if w, ok := c.Instance().(Widget); ok && w != nil {
				w.Base().Unmount()
				if key := slotKey(c.Key, w); owner.GetChild(key) == w {
					owner.dropChild(key)
				}
			}
			continue
		}
		r.unmountSlots(owner, c)
	}
}

func (r *Renderer) safeApply(pr PropReceiver, props map[string]any) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("ApplyProps panicked", "err", rec)
		}
	}()
	pr.ApplyProps(props)
}

// slotKey namespaces renderer-owned children so they cannot collide with
// keys the widget registers manually via CreateChild.
func slotKey(key string, w Widget) string {
	if key == "" && w != nil {
		key = w.Base().ID()
	}
	return "slot:" + key
}

func eventName(prop string) string {
	return strings.ToLower(strings.TrimPrefix(prop, "on"))
}
