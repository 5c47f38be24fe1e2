package runtime

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/curvedex/curveui/pkg/dom"
	"github.com/curvedex/curveui/pkg/vdom"
)

// Component is the base every widget embeds. It owns one DOM subtree, a
// local state map, registered child components, named refs, and cleanup
// callbacks. Construction never touches the DOM; only Mount does.
type Component struct {
	self     Widget
	name     string
	id       string
	logger   *slog.Logger
	renderer *Renderer

	phase    Lifecycle
	doc      *dom.Document
	element  *dom.Element
	rootTag  string
	rootAttr map[string]string

	state    map[string]any
	children map[string]Widget
	order    []string
	refs     map[string]*dom.Element
	cleanups []func()
	prev     []*vdom.VNode
}

// ComponentOption configures a component at Init time.
type ComponentOption func(*Component)

// WithRootTag sets the tag of the component's root element (default "div").
func WithRootTag(tag string) ComponentOption {
	return func(c *Component) { c.rootTag = tag }
}

// WithRootAttrs sets attributes applied to the root element at mount.
func WithRootAttrs(attrs map[string]string) ComponentOption {
	return func(c *Component) { c.rootAttr = attrs }
}

// WithLogger sets the component's logger.
func WithLogger(l *slog.Logger) ComponentOption {
	return func(c *Component) { c.logger = l }
}

// WithState seeds initial state.
func WithState(initial map[string]any) ComponentOption {
	return func(c *Component) {
		for k, v := range initial {
			c.state[k] = v
		}
	}
}

// Init wires the embedding widget to its base. Every constructor calls it
// exactly once before the component is used.
func (c *Component) Init(self Widget, opts ...ComponentOption) {
	c.self = self
	c.id = ulid.Make().String()
	c.name = widgetName(self)
	c.rootTag = "div"
	c.state = make(map[string]any)
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", c.name)
	c.renderer = &Renderer{logger: c.logger}
}

// Base implements Widget for the embedding type.
func (c *Component) Base() *Component { return c }

// ID returns the component's instance id.
func (c *Component) ID() string { return c.id }

// Phase returns the current lifecycle state.
func (c *Component) Phase() Lifecycle { return c.phase }

// Element returns the root DOM node this instance owns: nil before mount
// and after unmount.
func (c *Component) Element() *dom.Element { return c.element }

// Document returns the document the component is mounted into, or nil.
func (c *Component) Document() *dom.Document { return c.doc }

// StillMounted reports whether late-arriving asynchronous results may still
// be applied to state. Components check it before SetState from async work;
// the runtime does not cancel in-flight work on unmount.
func (c *Component) StillMounted() bool { return c.phase == Mounted }

// State returns a top-level copy of the component's state.
func (c *Component) State() map[string]any {
	return c.snapshotState()
}

// StateValue returns one state entry and whether it is set.
func (c *Component) StateValue(key string) (any, bool) {
	v, ok := c.state[key]
	return v, ok
}

// Mount builds the component's element from the current render output,
// appends it to container, transitions to mounted, then invokes the OnMount
// hook without awaiting any asynchronous work it starts. Mounting an
// already-mounted component is a no-op.
func (c *Component) Mount(container *dom.Element) error {
	return c.mountBefore(container, nil)
}

func (c *Component) mountBefore(container *dom.Element, ref dom.Node) error {
	if c.self == nil {
		return ErrNotInitialized
	}
	if container == nil {
		return ErrNoContainer
	}
	if c.phase != Unmounted {
		c.logger.Debug("mount skipped", "phase", c.phase.String())
		return nil
	}
	c.phase = Mounting
	c.doc = container.Document()
	c.element = c.doc.CreateElement(c.rootTag)
	for k, v := range c.rootAttr {
		c.element.SetAttribute(k, v)
	}
	container.InsertBefore(c.element, ref)

	// State mutations made before mount were buffered; they feed this
	// initial render. A failed first render leaves the element empty but
	// mounted, matching the best-effort contract.
	if err := c.applyRender(); err != nil {
		c.logger.Error("initial render failed", "err", err)
	}
	c.phase = Mounted

	if m, ok := c.self.(Mounter); ok {
		c.safeHook("OnMount", m.OnMount)
	}
	return nil
}

// SetState merges partial into state (shallow, top-level keys only). When
// mounted, OnStateUpdate runs with the old and merged state, then the
// component re-renders synchronously. A render failure leaves the previous
// DOM displayed and is logged, never swallowed as fatal. Before mount the
// merge is buffered into the initial render.
func (c *Component) SetState(partial map[string]any) {
	if c.self == nil {
		return
	}
	old := c.snapshotState()
	for k, v := range partial {
		c.state[k] = v
	}
	if c.phase != Mounted {
		return
	}
	if obs, ok := c.self.(StateObserver); ok {
		next := c.snapshotState()
		c.safeHook("OnStateUpdate", func() { obs.OnStateUpdate(old, next) })
	}
	if err := c.applyRender(); err != nil {
		c.logger.Error("render failed, keeping previous DOM", "err", err)
	}
}

// Update re-renders explicitly, reconciling the current render output
// against the live DOM. It returns ErrNotMounted outside the mounted state
// and any render failure (the previous DOM stays displayed).
func (c *Component) Update() error {
	if c.phase != Mounted {
		return ErrNotMounted
	}
	return c.applyRender()
}

// Unmount runs cleanups in registration order (each failure isolated),
// recursively unmounts registered children, invokes the OnUnmount hook, and
// detaches the element. Calling it twice is a no-op.
func (c *Component) Unmount() {
	if c.phase == Unmounted || c.phase == Unmounting {
		return
	}
	c.phase = Unmounting

	fns := c.cleanups
	c.cleanups = nil
	for i, fn := range fns {
		c.safeHook(fmt.Sprintf("cleanup[%d]", i), fn)
	}

	for _, key := range c.order {
		if child, ok := c.children[key]; ok && child != nil {
			child.Base().Unmount()
		}
	}
	c.children = nil
	c.order = nil

	if u, ok := c.self.(Unmounter); ok {
		c.safeHook("OnUnmount", u.OnUnmount)
	}

	if c.element != nil {
		c.element.Dispose()
		c.element = nil
	}
	c.refs = nil
	c.prev = nil
	c.phase = Unmounted
}

// GetRef returns a DOM node for name, resolving selector against the
// component's element when not cached. The cache is invalidated by every
// re-render. Returns nil when unmounted or when nothing matches.
func (c *Component) GetRef(name, selector string) *dom.Element {
	if c.element == nil {
		return nil
	}
	if el, ok := c.refs[name]; ok {
		return el
	}
	el, ok := c.element.Query(selector)
	if !ok {
		return nil
	}
	if c.refs == nil {
		c.refs = make(map[string]*dom.Element)
	}
	c.refs[name] = el
	return el
}

// CreateChild registers ownership of a child under key and returns it.
// Re-registering an existing key unmounts the superseded child first, so no
// two children ever own the same slot.
func (c *Component) CreateChild(key string, child Widget) Widget {
	if existing, ok := c.children[key]; ok && existing != nil {
		existing.Base().Unmount()
		c.dropChild(key)
	}
	if c.children == nil {
		c.children = make(map[string]Widget)
	}
	c.children[key] = child
	c.order = append(c.order, key)
	return child
}

// GetChild returns the child registered under key, or nil.
func (c *Component) GetChild(key string) Widget {
	return c.children[key]
}

// RegisterCleanup appends a callback run exactly once at unmount, in
// registration order, regardless of how unmount was triggered.
func (c *Component) RegisterCleanup(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

// applyRender recomputes the render output and reconciles it into the live
// DOM. On failure the previous subtree stays untouched.
func (c *Component) applyRender() error {
	out, err := c.safeRender()
	if err != nil {
		return err
	}
	c.refs = nil

	switch out.Mode() {
	case vdom.ModeHTML:
		next, perr := vdom.ParseHTML(out.HTML())
		if perr != nil {
			return perr
		}
		c.renderer.Replace(c, c.element, c.prev, next)
		c.prev = next
		if b, ok := c.self.(EventBinder); ok {
			c.safeHook("BindEvents", b.BindEvents)
		}
	case vdom.ModeTree:
		var next []*vdom.VNode
		if t := out.Tree(); t != nil {
			next = []*vdom.VNode{t}
		}
		c.renderer.PatchChildren(c, c.element, c.prev, next)
		c.prev = next
	}
	return nil
}

func (c *Component) safeRender() (out vdom.RenderOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panicked: %v", r)
		}
	}()
	return c.self.Render(), nil
}

// safeHook isolates one lifecycle hook: a panic is logged and does not
// prevent sibling hooks or the remainder of mount/unmount from completing.
func (c *Component) safeHook(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("lifecycle hook failed", "hook", name, "err", r)
		}
	}()
	fn()
}

func (c *Component) snapshotState() map[string]any {
	out := make(map[string]any, len(c.state))
	for k, v := range c.state {
		out[k] = v
	}
	return out
}

func (c *Component) dropChild(key string) {
	delete(c.children, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func widgetName(w Widget) string {
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.String()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
