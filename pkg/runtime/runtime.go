// Package runtime implements the component model every UI widget in the
// codebase is built against: lifecycle, state merging, ownership of child
// components, and the renderer that reconciles virtual trees into DOM
// mutations. Execution is single-threaded and event-driven; the runtime
// never blocks on a component's asynchronous work.
package runtime

import (
	"errors"

	"github.com/curvedex/curveui/pkg/vdom"
)

var (
	// ErrNotInitialized is returned when a component is used before Init.
	ErrNotInitialized = errors.New("component not initialized")

	// ErrNoContainer is returned when Mount is given a nil container.
	ErrNoContainer = errors.New("mount container is nil")

	// ErrNotMounted is returned when an operation requires a mounted
	// component.
	ErrNotMounted = errors.New("component not mounted")
)

// Lifecycle is the explicit state machine every component moves through:
// unmounted -> mounting -> mounted -> unmounting -> unmounted. Methods
// assert their required state and no-op otherwise.
type Lifecycle int

const (
	// Unmounted means the component owns no DOM.
	Unmounted Lifecycle = iota
	// Mounting means Mount is building the component's element.
	Mounting
	// Mounted is the only state in which state mutation triggers a
	// visible update.
	Mounted
	// Unmounting means Unmount is tearing the component down.
	Unmounting
)

// String returns the lifecycle state name.
func (l Lifecycle) String() string {
	switch l {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Mounted:
		return "mounted"
	case Unmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}

// Widget is what every concrete component implements. Embedding Component
// provides Base; the widget supplies Render.
type Widget interface {
	// Render is a pure function of the component's state returning either
	// an HTML string or a VNode tree. It must not touch the DOM.
	Render() vdom.RenderOutput

	// Base returns the embedded runtime component.
	Base() *Component
}

// Factory constructs a widget instance for a child-component slot. The
// renderer calls it once per slot key and owns the instance's lifecycle.
type Factory func() Widget

// Child builds a child-component VNode for use inside a Render tree. The
// slot key identifies the instance across renders: the renderer mounts a
// new instance on first appearance, reuses it (passing updated props) while
// the key stays rendered, and unmounts it when the key disappears.
func Child(key string, make Factory, props map[string]any) *vdom.VNode {
	return vdom.Slot(key, make, props)
}

// Optional lifecycle hooks. A widget implements the ones it needs; each
// hook failure is isolated and logged, never fatal to the rest of the
// lifecycle.

// Mounter is implemented by widgets that need a hook after mount. Mount
// does not await asynchronous work started here; late results must be
// guarded with StillMounted before touching state.
type Mounter interface {
	OnMount()
}

// StateObserver is implemented by widgets that want to observe merges.
// OnStateUpdate runs strictly before the re-render the merge triggers.
type StateObserver interface {
	OnStateUpdate(old, next map[string]any)
}

// Unmounter is implemented by widgets that need a teardown hook.
type Unmounter interface {
	OnUnmount()
}

// EventBinder is implemented by string-template widgets. BindEvents runs
// after every wholesale re-render so handlers can be re-attached; VNode
// widgets get handler props bound by the renderer instead.
type EventBinder interface {
	BindEvents()
}

// PropReceiver is implemented by widgets reused across renders in a
// child-component slot. ApplyProps may turn new props into a SetState.
type PropReceiver interface {
	ApplyProps(props map[string]any)
}
