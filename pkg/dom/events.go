package dom

// Event is delivered to listeners during Dispatch. It bubbles from the
// target up through ancestors unless StopPropagation is called.
type Event struct {
	// Type is the event name, e.g. "click".
	Type string
	// Target is the element Dispatch was called on.
	Target *Element
	// Current is the element whose listener is being invoked.
	Current *Element
	// Data carries an arbitrary payload, e.g. input text.
	Data any

	stopped bool
}

// StopPropagation prevents the event from bubbling to ancestor elements.
// Listeners already captured on the current element still run.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// Handler processes a dispatched event.
type Handler func(*Event)

// Listener is the handle returned by AddListener; it is the only way to
// remove a specific handler again.
type Listener struct {
	event string
	fn    Handler
	elem  *Element
}

// Event returns the event name this listener is registered for.
func (l *Listener) Event() string { return l.event }

// AddListener registers a handler for an event name and returns a removable
// handle. Handlers on one element fire in registration order.
func (e *Element) AddListener(event string, fn Handler) *Listener {
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	l := &Listener{event: event, fn: fn, elem: e}
	e.listeners[event] = append(e.listeners[event], l)
	return l
}

// RemoveListener unregisters a listener. Removing a listener twice, or one
// belonging to another element, is a no-op.
func (e *Element) RemoveListener(l *Listener) {
	if l == nil || l.elem != e || e.listeners == nil {
		return
	}
	ls := e.listeners[l.event]
	for i, cur := range ls {
		if cur == l {
			e.listeners[l.event] = append(ls[:i], ls[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of handlers registered for an event name.
func (e *Element) ListenerCount(event string) int {
	return len(e.listeners[event])
}

// Dispatch delivers an event to this element and bubbles it through its
// ancestors. Each element's listener list is snapshotted before invocation,
// so handlers adding or removing listeners mid-delivery do not affect the
// current pass.
func (e *Element) Dispatch(event string, data any) {
	ev := &Event{Type: event, Target: e, Data: data}
	for cur := e; cur != nil; cur = cur.parent {
		ls := cur.listeners[event]
		if len(ls) == 0 {
			continue
		}
		snapshot := make([]*Listener, len(ls))
		copy(snapshot, ls)
		ev.Current = cur
		for _, l := range snapshot {
			l.fn(ev)
		}
		if ev.stopped {
			return
		}
	}
}
