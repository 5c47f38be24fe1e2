// Package bus provides the publish/subscribe hub components use for
// decoupled cross-component signaling: wallet state, transaction lifecycle,
// UI view changes. Delivery is synchronous and ordered; handlers are isolated
// from each other's failures. Buses are constructed explicitly and passed in,
// never reached through a module global, so tests can run isolated instances.
package bus

import (
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Handler receives a topic payload.
type Handler func(payload any)

// Bus is a topic-keyed publish/subscribe hub. Topics are dot-separated
// strings; subscription patterns may use "*" to match one token and ">" to
// match the rest ("wallet.*", "tx.>"). Exact topics are the common case.
type Bus struct {
	mu     sync.Mutex
	logger *slog.Logger
	topics map[string][]*subscription
	seq    uint64

	emitting bool
	queue    []pendingEmit
}

type subscription struct {
	id    uint64
	topic string
	fn    Handler
	fnPtr uintptr
	once  bool
}

type pendingEmit struct {
	topic   string
	payload any
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to surface handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) { b.logger = l }
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{topics: make(map[string][]*subscription)}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// On subscribes a handler to a topic pattern and returns its unsubscribe
// function. Multiple subscriptions to one topic are independent and all
// fire, in subscription order.
func (b *Bus) On(topic string, fn Handler) func() {
	return b.subscribe(topic, fn, false)
}

// Once subscribes a handler that is removed after its first delivery, even
// if the handler panics during that delivery.
func (b *Bus) Once(topic string, fn Handler) func() {
	return b.subscribe(topic, fn, true)
}

func (b *Bus) subscribe(topic string, fn Handler, once bool) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	sub := &subscription{
		id:    b.seq,
		topic: topic,
		fn:    fn,
		fnPtr: reflect.ValueOf(fn).Pointer(),
		once:  once,
	}
	b.topics[topic] = append(b.topics[topic], sub)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.removeLocked(sub)
	}
}

// Off removes the first subscription on topic whose handler is the same
// function as fn. Removing a handler that is not subscribed is a no-op.
// Matching is by code pointer, so two closures created from the same
// function literal are indistinguishable and Off may remove the other one;
// the unsubscribe function returned by On is the exact removal path, Off
// exists for call sites that only kept the handler.
func (b *Bus) Off(topic string, fn Handler) {
	ptr := reflect.ValueOf(fn).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.topics[topic] {
		if sub.fnPtr == ptr {
			b.removeLocked(sub)
			return
		}
	}
}

// SubscriberCount returns the number of live subscriptions for an exact
// topic pattern.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

// Emit delivers a payload synchronously to a snapshot of the current
// subscribers, in subscription order. Unsubscribing during delivery does not
// affect handlers already captured for this pass. A handler panic does not
// stop delivery to the remaining handlers; the first failure of a pass is
// surfaced at error level. Emissions triggered from inside a handler are
// queued and delivered after the current pass completes.
func (b *Bus) Emit(topic string, payload any) {
	b.mu.Lock()
	if b.emitting {
		b.queue = append(b.queue, pendingEmit{topic: topic, payload: payload})
		b.mu.Unlock()
		return
	}
	b.emitting = true
	b.mu.Unlock()

	b.deliver(topic, payload)
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.emitting = false
			b.mu.Unlock()
			return
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()
		b.deliver(next.topic, next.payload)
	}
}

func (b *Bus) deliver(topic string, payload any) {
	b.mu.Lock()
	var snapshot []*subscription
	for pattern, subs := range b.topics {
		if matchTopic(pattern, topic) {
			snapshot = append(snapshot, subs...)
		}
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].id < snapshot[j].id
	})
	// Remove once-subscriptions before invoking them, so they fire at most
	// once no matter how the handler exits.
	for _, sub := range snapshot {
		if sub.once {
			b.removeLocked(sub)
		}
	}
	b.mu.Unlock()

	reported := false
	for _, sub := range snapshot {
		b.invoke(topic, sub, payload, &reported)
	}
}

func (b *Bus) invoke(topic string, sub *subscription, payload any, reported *bool) {
	defer func() {
		if r := recover(); r != nil {
			if !*reported {
				b.logger.Error("bus handler panicked",
					"topic", topic, "pattern", sub.topic, "err", r)
				*reported = true
			} else {
				b.logger.Debug("bus handler panicked",
					"topic", topic, "pattern", sub.topic, "err", r)
			}
		}
	}()
	sub.fn(payload)
}

func (b *Bus) removeLocked(target *subscription) {
	subs := b.topics[target.topic]
	for i, sub := range subs {
		if sub == target {
			b.topics[target.topic] = append(subs[:i], subs[i+1:]...)
			if len(b.topics[target.topic]) == 0 {
				delete(b.topics, target.topic)
			}
			return
		}
	}
}

// matchTopic checks a subscription pattern against an emitted topic.
// "*" matches exactly one dot-separated token; ">" matches one or more
// trailing tokens.
func matchTopic(pattern, topic string) bool {
	if pattern == topic {
		return true
	}
	if !strings.ContainsAny(pattern, "*>") {
		return false
	}
	pp := strings.Split(pattern, ".")
	tp := strings.Split(topic, ".")
	pi, ti := 0, 0
	for pi < len(pp) && ti < len(tp) {
		switch pp[pi] {
		case "*":
			pi++
			ti++
		case ">":
			return true
		default:
			if pp[pi] != tp[ti] {
				return false
			}
			pi++
			ti++
		}
	}
	return pi == len(pp) && ti == len(tp)
}
