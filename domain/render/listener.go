package render

import (
	"context"
	"errors"
)

// EventType names an interaction.
type EventType string

const (
	// EventClick is dispatched on toggle controls.
	EventClick EventType = "click"
	// EventChange is dispatched on the selection control.
	EventChange EventType = "change"
)

// Event is delivered to listeners. Target is the node the event was
// dispatched on; CurrentTarget is the node whose listener is running.
type Event struct {
	Type          EventType
	Target        *Node
	CurrentTarget *Node
}

// HandlerFunc handles an event.
type HandlerFunc func(ctx context.Context, ev *Event) error

// Listener wraps a handler with a stable identity. Registration and removal
// compare listeners by pointer, so the same *Listener can be attached and
// detached any number of times.
type Listener struct {
	name string
	fn   HandlerFunc
}

// NewListener creates a listener. name is only used in logs.
func NewListener(name string, fn HandlerFunc) *Listener {
	return &Listener{name: name, fn: fn}
}

// Name returns the listener's diagnostic name.
func (l *Listener) Name() string { return l.name }

// AddEventListener registers l for typ. Registering the same listener twice
// is a no-op. It reports whether l was newly added.
func (n *Node) AddEventListener(typ EventType, l *Listener) bool {
	if l == nil {
		return false
	}
	for _, existing := range n.listeners[typ] {
		if existing == l {
			return false
		}
	}
	if n.listeners == nil {
		n.listeners = make(map[EventType][]*Listener)
	}
	n.listeners[typ] = append(n.listeners[typ], l)
	return true
}

// RemoveEventListener unregisters l for typ and reports whether it was present.
func (n *Node) RemoveEventListener(typ EventType, l *Listener) bool {
	list := n.listeners[typ]
	for i, existing := range list {
		if existing == l {
			n.listeners[typ] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns how many listeners are registered for typ.
func (n *Node) ListenerCount(typ EventType) int {
	return len(n.listeners[typ])
}

// HasListener reports whether l is registered for typ.
func (n *Node) HasListener(typ EventType, l *Listener) bool {
	for _, existing := range n.listeners[typ] {
		if existing == l {
			return true
		}
	}
	return false
}

// Dispatch delivers an event of type typ to n's listeners in registration
// order. Listener errors are joined; every listener still runs.
func (n *Node) Dispatch(ctx context.Context, typ EventType) error {
	list := append([]*Listener(nil), n.listeners[typ]...)
	ev := &Event{Type: typ, Target: n, CurrentTarget: n}

	var errs []error
	for _, l := range list {
		if err := l.fn(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
