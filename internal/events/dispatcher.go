// Package events is a synchronous, non-reentrant event dispatcher with
// namespaced subscriptions.
package events

import (
	"strings"

	"github.com/rotisserie/eris"
)

type subscription struct {
	name string
	fn   func()
}

// Dispatcher delivers events to callbacks registered under "event.name"
// keys. An event emitted while another is being delivered is queued and
// delivered after the current callbacks return. Dispatcher is not safe for
// concurrent use.
type Dispatcher struct {
	subs        map[string][]subscription
	queue       []string
	dispatching bool
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[string][]subscription)}
}

func splitKey(key string) (event, name string, err error) {
	event, name, _ = strings.Cut(key, ".")
	if event == "" {
		return "", "", eris.Errorf("events: invalid key %q", key)
	}
	return event, name, nil
}

// On registers fn under key, replacing any callback already registered
// under the same key. A nil fn removes the subscription.
func (d *Dispatcher) On(key string, fn func()) error {
	event, name, err := splitKey(key)
	if err != nil {
		return err
	}

	subs := d.subs[event]
	for i, s := range subs {
		if s.name == name {
			subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if fn != nil {
		subs = append(subs, subscription{name: name, fn: fn})
	}

	if len(subs) == 0 {
		delete(d.subs, event)
	} else {
		d.subs[event] = subs
	}
	return nil
}

// Off removes the subscription under key.
func (d *Dispatcher) Off(key string) error {
	return d.On(key, nil)
}

// Subscribers returns the number of callbacks registered for event.
func (d *Dispatcher) Subscribers(event string) int {
	return len(d.subs[event])
}

// Emit delivers event to its subscribers in registration order.
func (d *Dispatcher) Emit(event string) {
	d.queue = append(d.queue, event)
	if d.dispatching {
		return
	}

	d.dispatching = true
	defer func() { d.dispatching = false }()

	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]

		subs := append([]subscription(nil), d.subs[next]...)
		for _, s := range subs {
			s.fn()
		}
	}
}
