package sim

import (
	"sync"

	"github.com/san-kum/particles/internal/field"
)

type subscription struct {
	id uint64
	l  Listener
}

// Dispatcher fans host notifications out to subscribed listeners. Emitters
// call listeners synchronously on the caller's goroutine, which must be the
// thread frames run on.
type Dispatcher struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make([]subscription, 0, 1)}
}

func (d *Dispatcher) Subscribe(l Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription{id: id, l: l})

	var once sync.Once
	return func() {
		once.Do(func() { d.unsubscribe(id) })
	}
}

func (d *Dispatcher) unsubscribe(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return
		}
	}
}

func (d *Dispatcher) snapshot() []subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.subs
}

func (d *Dispatcher) Resize(vp field.Viewport) {
	for _, s := range d.snapshot() {
		s.l.OnResize(vp)
	}
}

func (d *Dispatcher) PointerMove(x, y float64) {
	for _, s := range d.snapshot() {
		s.l.OnPointerMove(x, y)
	}
}

func (d *Dispatcher) PointerLeave() {
	for _, s := range d.snapshot() {
		s.l.OnPointerLeave()
	}
}

// Len reports the number of live subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}
