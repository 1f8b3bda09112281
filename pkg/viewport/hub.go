package viewport

import "sync"

// Listener receives window-global release events.
type Listener interface {
	PointerUp()
	TouchEnd(remaining int)
}

// Hub is a subscription table for window-global pointer-up and touch-end
// events, keyed by instance. A host attaches each mounted viewer once and
// releases it on detach.
type Hub struct {
	mu   sync.Mutex
	subs map[any]*subscription
}

type subscription struct {
	l Listener
}

// DefaultHub is the process-wide table used by the GUI host.
var DefaultHub = NewHub()

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[any]*subscription)}
}

// Attach registers l under key and returns its release function. Attaching
// a key again replaces the earlier registration, whose release then becomes
// a no-op. Release is safe to call more than once.
func (h *Hub) Attach(key any, l Listener) (release func()) {
	sub := &subscription{l: l}

	h.mu.Lock()
	h.subs[key] = sub
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.subs[key] == sub {
				delete(h.subs, key)
			}
		})
	}
}

// Len returns the number of attached listeners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) listeners() []Listener {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Listener, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s.l)
	}
	return out
}

// PointerUp broadcasts a pointer release to every attached listener.
func (h *Hub) PointerUp() {
	for _, l := range h.listeners() {
		l.PointerUp()
	}
}

// TouchEnd broadcasts a touch-end to every attached listener.
func (h *Hub) TouchEnd(remaining int) {
	for _, l := range h.listeners() {
		l.TouchEnd(remaining)
	}
}
