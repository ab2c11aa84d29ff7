package http

import "sync"

// closer is the part of a connection the registry controls.
type closer interface {
	Close()
}

// Registry tracks the live connection handlers for introspection and
// coordinated shutdown. Handlers register on entering ACTIVE and unregister
// on CLOSING.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]registeredHandler
}

type registeredHandler struct {
	participantID string
	conn          closer
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]registeredHandler)}
}

func (r *Registry) Register(id, participantID string, conn closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = registeredHandler{participantID: participantID, conn: conn}
}

func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, id)
}

// Count returns the number of live handlers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Participants returns a snapshot of the connected participant IDs.
func (r *Registry) Participants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for _, h := range r.handlers {
		ids = append(ids, h.participantID)
	}
	return ids
}

// CloseAll signals every registered handler to close. Each handler runs its
// own cleanup path when its read loop unblocks; safe to call more than once.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	conns := make([]closer, 0, len(r.handlers))
	for _, h := range r.handlers {
		conns = append(conns, h.conn)
	}
	r.mu.RUnlock()

	for _, c := range conns {
		c.Close()
	}
}
