package workflow

import "sync"

// Registry tracks live workflow sessions by ID for the HTTP surface.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Workflow
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Workflow)}
}

// Create starts a new workflow session and registers it.
func (r *Registry) Create(engine Engine) *Workflow {
	w := New(engine)
	r.mu.Lock()
	r.sessions[w.ID] = w
	r.mu.Unlock()
	return w
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.sessions[id]
	return w, ok
}

// Delete removes a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
