package remote

import (
	"net"
	"sort"
	"sync"

	"goshell/internal/errors"
)

// Registration is one hosted port: its listener and the workers spawned
// from it.
type Registration struct {
	Port     int
	listener net.Listener

	mu      sync.Mutex
	workers map[*Worker]struct{}
	closed  bool
}

func newRegistration(port int, ln net.Listener) *Registration {
	return &Registration{
		Port:     port,
		listener: ln,
		workers:  make(map[*Worker]struct{}),
	}
}

func (r *Registration) addWorker(w *Worker) {
	r.mu.Lock()
	r.workers[w] = struct{}{}
	r.mu.Unlock()
}

func (r *Registration) removeWorker(w *Worker) {
	r.mu.Lock()
	delete(r.workers, w)
	r.mu.Unlock()
}

// isClosed reports whether Stop has run; the accept loop uses it to
// tell shutdown apart from a real accept failure.
func (r *Registration) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// close shuts the listener and every worker connection, unblocking
// their pending reads.
func (r *Registration) close() {
	r.mu.Lock()
	r.closed = true
	workers := make([]*Worker, 0, len(r.workers))
	for w := range r.workers {
		workers = append(workers, w)
	}
	r.mu.Unlock()

	r.listener.Close()
	for _, w := range workers {
		w.conn.Close()
	}
}

// Registry maps listening ports to their registrations. It is the only
// state shared across hosts in a process, guarded by a single lock,
// and is injected rather than global.
type Registry struct {
	mu sync.Mutex
	m  map[int]*Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[int]*Registration)}
}

// Add claims a port. At most one registration may hold a port.
func (r *Registry) Add(reg *Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.m[reg.Port]; exists {
		return errors.ErrPortInUse
	}
	r.m[reg.Port] = reg
	return nil
}

// Remove releases a port, returning its registration.
func (r *Registry) Remove(port int) (*Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.m[port]
	if ok {
		delete(r.m, port)
	}
	return reg, ok
}

// Get looks up a port.
func (r *Registry) Get(port int) (*Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.m[port]
	return reg, ok
}

// Ports returns all hosted ports in ascending order.
func (r *Registry) Ports() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.m))
	for p := range r.m {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
