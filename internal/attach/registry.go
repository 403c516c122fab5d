package attach

import (
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Scheme prefixes every session-scoped reference.
const Scheme = "session://"

// Referencer creates a preview reference for a selected file.
type Referencer interface {
	CreateRef(f Selected) string
}

// Resolver maps a preview reference back to its local file.
type Resolver interface {
	Resolve(ref string) (string, bool)
}

// Registry issues session-scoped references of the form
// session://<uuid>/<name>. References stay resolvable until revoked;
// whoever opens the editing session must call Revoke or RevokeAll when it ends.
type Registry struct {
	mu   sync.Mutex
	refs map[string]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{refs: make(map[string]string)}
}

// CreateRef registers f and returns its reference.
func (r *Registry) CreateRef(f Selected) string {
	ref := Scheme + uuid.NewString() + "/" + url.PathEscape(f.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[ref] = f.Path
	return ref
}

// Resolve returns the local path behind a live reference.
func (r *Registry) Resolve(ref string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.refs[ref]
	return p, ok
}

// Revoke releases one reference. It reports whether the reference was live.
func (r *Registry) Revoke(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.refs[ref]
	delete(r.refs, ref)
	return ok
}

// RevokeAll releases every live reference and returns how many there were.
func (r *Registry) RevokeAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.refs)
	clear(r.refs)
	return n
}

// Len returns the number of live references.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs)
}

// IsSessionRef reports whether u is a session-scoped reference rather than
// a durable document URL.
func IsSessionRef(u string) bool {
	return strings.HasPrefix(u, Scheme)
}
