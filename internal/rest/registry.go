package rest

import (
	"sync"
	"time"

	"github.com/Guyuepp/artshare/internal/repository/cache"
)

// ComponentIdleTTL is how long an untouched tracker, thread or loader stays
// alive between requests.
const ComponentIdleTTL = 10 * time.Minute

// SweepInterval is how often idle components are looked for.
const SweepInterval = time.Minute

// registry keeps stateful components alive between requests of one user.
// Every hit pushes the expiry forward; an expired component is dropped and
// closed, which is the same as the page being closed.
type registry[T any] struct {
	mu    sync.Mutex
	items *cache.TTL[string, T]
}

func newRegistry[T any](ttl time.Duration, opts ...cache.Option) *registry[T] {
	if ttl <= 0 {
		ttl = ComponentIdleTTL
	}
	return &registry[T]{items: cache.NewTTL[string, T](ttl, opts...)}
}

func (r *registry[T]) get(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items.Get(key)
	if ok {
		r.items.Set(key, v)
	}
	return v, ok
}

// put stores v unless another request stored a component first, in which
// case v is closed and the existing one returned.
func (r *registry[T]) put(key string, v T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.items.Get(key); ok {
		closeComponent(v)
		r.items.Set(key, cur)
		return cur
	}
	r.items.Set(key, v)
	return v
}

// remove drops and closes the component under key.
func (r *registry[T]) remove(key string) bool {
	r.mu.Lock()
	v, ok := r.items.Get(key)
	r.items.Invalidate(key)
	r.mu.Unlock()
	if ok {
		closeComponent(v)
	}
	return ok
}

// sweep closes and drops every idle component. It returns how many went.
func (r *registry[T]) sweep() int {
	r.mu.Lock()
	removed := r.items.Sweep()
	r.mu.Unlock()
	for _, v := range removed {
		closeComponent(v)
	}
	return len(removed)
}

func closeComponent(v any) {
	if c, ok := v.(interface{ Close() }); ok {
		c.Close()
	}
}

func key(userID, id string) string {
	if userID == "" {
		userID = "anon"
	}
	return userID + ":" + id
}
