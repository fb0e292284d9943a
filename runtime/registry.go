// Package runtime owns presence and message routing between live
// connections. It carries no transport or storage logic of its own.
package runtime

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"pairchat/contract"
)

// Registry is the source of truth for presence: one entry per
// identity, mapping to the single live sink for that identity.
// All access is serialized behind one mutex so concurrent
// connect/disconnect traffic resolves deterministically.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink
	onChange func(online []string)
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]contract.EventSink)}
}

// OnChange installs the presence-changed hook, fired after every
// mutation with the full current identity set. Must be set before the
// registry starts receiving traffic.
func (r *Registry) OnChange(fn func(online []string)) {
	r.onChange = fn
}

// Register binds an identity to its live sink. An existing entry for
// the same identity is silently replaced: last writer wins, there is
// no multi-session support.
func (r *Registry) Register(identity string, sink contract.EventSink) {
	r.mu.Lock()
	r.sessions[identity] = sink
	online := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(online)
}

// Unregister removes every mapping whose sink equals the handle.
// Keying the removal on the handle rather than the identity means a
// stale connection, already replaced by a newer Register, cannot
// knock the newer one out. A handle that is not registered is a no-op.
func (r *Registry) Unregister(sink contract.EventSink) {
	r.mu.Lock()
	for identity, s := range r.sessions {
		if s == sink {
			delete(r.sessions, identity)
		}
	}
	online := r.snapshotLocked()
	r.mu.Unlock()

	// Notified even when nothing was removed: the payload is the full
	// current set, so a redundant broadcast is harmless.
	r.notify(online)
}

// Lookup is a pure read with no side effect.
func (r *Registry) Lookup(identity string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[identity]
	return sink, ok
}

// Snapshot returns the current presence set, sorted for stable output.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Sinks returns every live sink, for full broadcasts.
func (r *Registry) Sinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.sessions)
}

func (r *Registry) snapshotLocked() []string {
	online := lo.Keys(r.sessions)
	sort.Strings(online)
	return online
}

// notify runs outside the lock: the hook fans out to sinks and must
// not be able to stall a register/unregister in flight.
func (r *Registry) notify(online []string) {
	if r.onChange != nil {
		r.onChange(online)
	}
}
