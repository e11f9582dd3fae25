package rt

import "sync"

// ---------------------------------------------------------------------------
// WeakRef: a reference that does not keep its target alive
// ---------------------------------------------------------------------------

// WeakRef refers to an instance without holding a reference. It is cleared
// when the target is destroyed, and an optional finalizer runs at that point.
type WeakRef struct {
	mu        sync.Mutex
	target    *Header // nil once the target is destroyed or the ref cleared
	finalizer func(*Class)
}

// weakTable tracks the weak references of every instance that has any.
var weakTable = struct {
	mu   sync.Mutex
	refs map[*Header][]*WeakRef
}{refs: make(map[*Header][]*WeakRef)}

// NewWeakRef creates a weak reference to a live instance.
func NewWeakRef(inst Instance) *WeakRef {
	h := liveHeader("weakRef", inst)
	wr := &WeakRef{target: h}

	weakTable.mu.Lock()
	weakTable.refs[h] = append(weakTable.refs[h], wr)
	h.flags.Or(flagWeak)
	weakTable.mu.Unlock()

	// The last release may have raced with registration.
	if h.refs.Load() <= 0 {
		detachWeakRefs(h)
	}
	return wr
}

// LoadRetained returns the target with an added reference that the caller
// must release, or nil if the target is gone.
func (wr *WeakRef) LoadRetained() Instance {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if wr.target == nil || !wr.target.tryRetain() {
		return nil
	}
	return wr.target.self
}

// IsAlive returns true if the target has not been destroyed.
func (wr *WeakRef) IsAlive() bool {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	return wr.target != nil && wr.target.refs.Load() > 0
}

// SetFinalizer sets a callback run once when the target is destroyed. It
// receives the class of the destroyed instance.
func (wr *WeakRef) SetFinalizer(fn func(*Class)) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.finalizer = fn
}

// Clear detaches the reference from its target without running the
// finalizer.
func (wr *WeakRef) Clear() {
	wr.mu.Lock()
	h := wr.target
	wr.target = nil
	wr.finalizer = nil
	wr.mu.Unlock()
	if h == nil {
		return
	}

	weakTable.mu.Lock()
	defer weakTable.mu.Unlock()
	refs := weakTable.refs[h]
	for i, r := range refs {
		if r == wr {
			refs = append(refs[:i], refs[i+1:]...)
			break
		}
	}
	if len(refs) == 0 {
		delete(weakTable.refs, h)
	} else {
		weakTable.refs[h] = refs
	}
}

// WeakRefCount returns the number of instances that currently have weak
// references.
func WeakRefCount() int {
	weakTable.mu.Lock()
	defer weakTable.mu.Unlock()
	return len(weakTable.refs)
}

// detachWeakRefs clears every weak reference to h and returns their
// finalizers, to be run outside any lock.
func detachWeakRefs(h *Header) []func(*Class) {
	weakTable.mu.Lock()
	refs := weakTable.refs[h]
	delete(weakTable.refs, h)
	weakTable.mu.Unlock()

	var finalizers []func(*Class)
	for _, wr := range refs {
		wr.mu.Lock()
		if wr.target == h {
			wr.target = nil
			if wr.finalizer != nil {
				finalizers = append(finalizers, wr.finalizer)
			}
		}
		wr.mu.Unlock()
	}
	return finalizers
}
