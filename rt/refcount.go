package rt

import "math"

// Retain adds a reference to inst and returns it.
func Retain(inst Instance) Instance {
	headerOf("retain", inst).retain()
	return inst
}

// RetainT is Retain for a concrete instance type.
func RetainT[P Instance](p P) P {
	headerOf("retain", p).retain()
	return p
}

// Release drops a reference to inst. Dropping the last reference destroys
// the instance synchronously.
func Release(inst Instance) {
	headerOf("release", inst).release()
}

// RetainCount returns the current number of references; 0 once destroyed.
func RetainCount(inst Instance) int32 {
	return headerOf("retainCount", inst).refs.Load()
}

// Autorelease hands one reference to the innermost autorelease pool of the
// calling goroutine. The count is unchanged until that pool is drained.
func Autorelease(inst Instance) Instance {
	h := headerOf("autorelease", inst)
	p := CurrentPool()
	if p == nil {
		violate("autorelease", h.className(), "no autorelease pool in place on this goroutine")
	}
	p.Add(inst)
	return inst
}

// AutoreleaseT is Autorelease for a concrete instance type.
func AutoreleaseT[P Instance](p P) P {
	Autorelease(p)
	return p
}

func (h *Header) retain() {
	for {
		n := h.refs.Load()
		if n <= 0 {
			if h.class == nil {
				violate("retain", "", "instance was never initialised")
			}
			violate("retain", h.class.Name, "instance already destroyed")
		}
		if n == math.MaxInt32 {
			violate("retain", h.className(), "retain count overflow")
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return
		}
	}
}

// tryRetain adds a reference unless the count already reached zero.
func (h *Header) tryRetain() bool {
	for {
		n := h.refs.Load()
		if n <= 0 || n == math.MaxInt32 {
			return false
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (h *Header) release() {
	for {
		n := h.refs.Load()
		if n <= 0 {
			if h.class == nil {
				violate("release", "", "instance was never initialised")
			}
			violate("release", h.class.Name, "over-release of destroyed instance")
		}
		if h.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				h.destroy()
			}
			return
		}
	}
}

// destroy runs once the count has reached zero. Weak references are cut
// first so no one can observe the instance mid-teardown.
func (h *Header) destroy() {
	self := h.self
	c := h.class

	var finalizers []func(*Class)
	if h.flags.Load()&flagWeak != 0 {
		finalizers = detachWeakRefs(h)
	}

	switch d, ok := self.(Destroyer); {
	case c.Destroy != nil:
		c.Destroy(self)
	case ok:
		d.Destroy()
	}

	h.flags.Or(flagDestroyed)
	h.self = nil
	c.destroyed.Add(1)

	for _, fn := range finalizers {
		fn(c)
	}
}
