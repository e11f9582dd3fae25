package rt

import "fmt"

// ---------------------------------------------------------------------------
// Identity and class queries
// ---------------------------------------------------------------------------

// RuntimeIDOf returns the runtime id of inst's class.
func RuntimeIDOf(inst Instance) RuntimeID {
	return liveHeader("runtimeID", inst).class.ID()
}

// ClassOf returns the class descriptor of inst.
func ClassOf(inst Instance) *Class {
	return liveHeader("class", inst).class
}

// IsA returns true if inst is a live instance of the class registered as id.
// A nil instance is not an instance of anything.
func IsA(inst Instance, id RuntimeID) bool {
	if inst == nil {
		return false
	}
	h := inst.objectHeader()
	return h.class != nil && h.refs.Load() > 0 && h.class.ID() == id
}

// Same returns true if a and b are the same instance, including when one is
// a view embedded in the other.
func Same(a, b Instance) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.objectHeader() == b.objectHeader()
}

// ---------------------------------------------------------------------------
// Mutability
// ---------------------------------------------------------------------------

// OptionsOf returns the option flags of inst.
func OptionsOf(inst Instance) Options {
	return Options(liveHeader("options", inst).opts.Load())
}

// IsMutable returns true unless inst has been made immutable.
func IsMutable(inst Instance) bool {
	return OptionsOf(inst)&Immutable == 0
}

// MakeImmutable flips inst to immutable. The transition is one-way and
// repeating it is a no-op.
func MakeImmutable(inst Instance) {
	h := liveHeader("makeImmutable", inst)
	for {
		old := h.opts.Load()
		if Options(old)&Immutable != 0 {
			return
		}
		next := (Options(old) &^ Mutable) | Immutable
		if h.opts.CompareAndSwap(old, uint32(next)) {
			return
		}
	}
}

// AssertMutable panics if inst is immutable. Every mutating method of a
// runtime type calls it first.
func AssertMutable(inst Instance) {
	h := liveHeader("mutate", inst)
	if Options(h.opts.Load())&Immutable != 0 {
		violate("mutate", h.class.Name, "attempt to mutate an immutable instance")
	}
}

// ---------------------------------------------------------------------------
// Polymorphic dispatch
// ---------------------------------------------------------------------------

// IsEqual reports whether a and b are equal. Without an Equal slot or an
// Equaler implementation, equality is identity.
func IsEqual(a, b Instance) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ha := liveHeader("isEqual", a)
	hb := liveHeader("isEqual", b)
	if ha == hb {
		return true
	}
	if ha.class.Equal != nil {
		return ha.class.Equal(ha.self, hb.self)
	}
	if e, ok := ha.self.(Equaler); ok {
		return e.Equal(hb.self)
	}
	return false
}

// HashOf returns the hash of inst. Without a Hash slot or a Hasher
// implementation it derives the hash from the instance address.
func HashOf(inst Instance) uint64 {
	h := liveHeader("hash", inst)
	if h.class.Hash != nil {
		return h.class.Hash(h.self)
	}
	if hs, ok := h.self.(Hasher); ok {
		return hs.Hash()
	}
	return addressHash(h)
}

// Describe returns a human-readable rendering of inst, by default
// "<ClassName 0xADDR>".
func Describe(inst Instance) string {
	if inst == nil {
		return "(nil)"
	}
	h := liveHeader("describe", inst)
	if h.class.Describe != nil {
		return h.class.Describe(h.self)
	}
	if d, ok := h.self.(Describer); ok {
		return d.Describe()
	}
	return fmt.Sprintf("<%s %p>", h.class.Name, h)
}

// Copy returns an independent duplicate of inst owned by the caller. It
// fails with ErrCopyUnsupported when the class cannot copy.
func Copy(inst Instance) (Instance, error) {
	h := liveHeader("copy", inst)
	if h.class.Copy != nil {
		return h.class.Copy(h.self), nil
	}
	if c, ok := h.self.(Copier); ok {
		return c.Copy(), nil
	}
	return nil, fmt.Errorf("%s: %w", h.class.Name, ErrCopyUnsupported)
}

// MutableCopy returns an independent mutable duplicate of inst owned by the
// caller.
func MutableCopy(inst Instance) (Instance, error) {
	h := liveHeader("mutableCopy", inst)
	if h.class.MutableCopy != nil {
		return h.class.MutableCopy(h.self), nil
	}
	if c, ok := h.self.(MutableCopier); ok {
		return c.MutableCopy(), nil
	}
	return nil, fmt.Errorf("%s: mutable %w", h.class.Name, ErrCopyUnsupported)
}
