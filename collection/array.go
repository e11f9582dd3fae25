package collection

import (
	"strings"

	"github.com/chazu/objkit/rt"
)

// Array is an ordered, immutable sequence of instances.
type Array struct {
	rt.Header
	items []rt.Instance
}

// MutableArray is an Array that accepts mutation until frozen.
type MutableArray struct {
	Array
}

var arrayClass rt.LazyClass

func init() {
	arrayClass.Define(&rt.Class{Name: "Array"})
}

// ArrayClassID returns the runtime id shared by Array and MutableArray.
func ArrayClassID() rt.RuntimeID {
	return arrayClass.ID()
}

// NewArray returns an immutable array holding items, each retained.
func NewArray(items ...rt.Instance) *Array {
	a := rt.New[Array](arrayClass.ID(), rt.Immutable)
	a.items = retainAll(items)
	return a
}

// ArrayWith returns an autoreleased immutable array.
func ArrayWith(items ...rt.Instance) *Array {
	return rt.AutoreleaseT(NewArray(items...))
}

// NewMutableArray returns an empty mutable array.
func NewMutableArray(capacity int) *MutableArray {
	m := rt.New[MutableArray](arrayClass.ID(), rt.Mutable)
	m.items = make([]rt.Instance, 0, capacity)
	return m
}

// AsArray returns the array view of inst if it is an Array or MutableArray.
func AsArray(inst rt.Instance) (*Array, bool) {
	switch v := inst.(type) {
	case *Array:
		return v, true
	case *MutableArray:
		return &v.Array, true
	}
	return nil, false
}

func retainAll(items []rt.Instance) []rt.Instance {
	out := make([]rt.Instance, len(items))
	for i, item := range items {
		out[i] = rt.Retain(item)
	}
	return out
}

// Count returns the number of elements.
func (a *Array) Count() int {
	return len(a.items)
}

// At returns the element at i without retaining it.
func (a *Array) At(i int) rt.Instance {
	a.checkIndex("at", i, len(a.items))
	return a.items[i]
}

// Last returns the final element, or nil when empty.
func (a *Array) Last() rt.Instance {
	if len(a.items) == 0 {
		return nil
	}
	return a.items[len(a.items)-1]
}

// IndexOf returns the index of the first element equal to v, or -1.
func (a *Array) IndexOf(v rt.Instance) int {
	for i, item := range a.items {
		if rt.IsEqual(item, v) {
			return i
		}
	}
	return -1
}

// Contains reports whether an element equal to v is present.
func (a *Array) Contains(v rt.Instance) bool {
	return a.IndexOf(v) >= 0
}

// Each calls fn for every element in order until fn returns false.
func (a *Array) Each(fn func(i int, v rt.Instance) bool) {
	for i, item := range a.items {
		if !fn(i, item) {
			return
		}
	}
}

// Items returns a copy of the element slice; the elements are not retained.
func (a *Array) Items() []rt.Instance {
	out := make([]rt.Instance, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Array) checkIndex(op string, i, n int) {
	if i < 0 || i >= n {
		rt.Fail(op, a, "index %d out of range [0, %d)", i, n)
	}
}

// Destroy releases every element.
func (a *Array) Destroy() {
	for i, item := range a.items {
		rt.Release(item)
		a.items[i] = nil
	}
	a.items = nil
}

// Equal reports element-wise equality with another array.
func (a *Array) Equal(other rt.Instance) bool {
	o, ok := AsArray(other)
	if !ok || len(o.items) != len(a.items) {
		return false
	}
	for i := range a.items {
		if !rt.IsEqual(a.items[i], o.items[i]) {
			return false
		}
	}
	return true
}

// Hash combines the element hashes in order.
func (a *Array) Hash() uint64 {
	h := rt.HashUint64(uint64(len(a.items)))
	for _, item := range a.items {
		h = rt.CombineHash(h, rt.HashOf(item))
	}
	return h
}

// Describe renders the array as "(a, b, c)".
func (a *Array) Describe() string {
	parts := make([]string, len(a.items))
	for i, item := range a.items {
		parts[i] = rt.Describe(item)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Copy returns an immutable array with the same elements. An immutable array
// is its own copy.
func (a *Array) Copy() rt.Instance {
	if !rt.IsMutable(a) {
		return rt.Retain(a)
	}
	return NewArray(a.items...)
}

// MutableCopy returns a mutable array with the same elements.
func (a *Array) MutableCopy() rt.Instance {
	m := NewMutableArray(len(a.items))
	m.items = append(m.items, retainAll(a.items)...)
	return m
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// Append adds v at the end, retaining it.
func (m *MutableArray) Append(v rt.Instance) {
	rt.AssertMutable(m)
	m.items = append(m.items, rt.Retain(v))
}

// Insert places v at index i, shifting later elements up.
func (m *MutableArray) Insert(i int, v rt.Instance) {
	rt.AssertMutable(m)
	m.checkIndex("insert", i, len(m.items)+1)
	m.items = append(m.items, nil)
	copy(m.items[i+1:], m.items[i:])
	m.items[i] = rt.Retain(v)
}

// Set replaces the element at i.
func (m *MutableArray) Set(i int, v rt.Instance) {
	rt.AssertMutable(m)
	m.checkIndex("set", i, len(m.items))
	rt.Retain(v)
	old := m.items[i]
	m.items[i] = v
	rt.Release(old)
}

// RemoveAt removes and releases the element at i.
func (m *MutableArray) RemoveAt(i int) {
	rt.AssertMutable(m)
	m.checkIndex("removeAt", i, len(m.items))
	old := m.items[i]
	copy(m.items[i:], m.items[i+1:])
	m.items[len(m.items)-1] = nil
	m.items = m.items[:len(m.items)-1]
	rt.Release(old)
}

// RemoveLast removes the final element; it does nothing on an empty array.
func (m *MutableArray) RemoveLast() {
	rt.AssertMutable(m)
	if len(m.items) > 0 {
		m.RemoveAt(len(m.items) - 1)
	}
}

// RemoveAll releases and removes every element.
func (m *MutableArray) RemoveAll() {
	rt.AssertMutable(m)
	items := m.items
	m.items = m.items[:0:0]
	for _, item := range items {
		rt.Release(item)
	}
}

// Freeze makes the array immutable and returns its immutable view. The
// caller's reference carries over.
func (m *MutableArray) Freeze() *Array {
	rt.MakeImmutable(m)
	return &m.Array
}
