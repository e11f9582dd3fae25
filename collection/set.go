package collection

import (
	"strings"

	"github.com/chazu/objkit/rt"
)

// Set is an unordered collection of distinct instances, compared with
// rt.IsEqual. Iteration follows insertion order.
type Set struct {
	rt.Header
	table hashTable
}

// MutableSet is a Set that accepts mutation until frozen.
type MutableSet struct {
	Set
}

var setClass rt.LazyClass

func init() {
	setClass.Define(&rt.Class{Name: "Set"})
}

// SetClassID returns the runtime id shared by Set and MutableSet.
func SetClassID() rt.RuntimeID {
	return setClass.ID()
}

// NewSet returns an immutable set of the distinct members.
func NewSet(members ...rt.Instance) *Set {
	m := NewMutableSet(len(members))
	for _, v := range members {
		m.Add(v)
	}
	return m.Freeze()
}

// SetWith returns an autoreleased immutable set.
func SetWith(members ...rt.Instance) *Set {
	return rt.AutoreleaseT(NewSet(members...))
}

// NewMutableSet returns an empty mutable set.
func NewMutableSet(capacity int) *MutableSet {
	m := rt.New[MutableSet](setClass.ID(), rt.Mutable)
	m.table = newHashTable(capacity)
	return m
}

// AsSet returns the set view of inst.
func AsSet(inst rt.Instance) (*Set, bool) {
	switch v := inst.(type) {
	case *Set:
		return v, true
	case *MutableSet:
		return &v.Set, true
	}
	return nil, false
}

// Count returns the number of members.
func (s *Set) Count() int {
	return s.table.len()
}

// Contains reports whether a member equal to v is present.
func (s *Set) Contains(v rt.Instance) bool {
	e, _ := s.table.find(v)
	return e != nil
}

// Member returns the stored member equal to v, without retaining it.
func (s *Set) Member(v rt.Instance) (rt.Instance, bool) {
	e, _ := s.table.find(v)
	if e == nil {
		return nil, false
	}
	return e.key, true
}

// Each calls fn for every member until fn returns false.
func (s *Set) Each(fn func(v rt.Instance) bool) {
	for _, e := range s.table.order {
		if !fn(e.key) {
			return
		}
	}
}

// Members returns the members, not retained.
func (s *Set) Members() []rt.Instance {
	out := make([]rt.Instance, 0, s.table.len())
	for _, e := range s.table.order {
		out = append(out, e.key)
	}
	return out
}

// IsSubset reports whether every member of s is in other.
func (s *Set) IsSubset(other *Set) bool {
	for _, e := range s.table.order {
		if !other.Contains(e.key) {
			return false
		}
	}
	return true
}

// Destroy releases every member.
func (s *Set) Destroy() {
	for _, e := range s.table.clear() {
		releaseEntry(e)
	}
}

// Equal reports whether other has exactly the same members.
func (s *Set) Equal(other rt.Instance) bool {
	o, ok := AsSet(other)
	return ok && o.Count() == s.Count() && s.IsSubset(o)
}

// Hash is independent of insertion order.
func (s *Set) Hash() uint64 {
	h := rt.HashUint64(uint64(s.Count()))
	for _, e := range s.table.order {
		h += e.hash
	}
	return h
}

// Describe renders the set as "{(a, b)}".
func (s *Set) Describe() string {
	parts := make([]string, 0, s.table.len())
	for _, e := range s.table.order {
		parts = append(parts, rt.Describe(e.key))
	}
	return "{(" + strings.Join(parts, ", ") + ")}"
}

// Copy returns an immutable set with the same members.
func (s *Set) Copy() rt.Instance {
	if !rt.IsMutable(s) {
		return rt.Retain(s)
	}
	c := rt.New[Set](setClass.ID(), rt.Immutable)
	c.table = newHashTable(s.Count())
	s.table.cloneInto(&c.table)
	return c
}

// MutableCopy returns a mutable set with the same members.
func (s *Set) MutableCopy() rt.Instance {
	m := NewMutableSet(s.Count())
	s.table.cloneInto(&m.table)
	return m
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// Add inserts v unless an equal member is already present. It reports
// whether the set changed.
func (m *MutableSet) Add(v rt.Instance) bool {
	rt.AssertMutable(m)
	if v == nil {
		rt.Fail("add", m, "nil member")
	}
	e, h := m.table.find(v)
	if e != nil {
		return false
	}
	m.table.insert(&hashEntry{key: rt.Retain(v), hash: h})
	return true
}

// Remove deletes the member equal to v and reports whether one existed.
func (m *MutableSet) Remove(v rt.Instance) bool {
	rt.AssertMutable(m)
	e, _ := m.table.find(v)
	if e == nil {
		return false
	}
	m.table.remove(e)
	releaseEntry(e)
	return true
}

// RemoveAll deletes every member.
func (m *MutableSet) RemoveAll() {
	rt.AssertMutable(m)
	for _, e := range m.table.clear() {
		releaseEntry(e)
	}
}

// Union adds every member of other.
func (m *MutableSet) Union(other *Set) {
	for _, e := range other.table.order {
		m.Add(e.key)
	}
}

// Intersect removes every member not in other.
func (m *MutableSet) Intersect(other *Set) {
	rt.AssertMutable(m)
	for _, v := range m.Members() {
		if !other.Contains(v) {
			m.Remove(v)
		}
	}
}

// Freeze makes the set immutable and returns its immutable view.
func (m *MutableSet) Freeze() *Set {
	rt.MakeImmutable(m)
	return &m.Set
}
