package collection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/objkit/rt"
)

// Range is the half-open index range [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

// Len returns the number of indexes in r.
func (r Range) Len() uint64 {
	return r.End - r.Start
}

// IndexSet is a set of unsigned indexes stored as sorted, non-overlapping,
// non-adjacent ranges.
type IndexSet struct {
	rt.Header
	ranges []Range
}

// MutableIndexSet is an IndexSet that accepts mutation until frozen.
type MutableIndexSet struct {
	IndexSet
}

var indexSetClass rt.LazyClass

func init() {
	indexSetClass.Define(&rt.Class{Name: "IndexSet"})
}

// IndexSetClassID returns the runtime id shared by both index set types.
func IndexSetClassID() rt.RuntimeID {
	return indexSetClass.ID()
}

// NewIndexSet returns an immutable index set holding the given indexes.
func NewIndexSet(indexes ...uint64) *IndexSet {
	m := NewMutableIndexSet()
	for _, i := range indexes {
		m.Add(i)
	}
	return m.Freeze()
}

// NewIndexSetRange returns an immutable index set holding [start, end).
func NewIndexSetRange(start, end uint64) *IndexSet {
	m := NewMutableIndexSet()
	m.AddRange(start, end)
	return m.Freeze()
}

// NewMutableIndexSet returns an empty mutable index set.
func NewMutableIndexSet() *MutableIndexSet {
	return rt.New[MutableIndexSet](indexSetClass.ID(), rt.Mutable)
}

// AsIndexSet returns the index set view of inst.
func AsIndexSet(inst rt.Instance) (*IndexSet, bool) {
	switch v := inst.(type) {
	case *IndexSet:
		return v, true
	case *MutableIndexSet:
		return &v.IndexSet, true
	}
	return nil, false
}

// search returns the position of the first range whose End is above i.
func (s *IndexSet) search(i uint64) int {
	return sort.Search(len(s.ranges), func(k int) bool {
		return s.ranges[k].End > i
	})
}

// Contains reports whether index i is in the set.
func (s *IndexSet) Contains(i uint64) bool {
	k := s.search(i)
	return k < len(s.ranges) && s.ranges[k].Start <= i
}

// ContainsRange reports whether every index of [start, end) is in the set.
func (s *IndexSet) ContainsRange(start, end uint64) bool {
	if start >= end {
		return true
	}
	k := s.search(start)
	return k < len(s.ranges) && s.ranges[k].Start <= start && s.ranges[k].End >= end
}

// Count returns the number of indexes in the set.
func (s *IndexSet) Count() uint64 {
	var n uint64
	for _, r := range s.ranges {
		n += r.Len()
	}
	return n
}

// First returns the lowest index.
func (s *IndexSet) First() (uint64, bool) {
	if len(s.ranges) == 0 {
		return 0, false
	}
	return s.ranges[0].Start, true
}

// Last returns the highest index.
func (s *IndexSet) Last() (uint64, bool) {
	if len(s.ranges) == 0 {
		return 0, false
	}
	return s.ranges[len(s.ranges)-1].End - 1, true
}

// Ranges returns a copy of the stored ranges in ascending order.
func (s *IndexSet) Ranges() []Range {
	return append([]Range(nil), s.ranges...)
}

// Each calls fn for every index in ascending order until fn returns false.
func (s *IndexSet) Each(fn func(i uint64) bool) {
	for _, r := range s.ranges {
		for i := r.Start; i < r.End; i++ {
			if !fn(i) {
				return
			}
		}
	}
}

// Equal reports whether other holds exactly the same indexes.
func (s *IndexSet) Equal(other rt.Instance) bool {
	o, ok := AsIndexSet(other)
	if !ok || len(o.ranges) != len(s.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if o.ranges[i] != r {
			return false
		}
	}
	return true
}

func (s *IndexSet) Hash() uint64 {
	h := rt.HashUint64(uint64(len(s.ranges)))
	for _, r := range s.ranges {
		h = rt.CombineHash(h, rt.CombineHash(r.Start, r.End))
	}
	return h
}

// Describe renders the set as "[1-3, 7]", ranges shown inclusively.
func (s *IndexSet) Describe() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		if r.Len() == 1 {
			parts[i] = fmt.Sprint(r.Start)
		} else {
			parts[i] = fmt.Sprintf("%d-%d", r.Start, r.End-1)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s *IndexSet) Copy() rt.Instance {
	if !rt.IsMutable(s) {
		return rt.Retain(s)
	}
	c := rt.New[IndexSet](indexSetClass.ID(), rt.Immutable)
	c.ranges = s.Ranges()
	return c
}

func (s *IndexSet) MutableCopy() rt.Instance {
	m := NewMutableIndexSet()
	m.ranges = s.Ranges()
	return m
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// Add inserts index i.
func (m *MutableIndexSet) Add(i uint64) {
	m.AddRange(i, i+1)
}

// AddRange inserts every index of [start, end), merging with overlapping or
// adjacent ranges.
func (m *MutableIndexSet) AddRange(start, end uint64) {
	rt.AssertMutable(m)
	if start > end {
		rt.Fail("addRange", m, "range start %d after end %d", start, end)
	}
	if start == end {
		return
	}
	// first range that overlaps or touches [start, end)
	lo := sort.Search(len(m.ranges), func(k int) bool {
		return m.ranges[k].End >= start
	})
	hi := lo
	for hi < len(m.ranges) && m.ranges[hi].Start <= end {
		start = min(start, m.ranges[hi].Start)
		end = max(end, m.ranges[hi].End)
		hi++
	}
	merged := Range{Start: start, End: end}
	m.ranges = append(m.ranges[:lo], append([]Range{merged}, m.ranges[hi:]...)...)
}

// Remove deletes index i.
func (m *MutableIndexSet) Remove(i uint64) {
	m.RemoveRange(i, i+1)
}

// RemoveRange deletes every index of [start, end), splitting ranges as
// needed.
func (m *MutableIndexSet) RemoveRange(start, end uint64) {
	rt.AssertMutable(m)
	if start > end {
		rt.Fail("removeRange", m, "range start %d after end %d", start, end)
	}
	if start == end {
		return
	}
	out := make([]Range, 0, len(m.ranges)+1)
	for _, r := range m.ranges {
		if r.End <= start || r.Start >= end {
			out = append(out, r)
			continue
		}
		if r.Start < start {
			out = append(out, Range{Start: r.Start, End: start})
		}
		if r.End > end {
			out = append(out, Range{Start: end, End: r.End})
		}
	}
	m.ranges = out
}

// RemoveAll empties the set.
func (m *MutableIndexSet) RemoveAll() {
	rt.AssertMutable(m)
	m.ranges = nil
}

// Shift moves every index at or above from by delta, as when elements are
// inserted into or removed from an array. With a negative delta the indexes
// in the vacated span [from+delta, from) are dropped, as are those that
// would fall below zero.
func (m *MutableIndexSet) Shift(from uint64, delta int64) {
	rt.AssertMutable(m)
	if delta == 0 {
		return
	}
	if delta < 0 {
		d := uint64(-delta)
		lo := uint64(0)
		if from > d {
			lo = from - d
		}
		m.RemoveRange(lo, from)
		if d > from {
			m.RemoveRange(from, d)
		}
	}
	out := make([]Range, 0, len(m.ranges)+1)
	for _, r := range m.ranges {
		switch {
		case r.End <= from:
			out = append(out, r)
		case r.Start < from:
			out = append(out, Range{Start: r.Start, End: from})
			out = append(out, Range{Start: shiftIndex(from, delta), End: shiftIndex(r.End, delta)})
		default:
			out = append(out, Range{Start: shiftIndex(r.Start, delta), End: shiftIndex(r.End, delta)})
		}
	}
	m.ranges = out
	m.normalize()
}

func shiftIndex(i uint64, delta int64) uint64 {
	if delta < 0 {
		return i - uint64(-delta)
	}
	return i + uint64(delta)
}

// normalize merges ranges that became adjacent.
func (m *MutableIndexSet) normalize() {
	if len(m.ranges) < 2 {
		return
	}
	out := m.ranges[:1]
	for _, r := range m.ranges[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			last.End = max(last.End, r.End)
			continue
		}
		out = append(out, r)
	}
	m.ranges = out
}

// Freeze makes the set immutable and returns its immutable view.
func (m *MutableIndexSet) Freeze() *IndexSet {
	rt.MakeImmutable(m)
	return &m.IndexSet
}
