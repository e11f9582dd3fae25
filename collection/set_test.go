package collection

import (
	"testing"

	"github.com/chazu/objkit/rt"
	"github.com/chazu/objkit/value"
)

func TestSetMembership(t *testing.T) {
	rt.WithPool(func() {
		s := NewMutableSet(0)
		defer rt.Release(s)

		if !s.Add(value.IntWith(1)) {
			t.Error("first Add should change the set")
		}
		if s.Add(value.FloatWith(1)) {
			t.Error("adding an equal member should not change the set")
		}
		s.Add(value.StringWith("one"))

		if s.Count() != 2 {
			t.Errorf("Count = %d, want 2", s.Count())
		}
		if !s.Contains(value.IntWith(1)) || !s.Contains(value.StringWith("one")) {
			t.Error("Contains missed a member")
		}
		m, ok := s.Member(value.FloatWith(1))
		if !ok || m.(*value.Number).IsFloat() {
			t.Error("Member should return the stored instance")
		}
		if !s.Remove(value.IntWith(1)) || s.Contains(value.IntWith(1)) {
			t.Error("Remove failed")
		}
	})
}

func TestSetReleasesMembers(t *testing.T) {
	destroyed := 0
	s := NewMutableSet(0)
	for i := 0; i < 3; i++ {
		tk := newToken(&destroyed)
		s.Add(tk)
		rt.Release(tk)
	}
	if destroyed != 0 {
		t.Fatal("members destroyed while held by the set")
	}
	rt.Release(s)
	if destroyed != 3 {
		t.Errorf("destroyed = %d, want 3", destroyed)
	}
}

func TestSetAlgebra(t *testing.T) {
	rt.WithPool(func() {
		a := NewMutableSet(0)
		defer rt.Release(a)
		for _, s := range []string{"a", "b", "c"} {
			a.Add(value.StringWith(s))
		}
		b := SetWith(value.StringWith("b"), value.StringWith("c"), value.StringWith("d"))

		if b.IsSubset(&a.Set) {
			t.Error("b is not a subset of a")
		}

		a.Intersect(b)
		if a.Count() != 2 || a.Contains(value.StringWith("a")) {
			t.Errorf("Intersect left %s", rt.Describe(a))
		}

		a.Union(b)
		if !rt.IsEqual(a, b) {
			t.Errorf("after Union, %s != %s", rt.Describe(a), rt.Describe(b))
		}
		if rt.HashOf(a) != rt.HashOf(b) {
			t.Error("equal sets must hash alike")
		}
	})
}

func TestSetFreeze(t *testing.T) {
	rt.WithPool(func() {
		m := NewMutableSet(1)
		m.Add(value.StringWith("x"))
		s := m.Freeze()
		defer rt.Release(s)

		expectViolation(t, func() { m.Add(value.StringWith("y")) })
		if got := rt.Describe(s); got != "{(x)}" {
			t.Errorf("Describe = %q, want {(x)}", got)
		}
	})
}
