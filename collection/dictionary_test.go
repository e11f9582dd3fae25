package collection

import (
	"testing"

	"github.com/chazu/objkit/rt"
	"github.com/chazu/objkit/value"
)

func TestDictionaryGetSet(t *testing.T) {
	rt.WithPool(func() {
		d := NewMutableDictionary(0)
		defer rt.Release(d)

		d.Set(value.StringWith("a"), value.IntWith(1))
		d.Set(value.StringWith("b"), value.IntWith(2))
		d.Set(value.StringWith("a"), value.IntWith(3))

		if d.Count() != 2 {
			t.Errorf("Count = %d, want 2", d.Count())
		}
		v, ok := d.Get(value.StringWith("a"))
		if !ok || v.(*value.Number).Int() != 3 {
			t.Errorf("Get(a) = %v, %v; want 3", v, ok)
		}
		if _, ok := d.Get(value.StringWith("c")); ok {
			t.Error("Get(c) should miss")
		}
		if got := rt.Describe(d); got != "{a = 3; b = 2}" {
			t.Errorf("Describe = %q", got)
		}

		if !d.Remove(value.StringWith("b")) {
			t.Error("Remove(b) should report a removal")
		}
		if d.Remove(value.StringWith("b")) {
			t.Error("second Remove(b) should report nothing removed")
		}
		if d.Has(value.StringWith("b")) {
			t.Error("b still present after Remove")
		}
	})
}

func TestDictionaryCopiesKeys(t *testing.T) {
	rt.WithPool(func() {
		key := value.NewMutableString("k")
		defer rt.Release(key)

		d := NewMutableDictionary(1)
		defer rt.Release(d)
		d.Set(key, value.IntWith(1))

		key.SetString("changed")
		if !d.Has(value.StringWith("k")) {
			t.Error("mutating the caller's key changed the stored key")
		}
		if d.Has(key) {
			t.Error("stored key should not follow the caller's mutation")
		}
	})
}

func TestDictionaryReleasesEntries(t *testing.T) {
	destroyed := 0
	d := NewMutableDictionary(0)

	k := newToken(&destroyed)
	v1 := newToken(&destroyed)
	v2 := newToken(&destroyed)

	d.Set(k, v1)
	d.Set(k, v2)
	rt.Release(v1)
	if destroyed != 1 {
		t.Errorf("replaced value should be destroyed, destroyed = %d", destroyed)
	}

	// tokens cannot be copied, so the key itself is retained
	if got := rt.RetainCount(k); got != 2 {
		t.Errorf("key RetainCount = %d, want 2", got)
	}

	rt.Release(k)
	rt.Release(v2)
	rt.Release(d)
	if destroyed != 3 {
		t.Errorf("destroyed = %d, want 3", destroyed)
	}
}

func TestDictionaryEquality(t *testing.T) {
	rt.WithPool(func() {
		a := NewDictionary(
			value.StringWith("x"), value.IntWith(1),
			value.StringWith("y"), value.IntWith(2),
		)
		b := NewMutableDictionary(2)
		b.Set(value.StringWith("y"), value.FloatWith(2))
		b.Set(value.StringWith("x"), value.IntWith(1))
		defer rt.Release(a)
		defer rt.Release(b)

		if !rt.IsEqual(a, b) {
			t.Error("dictionaries with equal entries should be equal regardless of order")
		}
		if rt.HashOf(a) != rt.HashOf(b) {
			t.Error("equal dictionaries must hash alike")
		}

		b.Set(value.StringWith("z"), value.IntWith(0))
		if rt.IsEqual(a, b) {
			t.Error("dictionaries of different size should differ")
		}
	})
}

func TestDictionaryFreezeAndCopy(t *testing.T) {
	rt.WithPool(func() {
		m := NewMutableDictionary(1)
		m.Set(value.StringWith("k"), value.IntWith(1))

		mc, err := rt.MutableCopy(m)
		if err != nil {
			t.Fatal(err)
		}
		defer rt.Release(mc)

		d := m.Freeze()
		defer rt.Release(d)

		expectViolation(t, func() { m.Set(value.StringWith("k"), value.IntWith(2)) })
		expectViolation(t, func() { m.RemoveAll() })

		mc.(*MutableDictionary).RemoveAll()
		if d.Count() != 1 {
			t.Error("mutable copy shares storage with its source")
		}

		dup, err := rt.Copy(d)
		if err != nil {
			t.Fatal(err)
		}
		if !rt.Same(dup, d) {
			t.Error("copy of a frozen dictionary should be the dictionary itself")
		}
		rt.Release(dup)
	})
}

func TestNewDictionaryOddArguments(t *testing.T) {
	rt.WithPool(func() {
		expectViolation(t, func() { NewDictionary(value.StringWith("lonely")) })
	})
}
