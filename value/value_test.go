package value

import (
	"errors"
	"testing"

	"github.com/chazu/objkit/rt"
)

func expectViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if _, ok := recover().(*rt.ContractViolation); !ok {
			t.Error("expected a contract violation")
		}
	}()
	fn()
}

// ---------------------------------------------------------------------------
// String tests
// ---------------------------------------------------------------------------

func TestStringEquality(t *testing.T) {
	a := NewString("hello")
	b := NewMutableString("hel")
	b.Append("lo")
	defer rt.Release(a)
	defer rt.Release(b)

	if !rt.IsEqual(a, b) || !rt.IsEqual(b, a) {
		t.Error("strings with equal content should be equal in both directions")
	}
	if rt.HashOf(a) != rt.HashOf(b) {
		t.Error("equal strings must hash alike")
	}
	if rt.Describe(a) != "hello" {
		t.Errorf("Describe = %q, want hello", rt.Describe(a))
	}
	if !rt.IsA(a, StringClassID()) || !rt.IsA(b, StringClassID()) {
		t.Error("String and MutableString share one class")
	}
}

func TestStringCopy(t *testing.T) {
	s := NewString("immutable")
	defer rt.Release(s)

	dup, err := rt.Copy(s)
	if err != nil {
		t.Fatal(err)
	}
	if !rt.Same(dup, s) {
		t.Error("copying an immutable string should return the same instance")
	}
	rt.Release(dup)

	m, err := rt.MutableCopy(s)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Release(m)
	ms, ok := m.(*MutableString)
	if !ok {
		t.Fatalf("MutableCopy returned %T, want *MutableString", m)
	}
	ms.Append("!")
	if s.Value() != "immutable" || ms.Value() != "immutable!" {
		t.Errorf("copies are not independent: %q, %q", s.Value(), ms.Value())
	}

	frozen, err := rt.Copy(ms)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Release(frozen)
	if rt.Same(frozen, ms) || rt.IsMutable(frozen) {
		t.Error("copy of a mutable string should be a new immutable string")
	}
}

func TestMutableStringFreeze(t *testing.T) {
	m := NewMutableString("draft")
	s := m.Freeze()
	defer rt.Release(s)

	if rt.IsMutable(s) {
		t.Error("frozen string should be immutable")
	}
	if s.Value() != "draft" {
		t.Errorf("Value = %q", s.Value())
	}
	expectViolation(t, func() { m.Append("more") })
	expectViolation(t, func() { m.SetString("other") })
}

func TestStringWithAutoreleases(t *testing.T) {
	var s *String
	rt.WithPool(func() {
		s = StringWith("temporary")
		if rt.RetainCount(s) != 1 {
			t.Errorf("RetainCount = %d, want 1", rt.RetainCount(s))
		}
	})
	if rt.RetainCount(s) != 0 {
		t.Error("autoreleased string should be destroyed when its pool pops")
	}
}

// ---------------------------------------------------------------------------
// Number tests
// ---------------------------------------------------------------------------

func TestNumberEquality(t *testing.T) {
	one := NewInt(1)
	oneF := NewFloat(1.0)
	half := NewFloat(0.5)
	defer rt.Release(one)
	defer rt.Release(oneF)
	defer rt.Release(half)

	if !rt.IsEqual(one, oneF) || !rt.IsEqual(oneF, one) {
		t.Error("1 and 1.0 should be equal")
	}
	if rt.HashOf(one) != rt.HashOf(oneF) {
		t.Error("1 and 1.0 should hash alike")
	}
	if rt.IsEqual(one, half) {
		t.Error("1 and 0.5 should differ")
	}
	if rt.Describe(half) != "0.5" || rt.Describe(one) != "1" {
		t.Errorf("descriptions: %q %q", rt.Describe(half), rt.Describe(one))
	}
	if half.Int() != 0 || one.Float() != 1.0 || !half.IsFloat() {
		t.Error("conversions are wrong")
	}
}

func TestNumberNotEqualToString(t *testing.T) {
	n := NewInt(1)
	s := NewString("1")
	defer rt.Release(n)
	defer rt.Release(s)

	if rt.IsEqual(n, s) || rt.IsEqual(s, n) {
		t.Error("a number never equals a string")
	}
}

func TestNumberCopyRetains(t *testing.T) {
	n := NewInt(42)
	defer rt.Release(n)

	dup, err := rt.Copy(n)
	if err != nil {
		t.Fatal(err)
	}
	if !rt.Same(dup, n) || rt.RetainCount(n) != 2 {
		t.Error("numbers copy by retaining")
	}
	rt.Release(dup)

	if _, err := rt.MutableCopy(n); !errors.Is(err, rt.ErrCopyUnsupported) {
		t.Errorf("MutableCopy err = %v, want ErrCopyUnsupported", err)
	}
}

// ---------------------------------------------------------------------------
// Data tests
// ---------------------------------------------------------------------------

func TestDataEqualityAndDescribe(t *testing.T) {
	a := NewData([]byte{0xde, 0xad})
	b := NewMutableData([]byte{0xde})
	b.Append([]byte{0xad})
	defer rt.Release(a)
	defer rt.Release(b)

	if !rt.IsEqual(a, b) || rt.HashOf(a) != rt.HashOf(b) {
		t.Error("equal byte content should be equal and hash alike")
	}
	if rt.Describe(a) != "<dead>" {
		t.Errorf("Describe = %q, want <dead>", rt.Describe(a))
	}
}

func TestDataDoesNotAlias(t *testing.T) {
	src := []byte{1, 2, 3}
	d := NewData(src)
	defer rt.Release(d)

	src[0] = 9
	if d.Bytes()[0] != 1 {
		t.Error("NewData must copy its input")
	}
}

func TestMutableDataFreeze(t *testing.T) {
	m := NewMutableData(nil)
	m.Append([]byte("abc"))
	m.Truncate(2)
	d := m.Freeze()
	defer rt.Release(d)

	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
	expectViolation(t, func() { m.Append([]byte("x")) })
}
