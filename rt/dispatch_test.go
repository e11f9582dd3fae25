package rt

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Fallback dispatch tests
// ---------------------------------------------------------------------------

func TestIdentityFallback(t *testing.T) {
	id := Register(&Class{Name: "Plain"})
	a := CreateDefault(id, 8)
	b := CreateDefault(id, 8)
	defer Release(a)
	defer Release(b)

	if !IsEqual(a, a) {
		t.Error("IsEqual(a, a) should be true")
	}
	if IsEqual(a, b) {
		t.Error("distinct instances without Equal must not be equal")
	}
	if HashOf(a) != HashOf(a) {
		t.Error("address hash must be deterministic")
	}
	if HashOf(a) == HashOf(b) {
		t.Log("address hashes collided; allowed but unexpected")
	}
	if !IsEqual(nil, nil) || IsEqual(a, nil) || IsEqual(nil, a) {
		t.Error("nil equality should only hold for two nils")
	}
}

func TestDescribeFallback(t *testing.T) {
	id := Register(&Class{Name: "Anonymous"})
	a := CreateDefault(id, 0)
	defer Release(a)

	desc := Describe(a)
	if !strings.HasPrefix(desc, "<Anonymous 0x") || !strings.HasSuffix(desc, ">") {
		t.Errorf("Describe = %q, want <Anonymous 0x...>", desc)
	}
	if Describe(nil) != "(nil)" {
		t.Errorf("Describe(nil) = %q", Describe(nil))
	}
}

func TestCopyUnsupported(t *testing.T) {
	id := Register(&Class{Name: "Uncopyable"})
	a := CreateDefault(id, 0)
	defer Release(a)

	dup, err := Copy(a)
	if dup != nil || !errors.Is(err, ErrCopyUnsupported) {
		t.Errorf("Copy = %v, %v; want nil, ErrCopyUnsupported", dup, err)
	}
	dup, err = MutableCopy(a)
	if dup != nil || !errors.Is(err, ErrCopyUnsupported) {
		t.Errorf("MutableCopy = %v, %v; want nil, ErrCopyUnsupported", dup, err)
	}
}

// ---------------------------------------------------------------------------
// Class slot dispatch
// ---------------------------------------------------------------------------

var valueBoxID = Register(&Class{
	Name: "ValueBox",
	Equal: func(a, b Instance) bool {
		bb, ok := b.(*box)
		return ok && IsA(b, a.(*box).Header.class.ID()) && a.(*box).value == bb.value
	},
	Hash: func(inst Instance) uint64 {
		return HashUint64(uint64(inst.(*box).value))
	},
	Describe: func(inst Instance) string {
		return fmt.Sprintf("ValueBox(%d)", inst.(*box).value)
	},
	Copy: func(inst Instance) Instance {
		dup := New[box](RuntimeIDOf(inst), Immutable)
		dup.value = inst.(*box).value
		return dup
	},
	MutableCopy: func(inst Instance) Instance {
		dup := New[box](RuntimeIDOf(inst), Mutable)
		dup.value = inst.(*box).value
		return dup
	},
})

func newValueBox(v int) *box {
	b := New[box](valueBoxID, Mutable)
	b.value = v
	return b
}

func TestClassSlotDispatch(t *testing.T) {
	a := newValueBox(5)
	b := newValueBox(5)
	c := newValueBox(6)
	defer Release(a)
	defer Release(b)
	defer Release(c)

	if !IsEqual(a, b) {
		t.Error("boxes with equal values should be equal")
	}
	if IsEqual(a, c) {
		t.Error("boxes with different values should differ")
	}
	if HashOf(a) != HashOf(b) {
		t.Error("equal instances must hash equally")
	}
	if Describe(a) != "ValueBox(5)" {
		t.Errorf("Describe = %q", Describe(a))
	}
}

func TestCopyProducesIndependentInstance(t *testing.T) {
	a := newValueBox(9)
	defer Release(a)

	dup, err := Copy(a)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	defer Release(dup)

	if Same(a, dup) {
		t.Fatal("copy must be a new instance")
	}
	if RetainCount(dup) != 1 {
		t.Errorf("copy RetainCount = %d, want 1", RetainCount(dup))
	}
	if IsMutable(dup) {
		t.Error("Copy of ValueBox should be immutable")
	}
	if !IsEqual(a, dup) {
		t.Error("copy should equal the original")
	}

	mdup, err := MutableCopy(dup)
	if err != nil {
		t.Fatalf("MutableCopy: %v", err)
	}
	defer Release(mdup)
	if !IsMutable(mdup) {
		t.Error("MutableCopy should be mutable")
	}
}

// ---------------------------------------------------------------------------
// Capability interface dispatch
// ---------------------------------------------------------------------------

type point struct {
	Header
	x, y int
}

var pointID = Register(&Class{Name: "Point"})

func newPoint(x, y int) *point {
	p := New[point](pointID, Immutable)
	p.x, p.y = x, y
	return p
}

func (p *point) Equal(other Instance) bool {
	o, ok := other.(*point)
	return ok && o.x == p.x && o.y == p.y
}

func (p *point) Hash() uint64 {
	return CombineHash(HashUint64(uint64(p.x)), HashUint64(uint64(p.y)))
}

func (p *point) Describe() string {
	return fmt.Sprintf("(%d, %d)", p.x, p.y)
}

func (p *point) Copy() Instance {
	return RetainT(p)
}

func TestInterfaceDispatch(t *testing.T) {
	a := newPoint(1, 2)
	b := newPoint(1, 2)
	defer Release(a)
	defer Release(b)

	if !IsEqual(a, b) || HashOf(a) != HashOf(b) {
		t.Error("points with equal coordinates should be equal and hash alike")
	}
	if Describe(a) != "(1, 2)" {
		t.Errorf("Describe = %q", Describe(a))
	}

	dup, err := Copy(a)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if !Same(dup, a) || RetainCount(a) != 2 {
		t.Error("immutable point copies by retaining itself")
	}
	Release(dup)

	if _, err := MutableCopy(a); !errors.Is(err, ErrCopyUnsupported) {
		t.Errorf("MutableCopy err = %v, want ErrCopyUnsupported", err)
	}
}

func TestDispatchOnDestroyedInstance(t *testing.T) {
	p := newPoint(0, 0)
	Release(p)

	expectViolation(t, "describe", func() { Describe(p) })
	expectViolation(t, "hash", func() { HashOf(p) })
	expectViolation(t, "copy", func() { Copy(p) })
	expectViolation(t, "isEqual", func() { IsEqual(p, p) })
}

func TestHashFloat64MatchesIntegers(t *testing.T) {
	if HashFloat64(3.0) != HashUint64(3) {
		t.Error("integral floats should hash like integers")
	}
	if HashFloat64(0.0) != HashFloat64(-0.0) {
		t.Error("positive and negative zero should hash alike")
	}
	if HashString("abc") != HashBytes([]byte("abc")) {
		t.Error("HashString and HashBytes should agree")
	}
}
