package value

import (
	"strconv"

	"github.com/chazu/objkit/rt"
)

// Number is an immutable integer or floating-point number. Numbers compare
// by value across representations: 1 equals 1.0.
type Number struct {
	rt.Header
	i       int64
	f       float64
	isFloat bool
}

var numberClass rt.LazyClass

func init() {
	numberClass.Define(&rt.Class{
		Name: "Number",
		Equal: func(a, b rt.Instance) bool {
			other, ok := b.(*Number)
			return ok && a.(*Number).equal(other)
		},
		Hash: func(inst rt.Instance) uint64 {
			n := inst.(*Number)
			if n.isFloat {
				return rt.HashFloat64(n.f)
			}
			return rt.HashUint64(uint64(n.i))
		},
		Describe: func(inst rt.Instance) string {
			n := inst.(*Number)
			if n.isFloat {
				return strconv.FormatFloat(n.f, 'g', -1, 64)
			}
			return strconv.FormatInt(n.i, 10)
		},
		Copy: func(inst rt.Instance) rt.Instance {
			return rt.Retain(inst)
		},
	})
}

// NumberClassID returns the runtime id of Number.
func NumberClassID() rt.RuntimeID {
	return numberClass.ID()
}

// NewInt returns an integer number with a retain count of 1.
func NewInt(i int64) *Number {
	n := rt.New[Number](numberClass.ID(), rt.Immutable)
	n.i = i
	return n
}

// NewFloat returns a floating-point number with a retain count of 1.
func NewFloat(f float64) *Number {
	n := rt.New[Number](numberClass.ID(), rt.Immutable)
	n.f = f
	n.isFloat = true
	return n
}

// IntWith returns an autoreleased integer number.
func IntWith(i int64) *Number {
	return rt.AutoreleaseT(NewInt(i))
}

// FloatWith returns an autoreleased floating-point number.
func FloatWith(f float64) *Number {
	return rt.AutoreleaseT(NewFloat(f))
}

// IsFloat reports whether the number was created from a float.
func (n *Number) IsFloat() bool {
	return n.isFloat
}

// Int returns the value as an integer, truncating floats.
func (n *Number) Int() int64 {
	if n.isFloat {
		return int64(n.f)
	}
	return n.i
}

// Float returns the value as a float.
func (n *Number) Float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n *Number) equal(o *Number) bool {
	switch {
	case !n.isFloat && !o.isFloat:
		return n.i == o.i
	case n.isFloat && o.isFloat:
		return n.f == o.f
	case n.isFloat:
		return n.f == float64(o.i) && int64(n.f) == o.i
	default:
		return o.f == float64(n.i) && int64(o.f) == n.i
	}
}
