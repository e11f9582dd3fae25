package value

import (
	"strings"

	"github.com/chazu/objkit/rt"
)

// String is an immutable string instance.
type String struct {
	rt.Header
	s string
}

// MutableString is a String that can be modified until it is frozen.
type MutableString struct {
	String
}

var stringClass rt.LazyClass

func init() {
	stringClass.Define(&rt.Class{
		Name: "String",
		Equal: func(a, b rt.Instance) bool {
			other, ok := AsString(b)
			return ok && mustString(a).s == other.s
		},
		Hash: func(inst rt.Instance) uint64 {
			return rt.HashString(mustString(inst).s)
		},
		Describe: func(inst rt.Instance) string {
			return mustString(inst).s
		},
		Copy: func(inst rt.Instance) rt.Instance {
			if !rt.IsMutable(inst) {
				return rt.Retain(inst)
			}
			return NewString(mustString(inst).s)
		},
		MutableCopy: func(inst rt.Instance) rt.Instance {
			return NewMutableString(mustString(inst).s)
		},
	})
}

// StringClassID returns the runtime id shared by String and MutableString.
func StringClassID() rt.RuntimeID {
	return stringClass.ID()
}

// NewString returns an immutable string with a retain count of 1.
func NewString(s string) *String {
	str := rt.New[String](stringClass.ID(), rt.Immutable)
	str.s = s
	return str
}

// StringWith returns an autoreleased immutable string.
func StringWith(s string) *String {
	return rt.AutoreleaseT(NewString(s))
}

// NewMutableString returns a mutable string with a retain count of 1.
func NewMutableString(s string) *MutableString {
	m := rt.New[MutableString](stringClass.ID(), rt.Mutable)
	m.s = s
	return m
}

// AsString returns the string view of inst if it is a String or
// MutableString.
func AsString(inst rt.Instance) (*String, bool) {
	switch v := inst.(type) {
	case *String:
		return v, true
	case *MutableString:
		return &v.String, true
	}
	return nil, false
}

func mustString(inst rt.Instance) *String {
	s, ok := AsString(inst)
	if !ok {
		panic("value: not a string instance")
	}
	return s
}

// Value returns the Go string.
func (s *String) Value() string {
	return s.s
}

// Len returns the length in bytes.
func (s *String) Len() int {
	return len(s.s)
}

// HasPrefix reports whether the string begins with prefix.
func (s *String) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.s, prefix)
}

// Append appends to the string.
func (m *MutableString) Append(s string) {
	rt.AssertMutable(m)
	m.s += s
}

// SetString replaces the content.
func (m *MutableString) SetString(s string) {
	rt.AssertMutable(m)
	m.s = s
}

// Freeze makes the string immutable and returns its immutable view. The
// caller's reference carries over to the returned value.
func (m *MutableString) Freeze() *String {
	rt.MakeImmutable(m)
	return &m.String
}
