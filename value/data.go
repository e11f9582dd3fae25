package value

import (
	"bytes"
	"encoding/hex"

	"github.com/chazu/objkit/rt"
)

// Data is an immutable byte buffer.
type Data struct {
	rt.Header
	b []byte
}

// MutableData is a Data that can grow until it is frozen.
type MutableData struct {
	Data
}

var dataClass rt.LazyClass

func init() {
	dataClass.Define(&rt.Class{
		Name: "Data",
		Equal: func(a, b rt.Instance) bool {
			other, ok := AsData(b)
			return ok && bytes.Equal(mustData(a).b, other.b)
		},
		Hash: func(inst rt.Instance) uint64 {
			return rt.HashBytes(mustData(inst).b)
		},
		Describe: func(inst rt.Instance) string {
			return "<" + hex.EncodeToString(mustData(inst).b) + ">"
		},
		Copy: func(inst rt.Instance) rt.Instance {
			if !rt.IsMutable(inst) {
				return rt.Retain(inst)
			}
			return NewData(mustData(inst).b)
		},
		MutableCopy: func(inst rt.Instance) rt.Instance {
			return NewMutableData(mustData(inst).b)
		},
	})
}

// DataClassID returns the runtime id shared by Data and MutableData.
func DataClassID() rt.RuntimeID {
	return dataClass.ID()
}

// NewData returns an immutable copy of b with a retain count of 1.
func NewData(b []byte) *Data {
	d := rt.New[Data](dataClass.ID(), rt.Immutable)
	d.b = bytes.Clone(b)
	return d
}

// DataWith returns an autoreleased immutable copy of b.
func DataWith(b []byte) *Data {
	return rt.AutoreleaseT(NewData(b))
}

// NewMutableData returns a mutable copy of b with a retain count of 1.
func NewMutableData(b []byte) *MutableData {
	m := rt.New[MutableData](dataClass.ID(), rt.Mutable)
	m.b = bytes.Clone(b)
	return m
}

// AsData returns the data view of inst if it is a Data or MutableData.
func AsData(inst rt.Instance) (*Data, bool) {
	switch v := inst.(type) {
	case *Data:
		return v, true
	case *MutableData:
		return &v.Data, true
	}
	return nil, false
}

func mustData(inst rt.Instance) *Data {
	d, ok := AsData(inst)
	if !ok {
		panic("value: not a data instance")
	}
	return d
}

// Bytes returns the content. The slice must not be modified.
func (d *Data) Bytes() []byte {
	return d.b
}

// Len returns the length in bytes.
func (d *Data) Len() int {
	return len(d.b)
}

// Append appends bytes.
func (m *MutableData) Append(b []byte) {
	rt.AssertMutable(m)
	m.b = append(m.b, b...)
}

// Truncate shortens the content to n bytes.
func (m *MutableData) Truncate(n int) {
	rt.AssertMutable(m)
	if n < len(m.b) {
		m.b = m.b[:n]
	}
}

// Freeze makes the data immutable and returns its immutable view.
func (m *MutableData) Freeze() *Data {
	rt.MakeImmutable(m)
	return &m.Data
}
