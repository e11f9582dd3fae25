package collection

import (
	"strings"

	"github.com/chazu/objkit/rt"
)

// Dictionary maps keys to values, both runtime instances. Keys compare with
// rt.IsEqual and are stored as immutable copies where possible.
type Dictionary struct {
	rt.Header
	table hashTable
}

// MutableDictionary is a Dictionary that accepts mutation until frozen.
type MutableDictionary struct {
	Dictionary
}

var dictionaryClass rt.LazyClass

func init() {
	dictionaryClass.Define(&rt.Class{Name: "Dictionary"})
}

// DictionaryClassID returns the runtime id shared by both dictionary types.
func DictionaryClassID() rt.RuntimeID {
	return dictionaryClass.ID()
}

// NewDictionary builds an immutable dictionary from alternating keys and
// values. A later duplicate key replaces the earlier value.
func NewDictionary(keysAndValues ...rt.Instance) *Dictionary {
	if len(keysAndValues)%2 != 0 {
		rt.Fail("newDictionary", nil, "odd number of keys and values (%d)", len(keysAndValues))
	}
	m := NewMutableDictionary(len(keysAndValues) / 2)
	for i := 0; i < len(keysAndValues); i += 2 {
		m.Set(keysAndValues[i], keysAndValues[i+1])
	}
	return m.Freeze()
}

// DictionaryWith returns an autoreleased immutable dictionary.
func DictionaryWith(keysAndValues ...rt.Instance) *Dictionary {
	return rt.AutoreleaseT(NewDictionary(keysAndValues...))
}

// NewMutableDictionary returns an empty mutable dictionary.
func NewMutableDictionary(capacity int) *MutableDictionary {
	m := rt.New[MutableDictionary](dictionaryClass.ID(), rt.Mutable)
	m.table = newHashTable(capacity)
	return m
}

// AsDictionary returns the dictionary view of inst.
func AsDictionary(inst rt.Instance) (*Dictionary, bool) {
	switch v := inst.(type) {
	case *Dictionary:
		return v, true
	case *MutableDictionary:
		return &v.Dictionary, true
	}
	return nil, false
}

// Count returns the number of entries.
func (d *Dictionary) Count() int {
	return d.table.len()
}

// Get returns the value stored under key, without retaining it.
func (d *Dictionary) Get(key rt.Instance) (rt.Instance, bool) {
	e, _ := d.table.find(key)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Has reports whether key is present.
func (d *Dictionary) Has(key rt.Instance) bool {
	e, _ := d.table.find(key)
	return e != nil
}

// Each calls fn for every entry in insertion order until fn returns false.
func (d *Dictionary) Each(fn func(key, value rt.Instance) bool) {
	for _, e := range d.table.order {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Keys returns the keys in insertion order, not retained.
func (d *Dictionary) Keys() []rt.Instance {
	keys := make([]rt.Instance, 0, d.table.len())
	for _, e := range d.table.order {
		keys = append(keys, e.key)
	}
	return keys
}

// Values returns the values in insertion order, not retained.
func (d *Dictionary) Values() []rt.Instance {
	values := make([]rt.Instance, 0, d.table.len())
	for _, e := range d.table.order {
		values = append(values, e.value)
	}
	return values
}

// Destroy releases every key and value.
func (d *Dictionary) Destroy() {
	for _, e := range d.table.clear() {
		releaseEntry(e)
	}
}

// Equal reports whether other holds equal values under equal keys.
func (d *Dictionary) Equal(other rt.Instance) bool {
	o, ok := AsDictionary(other)
	if !ok || o.Count() != d.Count() {
		return false
	}
	for _, e := range d.table.order {
		v, ok := o.Get(e.key)
		if !ok || !rt.IsEqual(e.value, v) {
			return false
		}
	}
	return true
}

// Hash is independent of insertion order.
func (d *Dictionary) Hash() uint64 {
	h := rt.HashUint64(uint64(d.Count()))
	for _, e := range d.table.order {
		h += rt.CombineHash(e.hash, rt.HashOf(e.value))
	}
	return h
}

// Describe renders the dictionary as "{k = v; ...}".
func (d *Dictionary) Describe() string {
	var b strings.Builder
	b.WriteString("{")
	for i, e := range d.table.order {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(rt.Describe(e.key))
		b.WriteString(" = ")
		b.WriteString(rt.Describe(e.value))
	}
	b.WriteString("}")
	return b.String()
}

// Copy returns an immutable dictionary with the same entries.
func (d *Dictionary) Copy() rt.Instance {
	if !rt.IsMutable(d) {
		return rt.Retain(d)
	}
	c := rt.New[Dictionary](dictionaryClass.ID(), rt.Immutable)
	c.table = newHashTable(d.Count())
	d.table.cloneInto(&c.table)
	return c
}

// MutableCopy returns a mutable dictionary with the same entries.
func (d *Dictionary) MutableCopy() rt.Instance {
	m := NewMutableDictionary(d.Count())
	d.table.cloneInto(&m.table)
	return m
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// Set stores value under key, replacing and releasing any previous value.
func (m *MutableDictionary) Set(key, value rt.Instance) {
	rt.AssertMutable(m)
	if key == nil || value == nil {
		rt.Fail("set", m, "nil key or value")
	}
	rt.Retain(value)
	if e, _ := m.table.find(key); e != nil {
		old := e.value
		e.value = value
		rt.Release(old)
		return
	}
	stored := storedKey(key)
	m.table.insert(&hashEntry{key: stored, value: value, hash: rt.HashOf(stored)})
}

// Remove deletes the entry for key, if any, and reports whether it existed.
func (m *MutableDictionary) Remove(key rt.Instance) bool {
	rt.AssertMutable(m)
	e, _ := m.table.find(key)
	if e == nil {
		return false
	}
	m.table.remove(e)
	releaseEntry(e)
	return true
}

// RemoveAll deletes every entry.
func (m *MutableDictionary) RemoveAll() {
	rt.AssertMutable(m)
	for _, e := range m.table.clear() {
		releaseEntry(e)
	}
}

// Freeze makes the dictionary immutable and returns its immutable view.
func (m *MutableDictionary) Freeze() *Dictionary {
	rt.MakeImmutable(m)
	return &m.Dictionary
}
