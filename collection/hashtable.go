package collection

import "github.com/chazu/objkit/rt"

// hashEntry is one key (and, for dictionaries, value) held by a hashTable.
// The table owns one reference to each.
type hashEntry struct {
	key   rt.Instance
	value rt.Instance
	hash  uint64
}

// hashTable buckets entries by rt.HashOf and compares keys with rt.IsEqual.
// Iteration follows insertion order.
type hashTable struct {
	buckets map[uint64][]*hashEntry
	order   []*hashEntry
}

func newHashTable(capacity int) hashTable {
	return hashTable{
		buckets: make(map[uint64][]*hashEntry, capacity),
		order:   make([]*hashEntry, 0, capacity),
	}
}

func (t *hashTable) len() int {
	return len(t.order)
}

// find returns the entry whose key equals key, and the key's hash.
func (t *hashTable) find(key rt.Instance) (*hashEntry, uint64) {
	h := rt.HashOf(key)
	for _, e := range t.buckets[h] {
		if rt.IsEqual(e.key, key) {
			return e, h
		}
	}
	return nil, h
}

func (t *hashTable) insert(e *hashEntry) {
	t.buckets[e.hash] = append(t.buckets[e.hash], e)
	t.order = append(t.order, e)
}

// remove unlinks e without releasing anything.
func (t *hashTable) remove(e *hashEntry) {
	bucket := t.buckets[e.hash]
	for i, be := range bucket {
		if be == e {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(t.buckets, e.hash)
	} else {
		t.buckets[e.hash] = bucket
	}
	for i, oe := range t.order {
		if oe == e {
			copy(t.order[i:], t.order[i+1:])
			t.order[len(t.order)-1] = nil
			t.order = t.order[:len(t.order)-1]
			break
		}
	}
}

// clear unlinks every entry and returns them for releasing.
func (t *hashTable) clear() []*hashEntry {
	entries := t.order
	t.buckets = make(map[uint64][]*hashEntry)
	t.order = nil
	return entries
}

func releaseEntry(e *hashEntry) {
	rt.Release(e.key)
	if e.value != nil {
		rt.Release(e.value)
	}
}

// storedKey returns the reference a table keeps for key: an immutable copy
// when the key's class can copy, the key itself retained otherwise. Keys must
// not change while stored.
func storedKey(key rt.Instance) rt.Instance {
	if dup, err := rt.Copy(key); err == nil {
		return dup
	}
	return rt.Retain(key)
}

// cloneInto adds retained references to every entry of t into dst.
func (t *hashTable) cloneInto(dst *hashTable) {
	for _, e := range t.order {
		ne := &hashEntry{key: rt.Retain(e.key), hash: e.hash}
		if e.value != nil {
			ne.value = rt.Retain(e.value)
		}
		dst.insert(ne)
	}
}
