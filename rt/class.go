package rt

import (
	"sync"
	"sync/atomic"
)

// RuntimeID identifies a registered class. Ids are assigned in registration
// order starting at 1; 0 is reserved as the "not registered" sentinel.
type RuntimeID uint32

const nullID RuntimeID = 0

// NullID returns the sentinel id that no class is ever registered under.
func NullID() RuntimeID {
	return nullID
}

// ---------------------------------------------------------------------------
// Class: descriptor of optional polymorphic behaviour
// ---------------------------------------------------------------------------

// Class describes one runtime type. Every callback is optional; when a slot
// is nil the dispatch helpers fall back to the matching capability interface
// on the instance (Destroyer, Copier, ...) and then to a default.
//
// A Class must not be modified after it has been registered.
type Class struct {
	Name string

	// Destroy runs exactly once, when the last reference is released. It
	// must release every instance the private fields own.
	Destroy func(Instance)

	// Copy returns an independent duplicate with a retain count of 1.
	Copy func(Instance) Instance

	// MutableCopy returns an independent mutable duplicate with a retain
	// count of 1.
	MutableCopy func(Instance) Instance

	// Equal reports value equality. It may be handed an instance of another
	// class as b and must answer false in that case.
	Equal func(a, b Instance) bool

	Describe func(Instance) string

	// Hash must agree with Equal: equal instances hash equally.
	Hash func(Instance) uint64

	id    atomic.Uint32
	table atomic.Pointer[ClassTable]

	created   atomic.Uint64
	destroyed atomic.Uint64
}

// ID returns the id the class was registered under, or NullID.
func (c *Class) ID() RuntimeID {
	return RuntimeID(c.id.Load())
}

// Registered returns true once the class belongs to a class table.
func (c *Class) Registered() bool {
	return c.table.Load() != nil
}

// Created returns how many instances of this class were ever created.
func (c *Class) Created() uint64 {
	return c.created.Load()
}

// Destroyed returns how many instances of this class have been destroyed.
func (c *Class) Destroyed() uint64 {
	return c.destroyed.Load()
}

// Live returns the number of instances currently alive.
func (c *Class) Live() int64 {
	return int64(c.created.Load()) - int64(c.destroyed.Load())
}

// Capabilities lists which descriptor slots are populated.
func (c *Class) Capabilities() []string {
	var caps []string
	if c.Destroy != nil {
		caps = append(caps, "destroy")
	}
	if c.Copy != nil {
		caps = append(caps, "copy")
	}
	if c.MutableCopy != nil {
		caps = append(caps, "mutableCopy")
	}
	if c.Equal != nil {
		caps = append(caps, "equal")
	}
	if c.Describe != nil {
		caps = append(caps, "describe")
	}
	if c.Hash != nil {
		caps = append(caps, "hash")
	}
	return caps
}

// ---------------------------------------------------------------------------
// ClassTable: append-only registry
// ---------------------------------------------------------------------------

// ClassTable maps runtime ids to class descriptors. Registrations are
// serialised by a mutex and publish a fresh snapshot, so lookups are a
// lock-free slice index.
type ClassTable struct {
	mu      sync.Mutex
	classes atomic.Pointer[[]*Class] // index 0 is the null sentinel
}

// NewClassTable creates an empty class table.
func NewClassTable() *ClassTable {
	ct := &ClassTable{}
	initial := []*Class{nil}
	ct.classes.Store(&initial)
	return ct
}

var defaultTable = NewClassTable()

// Default returns the process-wide class table used by the package-level
// functions.
func Default() *ClassTable {
	return defaultTable
}

// Register adds a class to the table and returns its id. Registering the
// same descriptor again returns the id it already has.
func (ct *ClassTable) Register(c *Class) RuntimeID {
	if c == nil {
		violate("register", "", "nil class descriptor")
	}
	if c.Name == "" {
		violate("register", "", "class descriptor has no name")
	}

	ct.mu.Lock()
	defer ct.mu.Unlock()

	switch owner := c.table.Load(); {
	case owner == ct:
		return c.ID()
	case owner != nil:
		violate("register", c.Name, "class already registered in another table")
	}

	old := *ct.classes.Load()
	next := make([]*Class, len(old)+1)
	copy(next, old)
	id := RuntimeID(len(old))
	next[id] = c

	c.id.Store(uint32(id))
	c.table.Store(ct)
	ct.classes.Store(&next)

	log.Debugf("registered class %s as runtime id %d", c.Name, id)
	return id
}

// Lookup returns the class registered under id. An unknown id or the null
// sentinel is a programming error and panics.
func (ct *ClassTable) Lookup(id RuntimeID) *Class {
	classes := *ct.classes.Load()
	if id == nullID || int(id) >= len(classes) {
		violate("lookup", "", "invalid runtime id %d", id)
	}
	return classes[id]
}

// LookupName finds the first class registered with the given name.
func (ct *ClassTable) LookupName(name string) (*Class, bool) {
	for _, c := range (*ct.classes.Load())[1:] {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Len returns the number of registered classes.
func (ct *ClassTable) Len() int {
	return len(*ct.classes.Load()) - 1
}

// Classes returns the registered classes in id order.
func (ct *ClassTable) Classes() []*Class {
	classes := *ct.classes.Load()
	result := make([]*Class, len(classes)-1)
	copy(result, classes[1:])
	return result
}

// Register adds a class to the default table.
func Register(c *Class) RuntimeID {
	return defaultTable.Register(c)
}

// Lookup returns a class from the default table.
func Lookup(id RuntimeID) *Class {
	return defaultTable.Lookup(id)
}

// LookupName finds a class by name in the default table.
func LookupName(name string) (*Class, bool) {
	return defaultTable.LookupName(name)
}

// ---------------------------------------------------------------------------
// LazyClass: register on first use
// ---------------------------------------------------------------------------

// LazyClass registers its descriptor in the default table the first time
// its id is needed. Packages declare one per type and fill it in from init
// so that callbacks may refer back to the class without an initialization
// cycle:
//
//	var pointClass rt.LazyClass
//
//	func init() {
//		pointClass.Define(&rt.Class{Name: "Point", Copy: copyPoint})
//	}
type LazyClass struct {
	once sync.Once
	def  *Class
}

// Define sets the descriptor. It panics if called twice.
func (l *LazyClass) Define(c *Class) {
	if l.def != nil {
		violate("define", l.def.Name, "lazy class defined twice")
	}
	l.def = c
}

// ID registers the class if needed and returns its id.
func (l *LazyClass) ID() RuntimeID {
	l.once.Do(func() {
		if l.def == nil {
			violate("register", "", "lazy class used before Define")
		}
		Register(l.def)
	})
	return l.def.ID()
}

// Descriptor registers the class if needed and returns it.
func (l *LazyClass) Descriptor() *Class {
	l.ID()
	return l.def
}
