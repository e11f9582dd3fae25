package rt

import (
	"sync/atomic"
)

// Options are the per-instance option flags stamped at creation.
type Options uint32

const (
	// Mutable instances accept mutating operations. It is the default.
	Mutable Options = 1 << iota
	// Immutable instances reject mutation; see MakeImmutable.
	Immutable
)

func (o Options) String() string {
	switch {
	case o&Immutable != 0:
		return "immutable"
	case o&Mutable != 0:
		return "mutable"
	}
	return "none"
}

// header flag bits, separate from the user-visible options
const (
	flagDestroyed uint32 = 1 << iota
	flagWeak
)

// Header is the common header of every runtime instance. Types join the
// runtime by embedding it as their first field; its fields are only reachable
// through the package functions.
type Header struct {
	class *Class
	self  Instance // the embedding instance, nil once destroyed
	refs  atomic.Int32
	opts  atomic.Uint32
	flags atomic.Uint32
}

func (h *Header) objectHeader() *Header {
	return h
}

// Instance is any value embedding a Header.
type Instance interface {
	objectHeader() *Header
}

func headerOf(op string, inst Instance) *Header {
	if inst == nil {
		violate(op, "", "nil instance")
	}
	return inst.objectHeader()
}

func (h *Header) className() string {
	if h.class == nil {
		return "<uninitialised>"
	}
	return h.class.Name
}

// liveHeader returns the header of inst, panicking if the instance was never
// initialised or has already been destroyed.
func liveHeader(op string, inst Instance) *Header {
	h := headerOf(op, inst)
	if h.class == nil {
		violate(op, "", "instance was never initialised")
	}
	if h.refs.Load() <= 0 {
		violate(op, h.class.Name, "instance already destroyed")
	}
	return h
}

func normalizeOptions(op string, opts Options) Options {
	if opts&Mutable != 0 && opts&Immutable != 0 {
		violate(op, "", "options %#x are both mutable and immutable", uint32(opts))
	}
	if opts&(Mutable|Immutable) == 0 {
		opts |= Mutable
	}
	return opts
}

// ---------------------------------------------------------------------------
// Instance creation
// ---------------------------------------------------------------------------

// Init stamps the header of a freshly allocated instance: class, retain
// count 1 and options. It panics if inst was already initialised.
func (ct *ClassTable) Init(inst Instance, id RuntimeID, opts Options) {
	h := headerOf("init", inst)
	if h.class != nil {
		violate("init", h.class.Name, "instance already initialised")
	}
	opts = normalizeOptions("init", opts)
	c := ct.Lookup(id)
	h.class = c
	h.self = inst
	h.opts.Store(uint32(opts))
	h.refs.Store(1)
	c.created.Add(1)
}

// Init stamps inst against the default class table.
func Init(inst Instance, id RuntimeID, opts Options) {
	defaultTable.Init(inst, id, opts)
}

// New allocates a zeroed T, whose first field must be an embedded Header,
// and initialises it against the default class table.
func New[T any, P interface {
	*T
	Instance
}](id RuntimeID, opts Options) P {
	p := P(new(T))
	defaultTable.Init(p, id, opts)
	return p
}

// Object is an instance whose private storage is an untyped, zero-filled
// byte region of a caller-chosen size.
type Object struct {
	Header
	body []byte
}

// Create allocates an Object with size bytes of private storage.
func (ct *ClassTable) Create(id RuntimeID, size int, opts Options) *Object {
	if size < 0 {
		violate("create", "", "negative instance size %d", size)
	}
	obj := &Object{body: make([]byte, size)}
	ct.Init(obj, id, opts)
	return obj
}

// Create allocates an Object against the default class table.
func Create(id RuntimeID, size int, opts Options) *Object {
	return defaultTable.Create(id, size, opts)
}

// CreateDefault allocates a mutable Object.
func CreateDefault(id RuntimeID, size int) *Object {
	return defaultTable.Create(id, size, Mutable)
}

// Bytes returns the private storage.
func (o *Object) Bytes() []byte {
	return o.body
}

// Len returns the size of the private storage.
func (o *Object) Len() int {
	return len(o.body)
}

// Resize changes the size of the private storage. Existing content is kept
// up to the new size; growth is zero-filled.
func (o *Object) Resize(size int) {
	if size < 0 {
		violate("resize", o.className(), "negative instance size %d", size)
	}
	liveHeader("resize", o)
	if size <= cap(o.body) {
		old := len(o.body)
		o.body = o.body[:size]
		if size > old {
			clear(o.body[old:])
		}
		return
	}
	body := make([]byte, size)
	copy(body, o.body)
	o.body = body
}
