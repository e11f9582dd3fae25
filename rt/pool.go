package rt

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// ---------------------------------------------------------------------------
// Pool: goroutine-confined autorelease pool
// ---------------------------------------------------------------------------

// Pool collects deferred releases. Pools nest per goroutine: the most
// recently pushed, not yet popped pool receives every Autorelease made on
// that goroutine. A pool belongs to the goroutine that pushed it and must not
// be used from any other.
type Pool struct {
	parent *Pool
	stack  *poolStack
	items  []Instance
	depth  int
	popped bool
}

// poolStack is the chain of pools of one goroutine. Only the owning
// goroutine touches it, so it needs no lock.
type poolStack struct {
	owner int64
	top   *Pool
	depth int
}

// DefaultPoolCapacity is the initial capacity of a new pool's list.
const DefaultPoolCapacity = 16

var (
	stacks sync.Map // goroutine id -> *poolStack

	strictAffinity atomic.Bool
	poolCapacity   atomic.Int32

	pendingTotal atomic.Int64
	activePools  atomic.Int64
)

func init() {
	strictAffinity.Store(true)
	poolCapacity.Store(DefaultPoolCapacity)
}

// SetStrictAffinity controls whether using a pool from a goroutine other
// than its owner panics. It is on by default.
func SetStrictAffinity(strict bool) {
	strictAffinity.Store(strict)
}

// SetPoolCapacity sets the initial capacity of pools pushed from now on.
// Values below 1 restore the default.
func SetPoolCapacity(n int) {
	if n < 1 {
		n = DefaultPoolCapacity
	}
	poolCapacity.Store(int32(n))
}

func goroutineStack(create bool) *poolStack {
	gid := goid.Get()
	if s, ok := stacks.Load(gid); ok {
		return s.(*poolStack)
	}
	if !create {
		return nil
	}
	s := &poolStack{owner: gid}
	stacks.Store(gid, s)
	return s
}

// PushPool creates a pool nested inside the calling goroutine's current
// pool and makes it current.
func PushPool() *Pool {
	s := goroutineStack(true)
	s.depth++
	p := &Pool{
		parent: s.top,
		stack:  s,
		items:  make([]Instance, 0, poolCapacity.Load()),
		depth:  s.depth,
	}
	s.top = p
	activePools.Add(1)
	return p
}

// CurrentPool returns the calling goroutine's innermost pool, or nil.
func CurrentPool() *Pool {
	s := goroutineStack(false)
	if s == nil {
		return nil
	}
	return s.top
}

// PoolDepth returns how many pools are pushed on the calling goroutine.
func PoolDepth() int {
	s := goroutineStack(false)
	if s == nil {
		return 0
	}
	return s.depth
}

// PendingAutoreleases returns the number of releases waiting in pools
// across all goroutines.
func PendingAutoreleases() int64 {
	return pendingTotal.Load()
}

// ActivePools returns the number of pushed, not yet popped pools across all
// goroutines.
func ActivePools() int64 {
	return activePools.Load()
}

// WithPool runs fn inside a fresh pool that is popped when fn returns or
// panics.
func WithPool(fn func()) {
	p := PushPool()
	defer p.Pop()
	fn()
}

func (p *Pool) check(op string) {
	if p.popped {
		violate(op, "", "autorelease pool already popped")
	}
	if strictAffinity.Load() {
		if gid := goid.Get(); gid != p.stack.owner {
			violate(op, "", "autorelease pool of goroutine %d used from goroutine %d", p.stack.owner, gid)
		}
	}
}

// Len returns the number of pending releases in the pool.
func (p *Pool) Len() int {
	return len(p.items)
}

// Depth returns the nesting depth of the pool, 1 for the outermost.
func (p *Pool) Depth() int {
	return p.depth
}

// Parent returns the pool that was current when p was pushed.
func (p *Pool) Parent() *Pool {
	return p.parent
}

// Add registers one deferred release of inst. Autorelease calls it on the
// current pool; calling it directly targets a specific pool.
func (p *Pool) Add(inst Instance) {
	p.check("autorelease")
	liveHeader("autorelease", inst)
	p.items = append(p.items, inst)
	pendingTotal.Add(1)
}

// Drain releases every registered instance, most recent first, and leaves
// the pool empty and current. Instances autoreleased into p by destroy
// callbacks during the drain are released too. It returns the number of
// releases performed.
func (p *Pool) Drain() int {
	p.check("drain")

	released := 0
	for len(p.items) > 0 {
		batch := p.items
		p.items = nil
		for i := len(batch) - 1; i >= 0; i-- {
			inst := batch[i]
			batch[i] = nil
			pendingTotal.Add(-1)
			Release(inst)
			released++
		}
		if p.items == nil {
			p.items = batch[:0]
		}
	}
	return released
}

// Pop drains the pool, first popping any pools still nested inside it, and
// restores its parent as the current pool.
func (p *Pool) Pop() int {
	p.check("pop")

	s := p.stack
	released := 0
	for s.top != p {
		released += s.top.Pop()
	}
	released += p.Drain()

	s.top = p.parent
	s.depth--
	p.popped = true
	p.items = nil
	activePools.Add(-1)
	if s.top == nil {
		stacks.Delete(s.owner)
	}

	log.Debugf("popped autorelease pool at depth %d, %d released", p.depth, released)
	return released
}
