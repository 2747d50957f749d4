// Package cache provides an Adaptive Replacement Cache (ARC) eviction
// policy for the content-addressed entity cache (spec §4.7). ARC balances
// between recency and frequency by tracking, alongside the two cached lists
// T1 (recent) and T2 (frequent), two ghost lists B1 and B2 that remember
// recently evicted keys without their values — a hit in a ghost list adapts
// the target split p between T1 and T2 rather than producing a value.
//
// Unlike a generic key-value cache, Policy stores no values of its own: the
// entity manager owns the actual hash→Entity map, and Policy only decides,
// given a bounded entry count, which hash to evict next. This mirrors how
// the manager already holds entities behind a refcounted Handle — Policy
// augments that with recency/frequency-aware ordering instead of the
// simpler "anything unreferenced is fair game" sweep.
package cache

import (
	"container/list"
	"sync"

	"pds/hashid"
)

type listKind int

const (
	listT1 listKind = iota
	listT2
	listB1
	listB2
)

type entry struct {
	hash hashid.Hash
	size int64
	kind listKind
}

type arcList struct {
	l       *list.List
	index   map[hashid.Hash]*list.Element
	maxSize int
	mem     int64
}

func newARCList(maxSize int) *arcList {
	return &arcList{l: list.New(), index: map[hashid.Hash]*list.Element{}, maxSize: maxSize}
}

func (al *arcList) len() int { return al.l.Len() }

func (al *arcList) pushFront(e *entry) {
	al.index[e.hash] = al.l.PushFront(e)
	al.mem += e.size
}

func (al *arcList) remove(h hashid.Hash) (*entry, bool) {
	elem, ok := al.index[h]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	al.l.Remove(elem)
	delete(al.index, h)
	al.mem -= e.size
	return e, true
}

func (al *arcList) back() (*entry, bool) {
	elem := al.l.Back()
	if elem == nil {
		return nil, false
	}
	return elem.Value.(*entry), true
}

// Config bounds a Policy's target entry count and, optionally, its
// approximate memory footprint.
type Config struct {
	MaxEntries int   // target number of live (T1+T2) entries
	MaxMemory  int64 // approximate byte budget; 0 disables memory-aware eviction
}

// Policy tracks ARC list membership for a bounded set of content-addressed
// hashes and reports which hash to evict next. It is safe for concurrent
// use.
type Policy struct {
	mu sync.Mutex

	target     int   // c: target combined size of T1+T2
	p          int   // adaptive split point favoring T1 over T2
	maxMemory  int64
	curMemory  int64

	t1, t2, b1, b2 *arcList

	evictions   int64
	adaptations int64
}

// NewPolicy creates a Policy bounded by cfg. A MaxEntries of zero or less
// disables the entry-count limit (memory, if configured, still applies).
func NewPolicy(cfg Config) *Policy {
	c := cfg.MaxEntries
	if c <= 0 {
		c = 1 << 30 // effectively unbounded
	}
	return &Policy{
		target:    c,
		p:         c / 2,
		maxMemory: cfg.MaxMemory,
		t1:        newARCList(c),
		t2:        newARCList(c),
		b1:        newARCList(c),
		b2:        newARCList(c),
	}
}

// Touch records a cache hit for h, if the policy is tracking it, promoting
// it within the recency/frequency lists and adapting the target split when
// the hit lands in a ghost list. Callers should invoke Touch on every cache
// access (hit or miss) so the policy's view of hotness stays accurate.
func (p *Policy) Touch(h hashid.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.t1.remove(h); ok {
		e.kind = listT2
		p.t2.pushFront(e)
		return
	}
	if elem, ok := p.t2.index[h]; ok {
		p.t2.l.MoveToFront(elem)
		return
	}
	if _, ok := p.b1.remove(h); ok {
		p.adapt(+1, p.b1.len(), p.b2.len())
		return
	}
	if _, ok := p.b2.remove(h); ok {
		p.adapt(-1, p.b2.len(), p.b1.len())
		return
	}
}

func (p *Policy) adapt(sign int, numerator, denominator int) {
	delta := 1
	if denominator > 0 && numerator >= denominator {
		delta = numerator / denominator
	}
	p.p += sign * delta
	if p.p < 0 {
		p.p = 0
	}
	if p.p > p.target {
		p.p = p.target
	}
	p.adaptations++
}

// Admit records a newly cached hash of the given approximate size, placing
// it in T1 as a recent arrival. Callers should call Admit exactly once per
// hash, after a successful load or store.
func (p *Policy) Admit(h hashid.Hash, size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.t1.remove(h)
	p.t2.remove(h)
	p.t1.pushFront(&entry{hash: h, size: size, kind: listT1})
	p.curMemory += size
}

// Forget removes h from every list the policy tracks, for use when a hash
// is evicted or deleted outside the policy's own Evict recommendation.
func (p *Policy) Forget(h hashid.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range []*arcList{p.t1, p.t2} {
		if e, ok := l.remove(h); ok {
			p.curMemory -= e.size
		}
	}
	p.b1.remove(h)
	p.b2.remove(h)
}

// ShouldEvict reports whether the policy is over its configured bounds and,
// if so, which hash to evict next according to the ARC replacement rule:
// evict from T1 when it exceeds the adaptive split p, otherwise from T2.
// The caller is responsible for actually evicting the entity (typically
// skipping any hash still held by an outstanding Handle) and must then call
// Evicted (or Forget, for a hash it decides to keep) to keep the policy's
// bookkeeping in sync.
func (p *Policy) ShouldEvict() (hashid.Hash, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	overCount := p.t1.len()+p.t2.len() > p.target
	overMemory := p.maxMemory > 0 && p.curMemory > p.maxMemory
	if !overCount && !overMemory {
		return hashid.Hash{}, false
	}

	from := p.t2
	if p.t1.len() > p.p || p.t1.len() == 0 {
		from = p.t1
	}
	e, ok := from.back()
	if !ok {
		from = p.other(from)
		e, ok = from.back()
		if !ok {
			return hashid.Hash{}, false
		}
	}
	return e.hash, true
}

func (p *Policy) other(l *arcList) *arcList {
	if l == p.t1 {
		return p.t2
	}
	return p.t1
}

// Evicted moves h from its cached list to the corresponding ghost list and
// updates memory accounting. Call this after the caller has actually
// dropped h's entity from its own storage, following a ShouldEvict hint.
func (p *Policy) Evicted(h hashid.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.t1.remove(h); ok {
		p.curMemory -= e.size
		p.b1.pushFront(&entry{hash: h, kind: listB1})
		p.trimGhost(p.b1)
		p.evictions++
		return
	}
	if e, ok := p.t2.remove(h); ok {
		p.curMemory -= e.size
		p.b2.pushFront(&entry{hash: h, kind: listB2})
		p.trimGhost(p.b2)
		p.evictions++
	}
}

func (p *Policy) trimGhost(l *arcList) {
	for l.len() > l.maxSize {
		back, ok := l.back()
		if !ok {
			return
		}
		l.remove(back.hash)
	}
}

// Stats summarizes a Policy's current state, useful for diagnostics.
type Stats struct {
	T1Size, T2Size, B1Size, B2Size int
	CurrentMemory, MaxMemory       int64
	AdaptParam, TargetSize         int
	Evictions, Adaptations         int64
}

// Stats returns a snapshot of the policy's bookkeeping.
func (p *Policy) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		T1Size:        p.t1.len(),
		T2Size:        p.t2.len(),
		B1Size:        p.b1.len(),
		B2Size:        p.b2.len(),
		CurrentMemory: p.curMemory,
		MaxMemory:     p.maxMemory,
		AdaptParam:    p.p,
		TargetSize:    p.target,
		Evictions:     p.evictions,
		Adaptations:   p.adaptations,
	}
}
