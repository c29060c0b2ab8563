// Package pool provides a generational arena: values live in indexed slots
// and are addressed by copyable handles that carry the slot index and a
// generation stamp. Freeing a slot advances its generation, so handles to a
// freed or reused slot are detected as stale instead of silently aliasing
// the new occupant.
package pool

import (
	"errors"
	"fmt"
	"iter"
)

// ErrOverlappingHandles is returned by BorrowThree when two of the requested
// handles address the same slot.
var ErrOverlappingHandles = errors.New("pool: handles overlap")

// Handle is a non-owning reference to a slot in a Pool. The zero value is
// the "none" handle and never matches a live slot.
type Handle[T any] struct {
	index      uint32
	generation uint32
}

// None returns the none handle.
func None[T any]() Handle[T] {
	return Handle[T]{}
}

// NewHandle builds a handle from raw parts. Mostly useful in tests.
func NewHandle[T any](index, generation uint32) Handle[T] {
	return Handle[T]{index: index, generation: generation}
}

// IsNone reports whether h is the none handle.
func (h Handle[T]) IsNone() bool { return h.generation == 0 }

// IsSome reports whether h is not the none handle.
func (h Handle[T]) IsSome() bool { return h.generation != 0 }

// Index returns the slot index.
func (h Handle[T]) Index() uint32 { return h.index }

// Generation returns the generation stamp.
func (h Handle[T]) Generation() uint32 { return h.generation }

func (h Handle[T]) String() string {
	if h.IsNone() {
		return "Handle(none)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.generation)
}

// Ticket proves temporary custody of a slot vacated by TakeReserve. Redeem
// it exactly once with PutBack or ForgetTicket.
type Ticket[T any] struct {
	index      uint32
	generation uint32
	serial     uint32
}

// Index returns the reserved slot index.
func (t Ticket[T]) Index() uint32 { return t.index }

type slot[T any] struct {
	value      *T
	generation uint32
	reserved   bool
	// serial counts reservations of this slot so a redeemed ticket cannot
	// match a later reservation with the same generation.
	serial uint32
}

// bump advances the generation, skipping zero which is reserved for none.
func (s *slot[T]) bump() {
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
}

// Pool is a generational arena. It is not safe for concurrent use.
type Pool[T any] struct {
	slots    []slot[T]
	freeList []uint32
	alive    int
}

// New creates an empty pool.
func New[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Spawn stores v in a vacant slot (reusing freed slots first) and returns
// its handle. Slots held by an outstanding ticket are never reused.
func (p *Pool[T]) Spawn(v T) Handle[T] {
	boxed := new(T)
	*boxed = v
	p.alive++
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		s := &p.slots[idx]
		s.value = boxed
		return Handle[T]{index: idx, generation: s.generation}
	}
	idx := uint32(len(p.slots))
	p.slots = append(p.slots, slot[T]{value: boxed, generation: 1})
	return Handle[T]{index: idx, generation: 1}
}

// lookup returns the occupied slot h refers to, or nil.
func (p *Pool[T]) lookup(h Handle[T]) *slot[T] {
	if h.IsNone() || int(h.index) >= len(p.slots) {
		return nil
	}
	s := &p.slots[h.index]
	if s.value == nil || s.generation != h.generation {
		return nil
	}
	return s
}

func (p *Pool[T]) mustLookup(h Handle[T]) *slot[T] {
	s := p.lookup(h)
	if s == nil {
		panic(p.invalidHandleMessage(h))
	}
	return s
}

func (p *Pool[T]) invalidHandleMessage(h Handle[T]) string {
	switch {
	case h.IsNone():
		return "pool: attempt to use none handle"
	case int(h.index) >= len(p.slots):
		return fmt.Sprintf("pool: %v is out of bounds (capacity %d)", h, len(p.slots))
	case p.slots[h.index].reserved:
		return fmt.Sprintf("pool: %v refers to a slot reserved by a ticket", h)
	case p.slots[h.index].value == nil:
		return fmt.Sprintf("pool: %v refers to a vacant slot", h)
	default:
		return fmt.Sprintf("pool: %v is stale (slot generation %d)", h, p.slots[h.index].generation)
	}
}

// Free removes the value at h and returns it. The slot's generation
// advances, invalidating h and every copy of it. Panics if h is invalid.
func (p *Pool[T]) Free(h Handle[T]) T {
	s := p.mustLookup(h)
	v := *s.value
	s.value = nil
	s.bump()
	p.freeList = append(p.freeList, h.index)
	p.alive--
	return v
}

// Borrow returns a pointer to the value at h. Panics if h is invalid.
func (p *Pool[T]) Borrow(h Handle[T]) *T {
	return p.mustLookup(h).value
}

// TryBorrow returns the value at h, or false if h is none, stale, out of
// bounds, or its slot is vacant.
func (p *Pool[T]) TryBorrow(h Handle[T]) (*T, bool) {
	s := p.lookup(h)
	if s == nil {
		return nil, false
	}
	return s.value, true
}

// IsValidHandle reports whether h refers to a live value.
func (p *Pool[T]) IsValidHandle(h Handle[T]) bool {
	return p.lookup(h) != nil
}

// IsReserved reports whether h's slot is held by an outstanding ticket
// issued for h.
func (p *Pool[T]) IsReserved(h Handle[T]) bool {
	if h.IsNone() || int(h.index) >= len(p.slots) {
		return false
	}
	s := &p.slots[h.index]
	return s.reserved && s.generation == h.generation
}

// BorrowTwo returns pointers to two distinct values. Panics if the handles
// address the same slot or either handle is invalid.
func (p *Pool[T]) BorrowTwo(a, b Handle[T]) (*T, *T) {
	if a.index == b.index {
		panic(fmt.Sprintf("pool: BorrowTwo with overlapping handles %v and %v", a, b))
	}
	return p.Borrow(a), p.Borrow(b)
}

// BorrowThree returns pointers to three distinct values, or
// ErrOverlappingHandles if any two handles address the same slot. Invalid
// handles still panic.
func (p *Pool[T]) BorrowThree(a, b, c Handle[T]) (*T, *T, *T, error) {
	if a.index == b.index || a.index == c.index || b.index == c.index {
		return nil, nil, nil, fmt.Errorf("%w: %v, %v, %v", ErrOverlappingHandles, a, b, c)
	}
	return p.Borrow(a), p.Borrow(b), p.Borrow(c), nil
}

// BorrowFour returns pointers to four distinct values. Panics if any two
// handles address the same slot or any handle is invalid.
func (p *Pool[T]) BorrowFour(a, b, c, d Handle[T]) (*T, *T, *T, *T) {
	hs := [4]Handle[T]{a, b, c, d}
	for i := 0; i < len(hs); i++ {
		for j := i + 1; j < len(hs); j++ {
			if hs[i].index == hs[j].index {
				panic(fmt.Sprintf("pool: BorrowFour with overlapping handles %v and %v", hs[i], hs[j]))
			}
		}
	}
	return p.Borrow(a), p.Borrow(b), p.Borrow(c), p.Borrow(d)
}

// TakeReserve moves the value at h out of the pool and reserves its slot.
// The slot is not reused until the ticket is redeemed. Panics if h is
// invalid.
func (p *Pool[T]) TakeReserve(h Handle[T]) (Ticket[T], T) {
	s := p.mustLookup(h)
	v := *s.value
	s.value = nil
	s.reserved = true
	s.serial++
	p.alive--
	return Ticket[T]{index: h.index, generation: s.generation, serial: s.serial}, v
}

// reservedSlot returns the slot t reserves. Panics if t was already
// redeemed, including when the slot has since been reserved again.
func (p *Pool[T]) reservedSlot(t Ticket[T], op string) *slot[T] {
	if int(t.index) >= len(p.slots) {
		panic(fmt.Sprintf("pool: %s with a ticket for slot %d that is out of bounds", op, t.index))
	}
	s := &p.slots[t.index]
	if !s.reserved || s.generation != t.generation || s.serial != t.serial {
		panic(fmt.Sprintf("pool: %s with a ticket for slot %d that is not reserved", op, t.index))
	}
	return s
}

// PutBack stores v in the slot reserved by t and returns a handle equal to
// the one passed to TakeReserve.
func (p *Pool[T]) PutBack(t Ticket[T], v T) Handle[T] {
	s := p.reservedSlot(t, "PutBack")
	boxed := new(T)
	*boxed = v
	s.value = boxed
	s.reserved = false
	p.alive++
	return Handle[T]{index: t.index, generation: s.generation}
}

// ForgetTicket releases the slot reserved by t without reinsertion. The
// slot's generation advances so lingering handles become stale.
func (p *Pool[T]) ForgetTicket(t Ticket[T]) {
	s := p.reservedSlot(t, "ForgetTicket")
	s.reserved = false
	s.bump()
	p.freeList = append(p.freeList, t.index)
}

// HandleFromIndex returns the handle of the live value at index i, or the
// none handle if i is out of bounds or the slot is vacant.
func (p *Pool[T]) HandleFromIndex(i int) Handle[T] {
	if i < 0 || i >= len(p.slots) {
		return Handle[T]{}
	}
	s := &p.slots[i]
	if s.value == nil {
		return Handle[T]{}
	}
	return Handle[T]{index: uint32(i), generation: s.generation}
}

// Capacity returns the number of slots, occupied or not.
func (p *Pool[T]) Capacity() int {
	return len(p.slots)
}

// Len returns the number of live values.
func (p *Pool[T]) Len() int {
	return p.alive
}

// All iterates live (handle, value) pairs in slot order.
func (p *Pool[T]) All() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		for i := range p.slots {
			s := &p.slots[i]
			if s.value == nil {
				continue
			}
			if !yield(Handle[T]{index: uint32(i), generation: s.generation}, s.value) {
				return
			}
		}
	}
}

// Values iterates live values in slot order.
func (p *Pool[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := range p.slots {
			if v := p.slots[i].value; v != nil {
				if !yield(v) {
					return
				}
			}
		}
	}
}
