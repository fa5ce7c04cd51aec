// Package pointpool implements a free-list-backed arena of fixed-size
// slots, grounded on urkle.Builder's preallocated in-place byte regions
// (urkle/builder.go): a big []byte is carved into fixed-width records, and
// a builder writes into a slot by index rather than allocating one, so bulk
// construction does not pressure the Go heap or GC per point.
package pointpool

import (
	"errors"
	"sync"

	"github.com/pierotofy/entwine/geom"
)

// ErrSizeMismatch is returned when Acquire is called with a payload whose
// size does not match the pool's configured slot size.
var ErrSizeMismatch = errors.New("pointpool: payload size does not match pool slot size")

// Handle identifies a slot in a Pool. The zero Handle is never issued by
// Acquire and marks an empty Cell.
type Handle struct {
	block uint32
	slot  uint32
	valid bool
}

// Valid reports whether h refers to a real slot.
func (h Handle) Valid() bool { return h.valid }

const blockSlots = 4096

type block struct {
	data      []byte // blockSlots * slotSize
	points    []geom.Point
	freeSlots []uint32
}

// Pool is a thread-safe arena of fixed-size byte slots. New blocks are
// allocated lazily as the free list is exhausted; released slots are
// returned to their owning block's free list for reuse.
type Pool struct {
	mu       sync.Mutex
	slotSize int
	blocks   []*block
}

// New returns a Pool whose slots each hold slotSize bytes, the size of one
// native point payload for the configured schema.
func New(slotSize int) *Pool {
	return &Pool{slotSize: slotSize}
}

// SlotSize returns the configured per-point payload size.
func (p *Pool) SlotSize() int { return p.slotSize }

// Acquire copies src (which must be exactly SlotSize() bytes) into a free
// slot and returns a handle to it.
func (p *Pool) Acquire(src []byte, point geom.Point) (Handle, error) {
	if len(src) != p.slotSize {
		return Handle{}, ErrSizeMismatch
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	blockIdx, slotIdx := p.findFreeSlotLocked()
	b := p.blocks[blockIdx]
	off := int(slotIdx) * p.slotSize
	copy(b.data[off:off+p.slotSize], src)
	b.points[slotIdx] = point

	return Handle{block: uint32(blockIdx), slot: slotIdx, valid: true}, nil
}

// findFreeSlotLocked returns a (block, slot) pair with capacity, allocating
// a new block if every existing block is full. Caller must hold p.mu.
func (p *Pool) findFreeSlotLocked() (int, uint32) {
	for i, b := range p.blocks {
		if n := len(b.freeSlots); n > 0 {
			slot := b.freeSlots[n-1]
			b.freeSlots = b.freeSlots[:n-1]
			return i, slot
		}
	}
	nb := &block{
		data:   make([]byte, blockSlots*p.slotSize),
		points: make([]geom.Point, blockSlots),
	}
	nb.freeSlots = make([]uint32, 0, blockSlots-1)
	for s := blockSlots - 1; s >= 1; s-- {
		nb.freeSlots = append(nb.freeSlots, uint32(s))
	}
	p.blocks = append(p.blocks, nb)
	return len(p.blocks) - 1, 0
}

// Payload returns the raw bytes stored at h, without copying.
func (p *Pool) Payload(h Handle) []byte {
	if !h.valid {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.blocks[h.block]
	off := int(h.slot) * p.slotSize
	return b.data[off : off+p.slotSize]
}

// Point returns the Point tagged onto the slot at Acquire time.
func (p *Pool) Point(h Handle) geom.Point {
	if !h.valid {
		return geom.NonPoint()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocks[h.block].points[h.slot]
}

// Release returns a batch of handles to their owning blocks' free lists.
func (p *Pool) Release(handles []Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range handles {
		if !h.valid {
			continue
		}
		b := p.blocks[h.block]
		b.freeSlots = append(b.freeSlots, h.slot)
	}
}
