package chunk

import (
	"context"
	"fmt"

	"github.com/pierotofy/entwine/compression"
	"github.com/pierotofy/entwine/endpoint"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/id"
	"github.com/pierotofy/entwine/pointpool"
	"github.com/pierotofy/entwine/schema"
	"github.com/pierotofy/entwine/structure"
	"github.com/pierotofy/entwine/tube"
)

// ContiguousChunk is a dense, array-backed chunk: O(1) lookup by
// normalized index, no internal locking. Correct only when the enclosing
// insertion protocol guarantees disjoint node access per chunk (spec.md
// §4.3, §5).
type ContiguousChunk struct {
	base
	tubes []*tube.Tube
}

// NewContiguous creates an empty ContiguousChunk (spec.md §4.2's
// create(contiguous) factory).
func NewContiguous(
	nativeSch schema.Schema,
	rootBBox geom.BBox,
	st structure.Structure,
	pool *pointpool.Pool,
	codec compression.Codec,
	depth uint32,
	chunkID id.Id,
	maxPoints uint64,
) *ContiguousChunk {
	c := &ContiguousChunk{
		base:  newBase(nativeSch, rootBBox, st, pool, codec, depth, chunkID, maxPoints),
		tubes: make([]*tube.Tube, maxPoints),
	}
	return c
}

// Type implements Chunk.
func (c *ContiguousChunk) Type() Type { return Contiguous }

// GetCell implements Chunk. No locking: the contiguous variant's contract
// is that callers assign disjoint node ranges to concurrent workers
// (spec.md §4.3).
func (c *ContiguousChunk) GetCell(rawIndex id.Id, tick uint64) (*tube.Cell, error) {
	idx, err := c.normalize(rawIndex)
	if err != nil {
		return nil, err
	}
	t := c.tubes[idx]
	if t == nil {
		t = tube.New()
		c.tubes[idx] = t
	}
	created, cell := t.GetCell(tick)
	if created {
		c.bumpInserted()
	}
	return cell, nil
}

// Contents implements Chunk, iterating indices 0..maxPoints-1 ascending
// (spec.md §4.3's serialization order).
func (c *ContiguousChunk) Contents() []ContentEntry {
	var out []ContentEntry
	for idx, t := range c.tubes {
		if t == nil {
			continue
		}
		for _, tick := range t.Ticks() {
			cell := t.Cell(tick)
			if cell == nil || cell.Empty() {
				continue
			}
			out = append(out, ContentEntry{
				NormalizedIndex: uint64(idx),
				Tick:            tick,
				Point:           cell.Point,
				Payload:         c.pool.Payload(cell.Handle),
			})
		}
	}
	return out
}

// Save implements Chunk: serialize, compress, append tail, upload under
// id+postfix (spec.md §4.2, §9).
func (c *ContiguousChunk) Save(ctx context.Context, ep *endpoint.Endpoint, postfix string) error {
	var payload []byte
	var numPoints uint64
	for idx, t := range c.tubes {
		if t == nil {
			continue
		}
		for _, tick := range t.Ticks() {
			cell := t.Cell(tick)
			if cell == nil || cell.Empty() {
				continue
			}
			payload = append(payload, c.encodeRecord(uint64(idx), c.pool.Payload(cell.Handle))...)
			numPoints++
		}
	}
	compressed, err := c.codec.Compress(payload, c.celledSch)
	if err != nil {
		return fmt.Errorf("chunk: compressing contiguous chunk %s: %w", c.id, err)
	}
	blob := pushTail(compressed, numPoints, Contiguous)
	return ep.Put(ctx, path(c.id, postfix), blob)
}

// LoadContiguous reconstructs a ContiguousChunk from a previously-saved
// blob (spec.md §4.2's create(..., bytes) factory).
func LoadContiguous(
	nativeSch schema.Schema,
	rootBBox geom.BBox,
	st structure.Structure,
	pool *pointpool.Pool,
	codec compression.Codec,
	depth uint32,
	chunkID id.Id,
	maxPoints uint64,
	blob []byte,
) (*ContiguousChunk, error) {
	c := NewContiguous(nativeSch, rootBBox, st, pool, codec, depth, chunkID, maxPoints)
	if err := loadIntoBase(&c.base, blob, Contiguous, func(idx uint64) (*tube.Tube, error) {
		if idx >= maxPoints {
			return nil, ErrOutOfRangeId
		}
		t := c.tubes[idx]
		if t == nil {
			t = tube.New()
			c.tubes[idx] = t
		}
		return t, nil
	}); err != nil {
		return nil, err
	}
	return c, nil
}
