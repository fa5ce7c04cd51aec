package chunk

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pierotofy/entwine/compression"
	"github.com/pierotofy/entwine/endpoint"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/id"
	"github.com/pierotofy/entwine/pointpool"
	"github.com/pierotofy/entwine/schema"
	"github.com/pierotofy/entwine/structure"
	"github.com/pierotofy/entwine/tube"
)

// SparseChunk is a map-backed chunk used at depths where population is low
// enough that a full maxPoints-length tube array would waste memory
// (spec.md §4.4). A mutex guards the map only long enough to obtain the
// Tube reference; tube-internal synchronization (there is none currently
// needed) is the Tube's own concern.
type SparseChunk struct {
	base
	mu    sync.Mutex
	tubes map[uint64]*tube.Tube
}

// NewSparse creates an empty SparseChunk.
func NewSparse(
	nativeSch schema.Schema,
	rootBBox geom.BBox,
	st structure.Structure,
	pool *pointpool.Pool,
	codec compression.Codec,
	depth uint32,
	chunkID id.Id,
	maxPoints uint64,
) *SparseChunk {
	return &SparseChunk{
		base:  newBase(nativeSch, rootBBox, st, pool, codec, depth, chunkID, maxPoints),
		tubes: make(map[uint64]*tube.Tube),
	}
}

// Type implements Chunk.
func (c *SparseChunk) Type() Type { return Sparse }

// GetCell implements Chunk. The mutex is held only long enough to
// obtain-or-create the Tube (spec.md §4.4).
func (c *SparseChunk) GetCell(rawIndex id.Id, tick uint64) (*tube.Cell, error) {
	idx, err := c.normalize(rawIndex)
	if err != nil {
		return nil, err
	}
	t := c.tubeFor(idx)
	created, cell := t.GetCell(tick)
	if created {
		c.bumpInserted()
	}
	return cell, nil
}

func (c *SparseChunk) tubeFor(idx uint64) *tube.Tube {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tubes[idx]
	if !ok {
		t = tube.New()
		c.tubes[idx] = t
	}
	return t
}

func (c *SparseChunk) sortedIndices() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint64, 0, len(c.tubes))
	for idx := range c.tubes {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Contents implements Chunk, iterating the map in ascending normalized
// index order (spec.md §5's determinism requirement).
func (c *SparseChunk) Contents() []ContentEntry {
	var out []ContentEntry
	for _, idx := range c.sortedIndices() {
		t := c.tubes[idx]
		for _, tick := range t.Ticks() {
			cell := t.Cell(tick)
			if cell == nil || cell.Empty() {
				continue
			}
			out = append(out, ContentEntry{
				NormalizedIndex: idx,
				Tick:            tick,
				Point:           cell.Point,
				Payload:         c.pool.Payload(cell.Handle),
			})
		}
	}
	return out
}

// Save implements Chunk. Sparse chunks always use the bare chunk id as
// their path (spec.md §4.2); postfix is ignored.
func (c *SparseChunk) Save(ctx context.Context, ep *endpoint.Endpoint, _ string) error {
	var payload []byte
	var numPoints uint64
	for _, idx := range c.sortedIndices() {
		t := c.tubes[idx]
		for _, tick := range t.Ticks() {
			cell := t.Cell(tick)
			if cell == nil || cell.Empty() {
				continue
			}
			payload = append(payload, c.encodeRecord(idx, c.pool.Payload(cell.Handle))...)
			numPoints++
		}
	}
	compressed, err := c.codec.Compress(payload, c.celledSch)
	if err != nil {
		return fmt.Errorf("chunk: compressing sparse chunk %s: %w", c.id, err)
	}
	blob := pushTail(compressed, numPoints, Sparse)
	return ep.Put(ctx, path(c.id, ""), blob)
}

// LoadSparse reconstructs a SparseChunk from a previously-saved blob.
func LoadSparse(
	nativeSch schema.Schema,
	rootBBox geom.BBox,
	st structure.Structure,
	pool *pointpool.Pool,
	codec compression.Codec,
	depth uint32,
	chunkID id.Id,
	maxPoints uint64,
	blob []byte,
) (*SparseChunk, error) {
	c := NewSparse(nativeSch, rootBBox, st, pool, codec, depth, chunkID, maxPoints)
	if err := loadIntoBase(&c.base, blob, Sparse, func(idx uint64) (*tube.Tube, error) {
		if idx >= maxPoints {
			return nil, ErrOutOfRangeId
		}
		return c.tubeFor(idx), nil
	}); err != nil {
		return nil, err
	}
	return c, nil
}
