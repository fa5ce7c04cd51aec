// Package chunk implements the storage unit of the octree: a fixed set of
// node-ids grouped together, either dense (array-backed) or sparse
// (map-backed), grounded on massifs.MassifContext's mutable-builder-over-a-
// fixed-region style and bloom's fixed binary header/trailer convention.
package chunk

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pierotofy/entwine/compression"
	"github.com/pierotofy/entwine/counters"
	"github.com/pierotofy/entwine/endpoint"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/id"
	"github.com/pierotofy/entwine/pointpool"
	"github.com/pierotofy/entwine/schema"
	"github.com/pierotofy/entwine/structure"
	"github.com/pierotofy/entwine/tube"
)

// ErrOutOfRangeId is returned by normalize when raw is not within
// [id, id+maxPoints) — a programmer error per spec.md §7.
var ErrOutOfRangeId = errors.New("chunk: raw id out of range for this chunk")

// Chunk is the shared contract of ContiguousChunk and SparseChunk (spec.md
// §9: "a closed set of two variants sharing one interface").
type Chunk interface {
	// GetCell returns the cell for rawIndex/tick, creating it (and bumping
	// NumPoints/process counters) if it did not already exist.
	GetCell(rawIndex id.Id, tick uint64) (*tube.Cell, error)
	// Save serializes and uploads the chunk. postfix is only meaningful
	// for ContiguousChunk's multi-part root chunk (spec.md §9).
	Save(ctx context.Context, ep *endpoint.Endpoint, postfix string) error

	ID() id.Id
	Depth() uint32
	MaxPoints() uint64
	NumPoints() uint64
	Type() Type

	// Contents enumerates every occupied cell as (normalizedIndex, tick,
	// nativePayload) triples, in the deterministic order spec.md §5
	// requires for serialization — used directly by the round-trip
	// invariant in spec.md §8.
	Contents() []ContentEntry
}

// ContentEntry is one occupied cell, exposed for round-trip testing.
type ContentEntry struct {
	NormalizedIndex uint64
	Tick            uint64
	Point           geom.Point
	Payload         []byte
}

// base holds the fields and behavior common to both chunk variants.
type base struct {
	depth        uint32 // 0 marks the multi-depth base/root chunk
	id           id.Id
	maxPoints    uint64
	numPoints    int64  // inserted-only; loaded points are tracked separately
	loadedPoints uint64 // populated once, by Load, from the blob's tail

	rootBBox  geom.BBox
	nativeSch schema.Schema
	celledSch schema.Schema
	structure structure.Structure
	pool      *pointpool.Pool
	codec     compression.Codec
}

func newBase(
	nativeSch schema.Schema,
	rootBBox geom.BBox,
	st structure.Structure,
	pool *pointpool.Pool,
	codec compression.Codec,
	depth uint32,
	chunkID id.Id,
	maxPoints uint64,
) base {
	counters.AddChunk()
	return base{
		depth:     depth,
		id:        chunkID,
		maxPoints: maxPoints,
		rootBBox:  rootBBox,
		nativeSch: nativeSch,
		celledSch: schema.Celled(nativeSch),
		structure: st,
		pool:      pool,
		codec:     codec,
	}
}

func (b *base) ID() id.Id           { return b.id }
func (b *base) Depth() uint32       { return b.depth }
func (b *base) MaxPoints() uint64   { return b.maxPoints }
func (b *base) NumPoints() uint64   { return uint64(atomic.LoadInt64(&b.numPoints)) }

// LoadedPoints returns the point count recovered from a Load call's blob
// tail, tracked separately from NumPoints per spec.md §3's invariant that
// "numPoints tracks only freshly inserted points, not those loaded from a
// serialized blob."
func (b *base) LoadedPoints() uint64 { return b.loadedPoints }

// normalize implements spec.md §4.2's normalize(raw_id) = (raw_id -
// id).simple(), requiring id <= raw_id < id + maxPoints.
func (b *base) normalize(raw id.Id) (uint64, error) {
	delta, ok := raw.Sub(b.id)
	if !ok {
		return 0, ErrOutOfRangeId
	}
	simple, err := delta.Simple()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRangeId, err)
	}
	if simple >= b.maxPoints {
		return 0, ErrOutOfRangeId
	}
	return simple, nil
}

// effectiveDepth implements spec.md §4.2's "effective depth for tick
// computation on load": the chunk's own Depth if nonzero, else the
// per-point depth computed from the structure (base chunk case).
func (b *base) effectiveDepth(normalizedIndex uint64) (uint32, error) {
	if b.depth != 0 {
		return b.depth, nil
	}
	raw, err := b.id.AddUint64(normalizedIndex).Simple()
	if err != nil {
		return 0, err
	}
	return b.structure.CalcDepth(raw), nil
}

// bumpInserted records a freshly created cell: local NumPoints and the
// process-wide memory counter (spec.md §4.2's getCell contract).
func (b *base) bumpInserted() {
	atomic.AddInt64(&b.numPoints, 1)
	counters.AddPoint(int64(b.nativeSch.PointSize()))
}

// encodeRecord writes one celled-schema record (TubeId prefix + native
// payload) for the given normalized index and native point bytes.
func (b *base) encodeRecord(normalizedIndex uint64, nativePayload []byte) []byte {
	rec := make([]byte, b.celledSch.PointSize())
	binary.LittleEndian.PutUint64(rec[0:8], normalizedIndex)
	copy(rec[8:], nativePayload)
	return rec
}

// path returns the endpoint path for this chunk. Sparse chunks use the
// chunk id verbatim; contiguous chunks append the caller-supplied postfix
// (spec.md §6/§9).
func path(chunkID id.Id, postfix string) string {
	return chunkID.String() + postfix
}
