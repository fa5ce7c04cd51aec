// Package builder ties Climber, the chunk cache, and the Endpoint together
// into a single-process bulk-insertion driver, a reduced-scope stand-in for
// original_source/entwine's Builder class: no reprojection, no point-source
// parsing, no level-of-detail assignment (those remain external
// collaborators per spec.md §1's non-goals) — the caller supplies each
// point's target depth. Grounded on massifs/massifcommitter.go's
// MassifCommitter: a config+logger+store struct exposing one entry point
// per lifecycle stage (here, Insert and Flush in place of CommitContext).
package builder

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/pierotofy/entwine/chunk"
	"github.com/pierotofy/entwine/climber"
	"github.com/pierotofy/entwine/compression"
	"github.com/pierotofy/entwine/endpoint"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/id"
	"github.com/pierotofy/entwine/manifest"
	"github.com/pierotofy/entwine/pointpool"
	"github.com/pierotofy/entwine/schema"
	"github.com/pierotofy/entwine/structure"
)

// Config is the fixed, build-wide configuration a Builder is constructed
// with; it mirrors the fields a Manifest records so the two stay in sync.
type Config struct {
	Structure structure.Structure
	RootBBox  geom.BBox
	Native    schema.Schema
	Codec     compression.Codec
}

// Builder accumulates points into an in-memory chunk cache and flushes them
// to durable storage. Insert does all chunk lookup and cell creation under
// an internal mutex, so concurrent Insert calls are safe. Flush saves each
// chunk without holding that mutex, so it must not run concurrently with
// Insert.
type Builder struct {
	cfg Config
	ep  *endpoint.Endpoint
	log *zap.Logger

	pool *pointpool.Pool

	mu     sync.Mutex
	chunks map[string]chunk.Chunk
	points uint64
}

// New constructs a Builder over an empty tree.
func New(cfg Config, ep *endpoint.Endpoint, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		cfg:    cfg,
		ep:     ep,
		log:    log,
		pool:   pointpool.New(cfg.Native.PointSize()),
		chunks: make(map[string]chunk.Chunk),
	}
}

// Insert climbs to targetDepth towards p, opening (or reusing) the chunk
// that owns the resulting node, and records the point there. payload is
// the point's native-schema-encoded bytes (§6's native record).
func (b *Builder) Insert(p geom.Point, payload []byte, targetDepth uint32) error {
	c := climber.New(b.cfg.Structure, b.cfg.RootBBox)
	for d := uint32(0); d < targetDepth; d++ {
		if err := c.Magnify(p); err != nil {
			return fmt.Errorf("builder: descending to depth %d: %w", targetDepth, err)
		}
	}

	handle, err := b.pool.Acquire(payload, p)
	if err != nil {
		return fmt.Errorf("builder: acquiring pool slot: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	target := b.chunkForLocked(c)
	cell, err := target.GetCell(c.Index(), c.Tick())
	if err != nil {
		return fmt.Errorf("builder: resolving cell at index %s: %w", c.Index(), err)
	}
	cell.Point = p
	cell.Handle = handle
	b.points++
	return nil
}

// chunkForLocked returns the cached chunk owning the climber's current
// position, creating it (contiguous or sparse, per the structure's chunk
// class at this depth) if this is the first point routed to it. Caller
// must hold b.mu.
func (b *Builder) chunkForLocked(c *climber.Climber) chunk.Chunk {
	key := c.ChunkID().String()
	if existing, ok := b.chunks[key]; ok {
		return existing
	}

	depth := c.Depth()
	chunkDepthParam := depth
	if depth <= b.cfg.Structure.NominalChunkDepth {
		chunkDepthParam = 0 // base chunk sentinel: spans depths [0, NominalChunkDepth]
	}

	var created chunk.Chunk
	if b.cfg.Structure.ChunkClass(depth) == structure.ClassSparse {
		created = chunk.NewSparse(b.cfg.Native, b.cfg.RootBBox, b.cfg.Structure, b.pool, b.cfg.Codec, chunkDepthParam, c.ChunkID(), c.ChunkPoints())
	} else {
		created = chunk.NewContiguous(b.cfg.Native, b.cfg.RootBBox, b.cfg.Structure, b.pool, b.cfg.Codec, chunkDepthParam, c.ChunkID(), c.ChunkPoints())
	}
	b.chunks[key] = created
	b.log.Debug("opened chunk", zap.String("id", key), zap.Uint32("depth", depth), zap.Stringer("type", created.Type()))
	return created
}

// NumPoints returns the total points inserted so far.
func (b *Builder) NumPoints() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.points
}

// Flush saves every open chunk and the tree manifest, in ascending chunk-id
// order for deterministic write ordering. Failures from independent chunks
// are aggregated with multierr rather than aborting after the first one, so
// a caller can see the full set of chunks that still need a retry.
func (b *Builder) Flush(ctx context.Context) error {
	b.mu.Lock()
	ids := make([]string, 0, len(b.chunks))
	for k := range b.chunks {
		ids = append(ids, k)
	}
	sort.Slice(ids, func(i, j int) bool {
		return b.chunks[ids[i]].ID().Less(b.chunks[ids[j]].ID())
	})
	b.mu.Unlock()

	var err error
	for _, k := range ids {
		b.mu.Lock()
		c := b.chunks[k]
		b.mu.Unlock()
		if saveErr := c.Save(ctx, b.ep, ""); saveErr != nil {
			err = multierr.Append(err, fmt.Errorf("builder: saving chunk %s: %w", k, saveErr))
		}
	}
	if err != nil {
		return err
	}

	m := manifest.New(b.cfg.Structure, b.cfg.RootBBox, b.cfg.Native, b.NumPoints())
	if saveErr := m.Save(ctx, b.ep); saveErr != nil {
		return fmt.Errorf("builder: saving manifest: %w", saveErr)
	}
	return nil
}

// chunkIDs exposes the set of currently open chunk ids, for tests.
func (b *Builder) chunkIDs() []id.Id {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]id.Id, 0, len(b.chunks))
	for _, c := range b.chunks {
		out = append(out, c.ID())
	}
	return out
}
