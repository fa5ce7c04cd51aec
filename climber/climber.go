// Package climber implements the stateful cursor that maps a 3D point to a
// sequence of (node index, chunk id, depth, tick) tuples by octant descent,
// grounded on the state-machine style of massifs.MassifContext's
// StartNextMassif/NextPeakStack (a struct mutated in place by small stepping
// methods with sentinel errors on failure).
package climber

import (
	"errors"

	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/id"
	"github.com/pierotofy/entwine/structure"
	"github.com/pierotofy/entwine/tube"
)

// ErrOutOfBounds is returned by Magnify when the point is not inside the
// climber's current bbox.
var ErrOutOfBounds = errors.New("climber: point is out of bounds")

// ErrChunkRatioOverflow guards the internal precondition that a chunk
// ratio must always be < factor; a violation indicates the id-range math
// has diverged from the structure's geometry.
var ErrChunkRatioOverflow = errors.New("climber: chunk ratio computation overflowed factor")

// Climber descends an octree, node by node, tracking the chunk id and
// capacity that owns the current node.
type Climber struct {
	st structure.Structure

	index      id.Id
	levelIndex id.Id
	chunkID    id.Id
	chunkNum   uint64
	depth      uint32

	chunkPoints uint64
	depthChunks uint64

	bbox      geom.BBox // current node's bbox, narrows on each Magnify
	rootBBox  geom.BBox // fixed; used for tick computation (spec.md §3)
	lastPoint geom.Point
}

// New constructs a Climber positioned at the root.
func New(st structure.Structure, rootBBox geom.BBox) *Climber {
	return &Climber{
		st:          st,
		index:       id.Zero(),
		levelIndex:  id.Zero(),
		chunkID:     id.Zero(),
		chunkNum:    0,
		depth:       0,
		chunkPoints: st.BaseChunkPoints,
		depthChunks: 1,
		bbox:        rootBBox,
		rootBBox:    rootBBox,
	}
}

// Index returns the current node's id.
func (c *Climber) Index() id.Id { return c.index }

// ChunkID returns the id of the chunk owning the current node.
func (c *Climber) ChunkID() id.Id { return c.chunkID }

// ChunkNum returns the ordinal of the current chunk among cold-storage chunks.
func (c *Climber) ChunkNum() uint64 { return c.chunkNum }

// Depth returns the current tree depth (0 at root).
func (c *Climber) Depth() uint32 { return c.depth }

// ChunkPoints returns the current chunk's node-id capacity.
func (c *Climber) ChunkPoints() uint64 { return c.chunkPoints }

// BBox returns the current node's bbox.
func (c *Climber) BBox() geom.BBox { return c.bbox }

// Tick returns the tick of the last point passed to Magnify, at the
// climber's current depth.
func (c *Climber) Tick() uint64 {
	return tube.CalcTick(c.lastPoint, c.rootBBox, c.depth)
}

// Magnify descends one level towards p, updating all cursor state. It fails
// with ErrOutOfBounds if p does not lie within the climber's current bbox.
func (c *Climber) Magnify(p geom.Point) error {
	if !c.bbox.Contains(p) {
		return ErrOutOfBounds
	}
	c.lastPoint = p
	octant := geom.OctantOf(p, c.bbox.Mid(), c.st.Is3D())
	c.bbox = c.bbox.Sub(octant, c.st.Is3D())
	return c.climb(octant)
}

// climb applies one octant descent, updating index/levelIndex/chunkID per
// spec.md §4.1's index and chunk-id update rules.
func (c *Climber) climb(dir geom.Octant) error {
	c.depth++
	c.index = c.index.Lsh(uint(c.st.Dimensions)).AddUint64(1 + uint64(dir))
	c.levelIndex = c.levelIndex.Lsh(uint(c.st.Dimensions)).AddUint64(1)

	if c.depth <= c.st.NominalChunkDepth {
		// Still within the base/root chunk's multi-depth span; chunkID
		// stays at its initial value (zero) and chunkPoints is the base
		// chunk's fixed capacity.
		return nil
	}

	sparse := c.st.SparseEnabled() && c.depth >= c.st.SparseDepthBegin
	if !sparse {
		delta, ok := c.index.Sub(c.chunkID)
		if !ok {
			return ErrChunkRatioOverflow
		}
		deltaSimple, err := delta.Simple()
		if err != nil {
			return err
		}
		step := c.chunkPoints / c.st.Factor
		if step == 0 {
			return ErrChunkRatioOverflow
		}
		chunkRatio := deltaSimple / step
		if chunkRatio >= c.st.Factor {
			return ErrChunkRatioOverflow
		}
		c.chunkID = c.chunkID.Lsh(uint(c.st.Dimensions)).AddUint64(1 + chunkRatio*c.chunkPoints)
		if c.depth >= c.st.ColdDepthBegin {
			offset, ok := c.chunkID.Sub(id.FromUint64(c.st.ColdIndexBegin))
			if !ok {
				return ErrChunkRatioOverflow
			}
			c.chunkNum = offset.DivUint64(c.chunkPoints).MustSimple()
		}
		c.depthChunks *= c.st.Factor
		return nil
	}

	c.chunkNum += c.depthChunks
	c.chunkID = c.chunkID.Lsh(uint(c.st.Dimensions)).AddUint64(1)
	c.chunkPoints *= c.st.Factor
	return nil
}
