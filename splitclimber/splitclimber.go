// Package splitclimber implements the range-query traversal: a depth-first
// preorder walk of the octree that visits only nodes whose bbox overlaps a
// query region, within a half-open depth window [depthBegin, depthEnd)
// (spec.md §4.5). It is grounded on the same stack-and-cursor shape as
// mmr's peak-stack traversal (mmr/peaks.go, mmr/spurs.go): a small struct
// mutated in place by a single stepping method, backed by an explicit stack
// rather than recursion.
package splitclimber

import (
	"fmt"

	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/id"
	"github.com/pierotofy/entwine/structure"
)

// SplitClimber walks the tree in preorder, pruning subtrees whose bbox does
// not overlap the query region.
type SplitClimber struct {
	st       structure.Structure
	rootBBox geom.BBox
	query    geom.BBox

	depthBegin uint32
	depthEnd   uint32

	depth      uint32
	traversal  []uint64 // per-level 0-based octant, one entry per depth below root
	index      id.Id
	splits     uint64
	xPos, yPos, zPos uint64
}

// New constructs a SplitClimber that will enumerate nodes at depths in
// [depthBegin, depthEnd) whose bbox overlaps query, rooted at rootBBox.
func New(st structure.Structure, rootBBox, query geom.BBox, depthBegin, depthEnd uint32) *SplitClimber {
	return &SplitClimber{
		st:         st,
		rootBBox:   rootBBox,
		query:      query,
		depthBegin: depthBegin,
		depthEnd:   depthEnd,
		index:      id.Zero(),
		splits:     1,
	}
}

// Index returns the current node's id.
func (c *SplitClimber) Index() id.Id { return c.index }

// Depth returns the current node's depth.
func (c *SplitClimber) Depth() uint32 { return c.depth }

// BBox returns the current node's bbox.
func (c *SplitClimber) BBox() geom.BBox { return c.currentBBox() }

// Next advances the traversal by one visited node, in preorder, skipping
// subtrees pruned by the query region. terminate forces the current
// subtree to be abandoned instead of descended into (used both by the
// caller, to signal a depth-window leaf, and internally, to skip a
// non-overlapping subtree). It returns false once the traversal is
// exhausted.
func (c *SplitClimber) Next(terminate bool) (bool, error) {
	for {
		if terminate || c.depth+1 == c.depthEnd {
			if err := c.backtrack(); err != nil {
				return false, err
			}
		} else {
			c.descend()
		}

		if c.depth == 0 {
			return false, nil
		}
		if c.depth < c.depthBegin {
			terminate = false
			continue
		}
		if c.currentBBox().Overlaps(c.query) {
			return true, nil
		}
		terminate = true
	}
}

// descend pushes a fresh octant-0 frame and doubles all per-axis state,
// per spec.md §4.5's descend rule.
func (c *SplitClimber) descend() {
	c.traversal = append(c.traversal, 0)
	c.splits *= 2
	c.index = c.index.Lsh(uint(c.st.Dimensions)).AddUint64(1)
	c.xPos *= 2
	c.yPos *= 2
	c.zPos *= 2
	c.depth++
}

// backtrack pops exhausted frames and advances to the next sibling of the
// first frame that has one left, per spec.md §4.5's backtrack rule.
func (c *SplitClimber) backtrack() error {
	for len(c.traversal) > 0 {
		top := c.traversal[len(c.traversal)-1]
		if top+1 != c.st.Factor {
			break
		}
		c.traversal = c.traversal[:len(c.traversal)-1]
		c.splits /= 2
		newIndex, ok := c.index.Rsh(uint(c.st.Dimensions)).Sub(id.FromUint64(1))
		if !ok {
			return fmt.Errorf("splitclimber: index underflow while backtracking")
		}
		c.index = newIndex
		c.xPos /= 2
		c.yPos /= 2
		c.zPos /= 2
		c.depth--
	}
	if len(c.traversal) == 0 {
		c.depth = 0
		return nil
	}

	oldDir := c.traversal[len(c.traversal)-1]
	c.applyOctantDelta(oldDir + 1)
	c.traversal[len(c.traversal)-1] = oldDir + 1
	c.index = c.index.AddUint64(1)
	return nil
}

// applyOctantDelta moves (xPos, yPos, zPos) from the octant being left
// (identified by its 1-based code, matching geom's +1 node-addressing
// convention) to the next octant, per spec.md §4.5's octant-delta table:
// odd codes step +x; codes 2 and 6 flip x back and step +y; code 4 flips
// x and y and steps +z.
func (c *SplitClimber) applyOctantDelta(code uint64) {
	switch {
	case code%2 == 1:
		c.xPos++
	case code == 2 || code == 6:
		c.xPos--
		c.yPos++
	case code == 4:
		c.xPos--
		c.yPos--
		c.zPos++
	}
}

// currentBBox computes the bbox of the current node by subdividing
// rootBBox into a splits-per-axis grid and selecting the (xPos, yPos, zPos)
// cell. In 2D structures the Z range is never narrowed (positions never
// move on the Z axis), so the full root Z range is carried through.
func (c *SplitClimber) currentBBox() geom.BBox {
	min := c.rootBBox.Min
	max := c.rootBBox.Max

	xw := (max.X - min.X) / float64(c.splits)
	yw := (max.Y - min.Y) / float64(c.splits)

	lo := geom.Point{
		X: min.X + float64(c.xPos)*xw,
		Y: min.Y + float64(c.yPos)*yw,
		Z: min.Z,
	}
	hi := geom.Point{
		X: lo.X + xw,
		Y: lo.Y + yw,
		Z: max.Z,
	}

	if c.st.Is3D() {
		zw := (max.Z - min.Z) / float64(c.splits)
		lo.Z = min.Z + float64(c.zPos)*zw
		hi.Z = lo.Z + zw
	}

	return geom.NewBBox(lo, hi)
}
