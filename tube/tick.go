package tube

import (
	"math"

	"github.com/pierotofy/entwine/geom"
)

// CalcTick deterministically maps p's Z coordinate to a bin in
// [0, 2^levels) within bbox's Z extent. levels is the number of tree
// levels the tube's owning chunk has descended since its own base depth
// (spec.md §3); for a chunk whose Depth field is nonzero, levels is that
// depth; for the multi-depth base chunk, levels is the depth of the
// individual node being addressed (structure.CalcDepth).
//
// bbox is always the tree's root bbox: in the common 2D-structure case
// (Dimensions==2) descent never narrows Z, so ticks are what actually
// discriminate elevation within a quadtree cell.
func CalcTick(p geom.Point, bbox geom.BBox, levels uint32) uint64 {
	if levels == 0 {
		return 0
	}
	span := bbox.Max.Z - bbox.Min.Z
	if span <= 0 {
		return 0
	}
	frac := (p.Z - bbox.Min.Z) / span
	if frac < 0 {
		frac = 0
	}
	if frac >= 1 {
		frac = math.Nextafter(1, 0)
	}
	bins := uint64(1) << levels
	tick := uint64(frac * float64(bins))
	if tick >= bins {
		tick = bins - 1
	}
	return tick
}
