package geom

// BBox is an axis-aligned box, with the midpoint cached at construction so
// climbing/subdivision does not recompute it on every descent.
type BBox struct {
	Min, Max Point
	mid      Point
}

// NewBBox builds a BBox from two corner points and caches the midpoint.
func NewBBox(min, max Point) BBox {
	b := BBox{Min: min, Max: max}
	b.mid = Point{
		X: (min.X + max.X) / 2,
		Y: (min.Y + max.Y) / 2,
		Z: (min.Z + max.Z) / 2,
	}
	return b
}

// Mid returns the cached midpoint.
func (b BBox) Mid() Point { return b.mid }

// Contains reports whether p lies within the closed box.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Overlaps reports whether b and other share any point. Boundaries are
// included, so boxes that only touch on a face, edge or corner overlap.
func (b BBox) Overlaps(other BBox) bool {
	if b.Max.X < other.Min.X || b.Min.X > other.Max.X {
		return false
	}
	if b.Max.Y < other.Min.Y || b.Min.Y > other.Max.Y {
		return false
	}
	if b.Max.Z < other.Min.Z || b.Min.Z > other.Max.Z {
		return false
	}
	return true
}

// Area returns the XY footprint area (width * depth), used for coarse
// density heuristics; volume is deliberately not exposed since the tree's
// addressing scheme cares about the XY octants first (see calcTick).
func (b BBox) Area() float64 {
	return (b.Max.X - b.Min.X) * (b.Max.Y - b.Min.Y)
}

// GrowBy expands the box symmetrically by eps on every axis. Used to absorb
// floating point error at query boundaries.
func (b BBox) GrowBy(eps float64) BBox {
	return NewBBox(
		Point{b.Min.X - eps, b.Min.Y - eps, b.Min.Z - eps},
		Point{b.Max.X + eps, b.Max.Y + eps, b.Max.Z + eps},
	)
}

// Octant identifies one of the eight (or, in 2D, four) sub-boxes of a BBox.
// Bit 0 = east, bit 1 = north, bit 2 = up. The +1 offset used in node
// addressing (spec.md §3) is applied by the caller, not stored here.
type Octant uint8

const (
	SouthWestDown Octant = iota // swd
	SouthEastDown               // sed
	NorthWestDown               // nwd
	NorthEastDown               // ned
	SouthWestUp                 // swu
	SouthEastUp                 // seu
	NorthWestUp                 // nwu
	NorthEastUp                 // neu
)

// OctantOf returns the octant of p relative to mid. The Z bit is not
// consulted when is3D is false.
func OctantOf(p, mid Point, is3D bool) Octant {
	var o Octant
	if p.X > mid.X {
		o |= 1 << 0
	}
	if p.Y > mid.Y {
		o |= 1 << 1
	}
	if is3D && p.Z > mid.Z {
		o |= 1 << 2
	}
	return o
}

// Sub returns the sub-box for the given octant. When is3D is false, the Z
// range is carried through unchanged (2D structures ignore Z entirely).
func (b BBox) Sub(o Octant, is3D bool) BBox {
	mid := b.mid
	min, max := b.Min, b.Max

	if o&(1<<0) != 0 {
		min.X = mid.X
	} else {
		max.X = mid.X
	}
	if o&(1<<1) != 0 {
		min.Y = mid.Y
	} else {
		max.Y = mid.Y
	}
	if is3D {
		if o&(1<<2) != 0 {
			min.Z = mid.Z
		} else {
			max.Z = mid.Z
		}
	}
	return NewBBox(min, max)
}
