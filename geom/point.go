// Package geom holds the plain value types (Point, BBox) that describe
// octree geometry, independent of storage concerns.
package geom

import "math"

// Point is a location in 3D space. Z is ignored for a 2D Structure.
type Point struct {
	X, Y, Z float64
}

// Exists reports whether p is a real point rather than the "does-not-exist"
// sentinel (any NaN component).
func (p Point) Exists() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z)
}

// NonPoint returns the canonical "does-not-exist" sentinel.
func NonPoint() Point {
	nan := math.NaN()
	return Point{nan, nan, nan}
}
