// Package tube implements the per-node container (Tube) and its slots
// (Cell), grounded on urkle's sparse-by-construction record maps
// (urkle/leafrecord.go, urkle/noderecord.go): most ticks are unused, so a
// Tube is a plain Go map rather than a preallocated array.
package tube

import (
	"sort"

	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/pointpool"
)

// Cell holds one point and a handle into the point pool arena for its
// serialized native payload. A Cell with a non-existent Point carries a
// zero Handle and is never emitted during serialization.
type Cell struct {
	Point  geom.Point
	Handle pointpool.Handle
}

// Empty reports whether the cell has never been assigned a point.
func (c Cell) Empty() bool {
	return !c.Point.Exists()
}

// Tube maps tick to Cell. Insertion order is irrelevant; serialization
// always emits ticks in ascending order (spec.md §5).
type Tube struct {
	cells map[uint64]*Cell
}

// New returns an empty Tube.
func New() *Tube {
	return &Tube{cells: make(map[uint64]*Cell)}
}

// AddCell inserts a Cell at tick, overwriting any existing cell there.
func (t *Tube) AddCell(tick uint64, cell Cell) {
	c := cell
	t.cells[tick] = &c
}

// GetCell returns the Cell at tick, creating an empty one if absent. The
// returned bool is true when a new Cell was created.
func (t *Tube) GetCell(tick uint64) (created bool, cell *Cell) {
	if c, ok := t.cells[tick]; ok {
		return false, c
	}
	c := &Cell{Point: geom.NonPoint()}
	t.cells[tick] = c
	return true, c
}

// Len returns the number of occupied ticks.
func (t *Tube) Len() int { return len(t.cells) }

// Ticks returns the occupied ticks in ascending order.
func (t *Tube) Ticks() []uint64 {
	out := make([]uint64, 0, len(t.cells))
	for tick := range t.cells {
		out = append(out, tick)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Cell returns the cell at tick, or nil if absent.
func (t *Tube) Cell(tick uint64) *Cell {
	return t.cells[tick]
}
