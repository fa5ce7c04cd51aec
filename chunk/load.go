package chunk

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pierotofy/entwine/counters"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/schema"
	"github.com/pierotofy/entwine/tube"
)

// loader is implemented by both variants' Load constructors: given a
// normalized index it returns the Tube to insert into, creating it if
// necessary.
type loader func(normalizedIndex uint64) (*tube.Tube, error)

// loadIntoBase is the concrete implementation both ContiguousChunk and
// SparseChunk's Load constructors call, given their own base and a loader.
func loadIntoBase(b *base, blob []byte, want Type, get loader) error {
	payload, numPoints, ty, err := popTail(blob)
	if err != nil {
		return err
	}
	if ty != want {
		return fmt.Errorf("%w: tail declares type %s, expected %s", ErrMalformedBlob, ty, want)
	}

	celledSize := b.celledSch.PointSize()
	expected := int(numPoints) * celledSize
	decompressed, err := b.codec.Decompress(payload, b.celledSch, expected)
	if err != nil {
		return fmt.Errorf("chunk: decompressing chunk %s: %w", b.id, err)
	}
	if len(decompressed) != expected {
		return fmt.Errorf("%w: decompressed %d bytes, expected %d", ErrMalformedBlob, len(decompressed), expected)
	}

	nativeSize := b.nativeSch.PointSize()
	xDim, xOK := b.nativeSch.Dimension("X")
	yDim, yOK := b.nativeSch.Dimension("Y")
	zDim, zOK := b.nativeSch.Dimension("Z")
	switch {
	case !xOK:
		return schema.ErrDimensionMissing{Name: "X"}
	case !yOK:
		return schema.ErrDimensionMissing{Name: "Y"}
	case !zOK:
		return schema.ErrDimensionMissing{Name: "Z"}
	}

	for off := 0; off < expected; off += celledSize {
		rec := decompressed[off : off+celledSize]
		tubeID := binary.LittleEndian.Uint64(rec[0:8])
		native := rec[8 : 8+nativeSize]

		point := geom.Point{
			X: readFloat64(native, xDim.Offset),
			Y: readFloat64(native, yDim.Offset),
			Z: readFloat64(native, zDim.Offset),
		}

		handle, err := b.pool.Acquire(native, point)
		if err != nil {
			return fmt.Errorf("chunk: acquiring pool slot while loading chunk %s: %w", b.id, err)
		}

		depth, err := b.effectiveDepth(tubeID)
		if err != nil {
			return fmt.Errorf("chunk: computing effective depth while loading chunk %s: %w", b.id, err)
		}
		tick := tube.CalcTick(point, b.rootBBox, depth)

		t, err := get(tubeID)
		if err != nil {
			return err
		}
		t.AddCell(tick, tube.Cell{Point: point, Handle: handle})
		counters.AddPoint(int64(nativeSize))
	}
	b.loadedPoints = numPoints
	return nil
}

func readFloat64(buf []byte, offset int) float64 {
	bits := binary.LittleEndian.Uint64(buf[offset : offset+8])
	return math.Float64frombits(bits)
}
