package chunk

import (
	"encoding/binary"
	"errors"
)

// ErrMalformedBlob covers an empty blob, unknown type byte, or truncated
// tail during parsing (spec.md §7).
var ErrMalformedBlob = errors.New("chunk: malformed blob")

// Type identifies which Chunk variant produced a blob. The caller picks the
// variant to reconstruct by calling LoadContiguous or LoadSparse; the tail's
// type byte is checked against that choice and a mismatch is rejected with
// ErrMalformedBlob. No loader picks the variant from the type byte itself.
type Type uint8

const (
	Sparse     Type = 0
	Contiguous Type = 1
)

func (t Type) String() string {
	switch t {
	case Sparse:
		return "sparse"
	case Contiguous:
		return "contiguous"
	default:
		return "unknown"
	}
}

// tailBytes is the fixed size of the trailer: 8 bytes numPoints + 1 byte type.
const tailBytes = 9

// pushTail appends the (numPoints, type) trailer to a compressed payload,
// per spec.md §6's byte order: payload, then numPoints (8B LE), then type
// (1B).
func pushTail(payload []byte, numPoints uint64, ty Type) []byte {
	out := make([]byte, len(payload)+tailBytes)
	copy(out, payload)
	binary.LittleEndian.PutUint64(out[len(payload):], numPoints)
	out[len(out)-1] = byte(ty)
	return out
}

// popTail splits blob into (payload, numPoints, type), reading the trailer
// back-to-front as spec.md §3 describes.
func popTail(blob []byte) (payload []byte, numPoints uint64, ty Type, err error) {
	if len(blob) < tailBytes {
		return nil, 0, 0, ErrMalformedBlob
	}
	tyByte := blob[len(blob)-1]
	if tyByte != byte(Sparse) && tyByte != byte(Contiguous) {
		return nil, 0, 0, ErrMalformedBlob
	}
	n := binary.LittleEndian.Uint64(blob[len(blob)-tailBytes : len(blob)-1])
	return blob[:len(blob)-tailBytes], n, Type(tyByte), nil
}
