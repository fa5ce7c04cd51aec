// Package compression declares the opaque compress/decompress collaborator
// spec.md §6 keeps external to the core, plus a concrete zstd-backed
// implementation for the domain-stack wiring described in SPEC_FULL.md.
package compression

// Schema is the minimal surface the codec needs from the (also external)
// point-record schema: enough to describe how many bytes a decompressed
// buffer should be, without the core depending on the schema package.
type Schema interface {
	// PointSize returns the byte width of one record under this schema.
	PointSize() int
}

// Codec compresses and decompresses a byte sequence against a schema. The
// codec is identified by tree metadata, not per-chunk (spec.md §6).
type Codec interface {
	Compress(data []byte, schema Schema) ([]byte, error)
	// Decompress inflates data to exactly expectedSize bytes.
	Decompress(data []byte, schema Schema, expectedSize int) ([]byte, error)
}
