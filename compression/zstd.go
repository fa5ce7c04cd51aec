package compression

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Zstd is the default Codec, backed by github.com/klauspost/compress/zstd
// (an indirect dependency of both bluesky-social-indigo and
// viamrobotics-rdk in this pack — see SPEC_FULL.md's DOMAIN STACK).
type Zstd struct {
	Level zstd.EncoderLevel
}

// NewZstd returns a Zstd codec at the given compression level. A zero Level
// defaults to zstd.SpeedDefault.
func NewZstd(level zstd.EncoderLevel) *Zstd {
	if level == 0 {
		level = zstd.SpeedDefault
	}
	return &Zstd{Level: level}
}

// Compress implements Codec.
func (z *Zstd) Compress(data []byte, _ Schema) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(z.Level))
	if err != nil {
		return nil, fmt.Errorf("compression: creating zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// Decompress implements Codec, verifying the inflated size matches
// expectedSize exactly, per spec.md §6's caller-supplied-size contract.
func (z *Zstd) Decompress(data []byte, _ Schema, expectedSize int) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("compression: creating zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, make([]byte, 0, expectedSize))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("compression: zstd decode: %w", err)
	}
	if len(out) != expectedSize {
		return nil, fmt.Errorf("compression: decoded %d bytes, expected %d", len(out), expectedSize)
	}
	return out, nil
}
