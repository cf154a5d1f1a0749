package serialize

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compressor wraps a reusable zstd encoder/decoder pair for compressing
// message/snapshot payloads before they go on the wire or into the event
// bus (spec.md §6), following the teacher's MessageSerializer idiom minus
// the protobuf framing (see DESIGN.md).
type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCompressor builds a Compressor tuned for low-latency small payloads:
// single-threaded encode/decode, default speed level.
func NewCompressor() (*Compressor, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("serialize: new zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("serialize: new zstd decoder: %w", err)
	}
	return &Compressor{encoder: enc, decoder: dec}, nil
}

// Compress returns a zstd-compressed copy of data.
func (c *Compressor) Compress(data []byte) []byte {
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
}

// Decompress reverses Compress.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("serialize: zstd decode: %w", err)
	}
	return out, nil
}

// Close releases the encoder/decoder's background goroutines.
func (c *Compressor) Close() {
	c.encoder.Close()
	c.decoder.Close()
}
