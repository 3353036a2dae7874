package statistic

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"sitestats/internal/statistic/interfaces"
)

// maxSnapshotSize bounds the memory a decoded snapshot may claim.
const maxSnapshotSize = 1 << 30

// SnapshotCompressor zstd-encodes store snapshots. Saves run in the
// background, so it trades encoder speed for size.
type SnapshotCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *SnapshotCompressor) Compress(snapshot []byte) ([]byte, error) {
	return z.encoder.EncodeAll(snapshot, make([]byte, 0, len(snapshot)/4)), nil
}

func (z *SnapshotCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot frame: %w", err)
	}
	return out, nil
}

func (z *SnapshotCompressor) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(maxSnapshotSize))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &SnapshotCompressor{encoder: encoder, decoder: decoder}, nil
}
