package codec

import (
	"bytes"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

const lz4Magic = "LZ4P"

// LZ4 compresses raw pixels as a single LZ4 block behind a small header.
type LZ4 struct{}

// NewLZ4 creates the lz4 codec.
func NewLZ4() *LZ4 { return &LZ4{} }

// Name implements Codec.
func (*LZ4) Name() string { return "lz4" }

// Format implements Codec.
func (*LZ4) Format() string { return "" }

// Encode implements Codec.
func (*LZ4) Encode(pix []byte, width, height, channels int) ([]byte, error) {
	err := checkLayout(pix, width, height, channels)
	if err != nil {
		return nil, err
	}

	h := rawHeader{width: width, height: height, channels: channels, mode: modeCompressed}
	out := make([]byte, rawHeaderSize+lz4.CompressBlockBound(len(pix)))

	written, err := lz4.CompressBlock(pix, out[rawHeaderSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	if written == 0 {
		h.mode = modeStored
		out = append(out[:rawHeaderSize], pix...)
		written = len(pix)
	}

	appendRawHeader(out[:0], lz4Magic, h)

	return out[:rawHeaderSize+written], nil
}

// lz4MaxRatio bounds how far one compressed byte can expand, plus slack for
// the final literals of a block.
const (
	lz4MaxRatio = 255
	lz4Slack    = 16
)

// Decode implements Codec.
func (*LZ4) Decode(data []byte, channels int) ([]byte, error) {
	h, payload, err := parseRawHeader(data, lz4Magic)
	if err != nil {
		return nil, err
	}

	if h.mode == modeStored {
		if len(payload) != h.size {
			return nil, fmt.Errorf("%w: stored payload %d bytes, want %d", ErrCorrupt, len(payload), h.size)
		}

		return ConvertChannels(bytes.Clone(payload), h.channels, channels)
	}

	if uint64(h.size) > uint64(len(payload))*lz4MaxRatio+lz4Slack {
		return nil, fmt.Errorf("%w: lz4 payload of %d bytes cannot hold %d pixel bytes", ErrCorrupt, len(payload), h.size)
	}

	pix := make([]byte, h.size)

	n, err := lz4.UncompressBlock(payload, pix)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
	}

	if n != len(pix) {
		return nil, fmt.Errorf("%w: lz4 produced %d bytes, want %d", ErrCorrupt, n, len(pix))
	}

	return ConvertChannels(pix, h.channels, channels)
}
