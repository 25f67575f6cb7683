package codec

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Raw-pixel container layout shared by the byte compressors:
//
//	magic[4] | width u32 | height u32 | channels u8 | mode u8 | payload
//
// mode is modeStored when the payload holds the pixels verbatim.
const (
	rawHeaderSize = 14

	modeStored     = 0
	modeCompressed = 1

	// MaxDecodedBytes bounds the pixel buffer a raw header may claim. A
	// 16384x16384 RGBA image fits exactly.
	MaxDecodedBytes = 1 << 30
)

type rawHeader struct {
	width    int
	height   int
	channels int
	mode     byte
	size     int // width*height*channels, at most MaxDecodedBytes.
}

func appendRawHeader(dst []byte, magic string, h rawHeader) []byte {
	dst = append(dst, magic...)
	dst = binary.BigEndian.AppendUint32(dst, uint32(h.width))  //nolint:gosec // checked by checkLayout.
	dst = binary.BigEndian.AppendUint32(dst, uint32(h.height)) //nolint:gosec // checked by checkLayout.

	return append(dst, byte(h.channels), h.mode)
}

func parseRawHeader(data []byte, magic string) (rawHeader, []byte, error) {
	if len(data) < rawHeaderSize || string(data[:4]) != magic {
		return rawHeader{}, nil, fmt.Errorf("%w: missing %q header", ErrCorrupt, magic)
	}

	h := rawHeader{
		width:    int(binary.BigEndian.Uint32(data[4:8])),
		height:   int(binary.BigEndian.Uint32(data[8:12])),
		channels: int(data[12]),
		mode:     data[13],
	}

	if h.channels != 3 && h.channels != 4 {
		return rawHeader{}, nil, fmt.Errorf("%w: header channels %d", ErrCorrupt, h.channels)
	}

	if h.width <= 0 || h.height <= 0 {
		return rawHeader{}, nil, fmt.Errorf("%w: header size %dx%d", ErrCorrupt, h.width, h.height)
	}

	hi, pixels := bits.Mul64(uint64(h.width), uint64(h.height))
	if hi != 0 || pixels > MaxDecodedBytes/uint64(h.channels) {
		return rawHeader{}, nil, fmt.Errorf("%w: header size %dx%dx%d exceeds %d bytes",
			ErrCorrupt, h.width, h.height, h.channels, MaxDecodedBytes)
	}

	h.size = int(pixels) * h.channels //nolint:gosec // bounded by MaxDecodedBytes.

	if h.mode != modeStored && h.mode != modeCompressed {
		return rawHeader{}, nil, fmt.Errorf("%w: header mode %d", ErrCorrupt, h.mode)
	}

	return h, data[rawHeaderSize:], nil
}
