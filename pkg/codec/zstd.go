package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const zstdMagic = "ZSTP"

// Zstd compresses raw pixels as one zstd frame behind a small header.
// The encoder and decoder are created once and reused for every call.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd creates the zstd codec with single-goroutine encoder and decoder.
func NewZstd() (*Zstd, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(MaxDecodedBytes),
	)
	if err != nil {
		closeErr := enc.Close()

		return nil, fmt.Errorf("create zstd decoder: %w (close encoder: %v)", err, closeErr)
	}

	return &Zstd{enc: enc, dec: dec}, nil
}

// Name implements Codec.
func (*Zstd) Name() string { return "zstd" }

// Format implements Codec.
func (*Zstd) Format() string { return "" }

// Encode implements Codec.
func (z *Zstd) Encode(pix []byte, width, height, channels int) ([]byte, error) {
	err := checkLayout(pix, width, height, channels)
	if err != nil {
		return nil, err
	}

	h := rawHeader{width: width, height: height, channels: channels, mode: modeCompressed}
	out := appendRawHeader(make([]byte, 0, rawHeaderSize+len(pix)/2), zstdMagic, h)

	return z.enc.EncodeAll(pix, out), nil
}

// Decode implements Codec.
func (z *Zstd) Decode(data []byte, channels int) ([]byte, error) {
	h, payload, err := parseRawHeader(data, zstdMagic)
	if err != nil {
		return nil, err
	}

	if h.mode != modeCompressed {
		return nil, fmt.Errorf("%w: zstd payload not compressed", ErrCorrupt)
	}

	pix, err := z.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
	}

	if len(pix) != h.size {
		return nil, fmt.Errorf("%w: zstd produced %d bytes, want %d", ErrCorrupt, len(pix), h.size)
	}

	return ConvertChannels(pix, h.channels, channels)
}

// Close releases the encoder and decoder.
func (z *Zstd) Close() error {
	z.dec.Close()

	err := z.enc.Close()
	if err != nil {
		return fmt.Errorf("close zstd encoder: %w", err)
	}

	return nil
}
