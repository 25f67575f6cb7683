package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ImageCodec adapts an image.Image encoder/decoder pair to raw pixels.
type ImageCodec struct {
	name   string
	format string
	encode func(w io.Writer, img image.Image) error
	decode func(r io.Reader) (image.Image, error)
}

// NewPNG creates the png codec backed by image/png at default compression.
func NewPNG() *ImageCodec {
	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}

	return &ImageCodec{name: "png", format: "png", encode: enc.Encode, decode: png.Decode}
}

// NewBMP creates the bmp codec backed by golang.org/x/image/bmp.
func NewBMP() *ImageCodec {
	return &ImageCodec{name: "bmp", format: "bmp", encode: bmp.Encode, decode: bmp.Decode}
}

// NewTIFF creates the tiff codec backed by golang.org/x/image/tiff with
// deflate compression and horizontal differencing.
func NewTIFF() *ImageCodec {
	opts := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
	encode := func(w io.Writer, img image.Image) error {
		return tiff.Encode(w, img, opts)
	}

	return &ImageCodec{name: "tiff", format: "tiff", encode: encode, decode: tiff.Decode}
}

// Name implements Codec.
func (c *ImageCodec) Name() string { return c.name }

// Format implements Codec.
func (c *ImageCodec) Format() string { return c.format }

// Encode implements Codec.
func (c *ImageCodec) Encode(pix []byte, width, height, channels int) ([]byte, error) {
	img, err := Image(pix, width, height, channels)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	buf.Grow(len(pix) / 2)

	err = c.encode(&buf, img)
	if err != nil {
		return nil, fmt.Errorf("%s encode: %w", c.name, err)
	}

	return buf.Bytes(), nil
}

// Decode implements Codec.
func (c *ImageCodec) Decode(data []byte, channels int) ([]byte, error) {
	img, err := c.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, c.name, err)
	}

	return Pack(img, channels)
}
