// Package codec adapts third-party image and byte compressors to a common
// raw-pixel interface so they can be benchmarked side by side.
//
// Raw pixels are interleaved 8-bit samples, row-major, with either 3 (RGB) or
// 4 (RGBA, non-premultiplied) channels per pixel.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors.
var (
	// ErrCorrupt indicates encoded data that a codec cannot parse.
	ErrCorrupt = errors.New("corrupt encoded data")
	// ErrChannels indicates a channel count other than 3 or 4.
	ErrChannels = errors.New("unsupported channel count")
	// ErrSize indicates a pixel buffer whose length does not match its dimensions.
	ErrSize = errors.New("pixel buffer size mismatch")
	// ErrUnknown indicates a codec name missing from a registry.
	ErrUnknown = errors.New("unknown codec")
	// ErrDuplicate indicates two codecs registered under the same name.
	ErrDuplicate = errors.New("duplicate codec")
)

// Codec encodes raw pixels and decodes them back.
type Codec interface {
	// Name is the short identifier used on the command line and in reports.
	Name() string
	// Format is the image format name reported by image.DecodeConfig for data
	// this codec can decode, or "" when the codec has no such format.
	Format() string
	// Encode compresses pix, which holds width*height*channels bytes.
	Encode(pix []byte, width, height, channels int) ([]byte, error)
	// Decode decompresses data into raw pixels with the requested channel count.
	Decode(data []byte, channels int) ([]byte, error)
}

// Registry is an ordered set of codecs addressed by name.
type Registry struct {
	codecs []Codec
	byName map[string]Codec
}

// NewRegistry creates a registry holding codecs in the given order.
func NewRegistry(codecs ...Codec) (*Registry, error) {
	reg := &Registry{byName: make(map[string]Codec, len(codecs))}

	for _, c := range codecs {
		if _, ok := reg.byName[c.Name()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, c.Name())
		}

		reg.codecs = append(reg.codecs, c)
		reg.byName[c.Name()] = c
	}

	return reg, nil
}

// Default returns the built-in codecs: png, bmp, tiff, zstd and lz4.
func Default() (*Registry, error) {
	zstdCodec, err := NewZstd()
	if err != nil {
		return nil, err
	}

	return NewRegistry(NewPNG(), NewBMP(), NewTIFF(), zstdCodec, NewLZ4())
}

// Get returns the codec registered as name.
func (r *Registry) Get(name string) (Codec, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknown, name, strings.Join(r.Names(), ", "))
	}

	return c, nil
}

// Names lists codec names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.codecs))
	for i, c := range r.codecs {
		names[i] = c.Name()
	}

	return names
}

// All returns the codecs in registration order.
func (r *Registry) All() []Codec {
	out := make([]Codec, len(r.codecs))
	copy(out, r.codecs)

	return out
}

// Close releases every codec that holds resources. The registry must not be
// used afterwards.
func (r *Registry) Close() error {
	var errs []error

	for _, c := range r.codecs {
		closer, ok := c.(io.Closer)
		if !ok {
			continue
		}

		err := closer.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func checkLayout(pix []byte, width, height, channels int) error {
	if channels != 3 && channels != 4 {
		return fmt.Errorf("%w: %d", ErrChannels, channels)
	}

	if width <= 0 || height <= 0 || len(pix) != width*height*channels {
		return fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrSize, len(pix), width, height, channels)
	}

	return nil
}
