package bench_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codecbench/pkg/bench"
	"github.com/Sumatoshi-tech/codecbench/pkg/codec"
)

// identityCodec stores raw pixels verbatim. With corrupt set it flips the
// first decoded byte. Every decoded input is recorded.
type identityCodec struct {
	name    string
	format  string
	corrupt bool
	decoded [][]byte
}

func (c *identityCodec) Name() string   { return c.name }
func (c *identityCodec) Format() string { return c.format }

func (c *identityCodec) Encode(pix []byte, _, _, _ int) ([]byte, error) {
	return append([]byte(c.name+":"), pix...), nil
}

func (c *identityCodec) Decode(data []byte, _ int) ([]byte, error) {
	c.decoded = append(c.decoded, data)

	out := slices.Clone(data)
	if c.format == "" {
		out = out[len(c.name)+1:]
	}

	if c.corrupt && len(out) > 0 {
		out[0] ^= 0xff
	}

	return out, nil
}

// stepClock advances by the next step on every second reading, so each
// start/stop pair measures exactly one step.
type stepClock struct {
	now   time.Time
	steps []time.Duration
	calls int
}

func (c *stepClock) Now() time.Time {
	if c.calls%2 == 1 {
		c.now = c.now.Add(c.steps[c.calls/2])
	}

	c.calls++

	return c.now
}

func newRegistry(t *testing.T, codecs ...codec.Codec) *codec.Registry {
	t.Helper()

	reg, err := codec.NewRegistry(codecs...)
	require.NoError(t, err)

	return reg
}

// pngFixture encodes a width x height PNG. With alpha set the image carries a
// translucent alpha channel; otherwise it is opaque truecolor.
func pngFixture(t *testing.T, width, height int, alpha bool) []byte {
	t.Helper()

	var img image.Image

	if alpha {
		nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
		for y := range height {
			for x := range width {
				nrgba.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 20), B: 90, A: uint8(100 + x)})
			}
		}

		img = nrgba
	} else {
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := range height {
			for x := range width {
				rgba.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 200, A: 0xff})
			}
		}

		img = rgba
	}

	var buf bytes.Buffer

	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func writeFile(t *testing.T, fs afero.Fs, name string, data []byte) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, afero.WriteFile(fs, name, data, 0o644))
}

func referenceOnly(runs int) bench.Options {
	opts := bench.DefaultOptions()
	opts.Runs = runs
	opts.Reference = "ident"
	opts.Compare = false

	return opts
}
