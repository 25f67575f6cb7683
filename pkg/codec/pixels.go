package codec

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// SourceChannels reports how many channels an image stored with model carries:
// 1 for gray, 3 for colour without alpha, 4 for colour with alpha.
// Palettes count as 4 when any entry is translucent.
func SourceChannels(model color.Model) int {
	if palette, ok := model.(color.Palette); ok {
		for _, c := range palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}

		return 3
	}

	switch model {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.RGBAModel, color.RGBA64Model, color.YCbCrModel, color.CMYKModel:
		return 3
	default:
		return 4
	}
}

// NormalizeChannels maps a source channel count to the count used for raw
// buffers: 3 stays 3, everything else becomes 4.
func NormalizeChannels(src int) int {
	if src == 3 {
		return 3
	}

	return 4
}

// Pack converts img into a raw interleaved buffer with the given channel count.
func Pack(img image.Image, channels int) ([]byte, error) {
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: %d", ErrChannels, channels)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	out := make([]byte, width*height*channels)

	if channels == 4 && nrgba.Stride == 4*width {
		copy(out, nrgba.Pix[:len(out)])

		return out, nil
	}

	di := 0

	for y := range height {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+4*width]
		for x := range width {
			di += copy(out[di:di+channels], row[4*x:4*x+channels])
		}
	}

	return out, nil
}

// Image wraps a raw buffer as an *image.NRGBA. Three-channel buffers are
// expanded with opaque alpha; four-channel buffers are shared, not copied.
func Image(pix []byte, width, height, channels int) (*image.NRGBA, error) {
	err := checkLayout(pix, width, height, channels)
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, width, height)

	if channels == 4 {
		return &image.NRGBA{Pix: pix, Stride: 4 * width, Rect: rect}, nil
	}

	img := image.NewNRGBA(rect)

	for si, di := 0, 0; si < len(pix); si, di = si+3, di+4 {
		copy(img.Pix[di:di+3], pix[si:si+3])
		img.Pix[di+3] = 0xff
	}

	return img, nil
}

// ConvertChannels repacks a raw buffer from one channel count to another.
// Dropping alpha discards it; adding alpha sets it opaque. Equal counts return pix.
func ConvertChannels(pix []byte, from, to int) ([]byte, error) {
	if (from != 3 && from != 4) || (to != 3 && to != 4) {
		return nil, fmt.Errorf("%w: %d -> %d", ErrChannels, from, to)
	}

	if from == to {
		return pix, nil
	}

	if len(pix)%from != 0 {
		return nil, fmt.Errorf("%w: %d bytes with %d channels", ErrSize, len(pix), from)
	}

	pixels := len(pix) / from
	out := make([]byte, pixels*to)

	for i := range pixels {
		copy(out[i*to:i*to+3], pix[i*from:i*from+3])

		if to == 4 {
			out[i*to+3] = 0xff
		}
	}

	return out, nil
}
