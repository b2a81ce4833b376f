package pixbuf

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// bytesPerPixel is the size of one r, g, b, a pixel in Pix.
const bytesPerPixel = 4

// Buffer is a width x height grid of non-premultiplied RGBA pixels, laid
// out like a canvas ImageData. The pixel at (x, y) starts at
// Pix[(y*Width+x)*4].
type Buffer struct {
	Pix    []uint8
	Width  int
	Height int
}

var _ draw.Image = &Buffer{}

// New allocates a zeroed buffer. Negative dimensions are clamped to zero,
// which Validate then reports.
func New(width, height int) *Buffer {
	width, height = max(width, 0), max(height, 0)
	return &Buffer{
		Pix:    make([]uint8, width*height*bytesPerPixel),
		Width:  width,
		Height: height,
	}
}

// FromImage copies img into a new buffer anchored at (0, 0).
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, errors.Wrap(ErrInvalidImage, "nil image")
	}

	sr := img.Bounds()
	if sr.Empty() {
		return nil, errors.Wrapf(ErrInvalidImage, "empty bounds %v", sr)
	}

	buf := New(sr.Dx(), sr.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range buf.Height {
			src := nrgba.Pix[nrgba.PixOffset(sr.Min.X, sr.Min.Y+y):]
			copy(buf.Pix[buf.offset(0, y):buf.offset(0, y+1)], src[:buf.Width*bytesPerPixel])
		}
		return buf, nil
	}

	draw.Draw(buf.Image(), buf.Bounds(), img, sr.Min, draw.Src)
	return buf, nil
}

// Validate reports ErrProcessing when the buffer cannot be read as pixels.
func (b *Buffer) Validate() error {
	switch {
	case b == nil:
		return errors.Wrap(ErrProcessing, "pixel buffer unavailable")
	case b.Width <= 0 || b.Height <= 0:
		return errors.Wrapf(ErrProcessing, "invalid dimensions: %dx%d", b.Width, b.Height)
	case len(b.Pix) != b.Width*b.Height*bytesPerPixel:
		return errors.Wrapf(ErrProcessing, "pixel data has %d bytes, want %d", len(b.Pix), b.Width*b.Height*bytesPerPixel)
	}
	return nil
}

func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		Pix:    make([]uint8, len(b.Pix)),
		Width:  b.Width,
		Height: b.Height,
	}
	copy(c.Pix, b.Pix)
	return c
}

// Image returns an *image.NRGBA sharing the buffer's pixels.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * bytesPerPixel,
		Rect:   b.Bounds(),
	}
}

func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

func (b *Buffer) At(x, y int) color.Color {
	return b.NRGBAAt(x, y)
}

func (b *Buffer) NRGBAAt(x, y int) color.NRGBA {
	if !b.contains(x, y) {
		return color.NRGBA{}
	}
	i := b.offset(x, y)
	p := b.Pix[i : i+bytesPerPixel : i+bytesPerPixel]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (b *Buffer) Set(x, y int, c color.Color) {
	b.SetNRGBA(x, y, color.NRGBAModel.Convert(c).(color.NRGBA))
}

func (b *Buffer) SetNRGBA(x, y int, c color.NRGBA) {
	if !b.contains(x, y) {
		return
	}
	i := b.offset(x, y)
	p := b.Pix[i : i+bytesPerPixel : i+bytesPerPixel]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Offset returns the index of the first byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return b.offset(x, y)
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.Width + x) * bytesPerPixel
}

func (b *Buffer) contains(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Clamp saturates a signed channel sum into [0, 255].
func Clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
