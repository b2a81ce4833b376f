package eraser

import (
	"image"
	"image/color"
	"math"

	"pixelstudio/pixbuf"

	"github.com/pkg/errors"
	"golang.org/x/image/vector"
)

// Threshold is the red level above which a mask cell counts as painted.
const Threshold = 100

// strokeColor matches the translucent red brush of the paint overlay. Read
// back as straight alpha its red channel is 255 wherever the brush touched.
var strokeColor = color.NRGBA{R: 255, A: 128}

// kappa places cubic control points so that four segments approximate a circle.
const kappa = 0.5522847498

type Point struct {
	X, Y float64
}

// Stroke is one round-capped brush segment in mask coordinates. A stroke
// whose ends coincide paints a disc.
type Stroke struct {
	From, To Point
	Radius   float64
}

// Mask is a paint overlay drawn at display resolution. Cells whose red
// channel exceeds Threshold select source pixels for replacement.
type Mask struct {
	buf *pixbuf.Buffer
}

// NewMask returns a blank mask. Negative sizes give an empty mask that
// Erase rejects.
func NewMask(width, height int) *Mask {
	return &Mask{buf: pixbuf.New(width, height)}
}

// MaskFromImage adopts the pixels of img as a mask.
func MaskFromImage(img image.Image) (*Mask, error) {
	buf, err := pixbuf.FromImage(img)
	if err != nil {
		return nil, errors.Wrap(err, "could not read mask")
	}
	return &Mask{buf: buf}, nil
}

func (m *Mask) Width() int  { return m.buf.Width }
func (m *Mask) Height() int { return m.buf.Height }

func (m *Mask) Bounds() image.Rectangle {
	return m.buf.Bounds()
}

// Buffer exposes the mask pixels.
func (m *Mask) Buffer() *pixbuf.Buffer {
	return m.buf
}

func (m *Mask) Painted(x, y int) bool {
	if x < 0 || x >= m.buf.Width || y < 0 || y >= m.buf.Height {
		return false
	}
	return m.buf.Pix[m.buf.Offset(x, y)] > Threshold
}

// Coverage counts the painted cells.
func (m *Mask) Coverage() int {
	n := 0
	for i := 0; i < len(m.buf.Pix); i += 4 {
		if m.buf.Pix[i] > Threshold {
			n++
		}
	}
	return n
}

func (m *Mask) Clear() {
	clear(m.buf.Pix)
}

// Paint rasterizes the strokes onto the mask in order.
func (m *Mask) Paint(strokes ...Stroke) {
	for _, s := range strokes {
		m.stroke(s)
	}
}

func (m *Mask) stroke(s Stroke) {
	r := float32(s.Radius)
	if r <= 0 {
		return
	}

	ax, ay := float32(s.From.X), float32(s.From.Y)
	bx, by := float32(s.To.X), float32(s.To.Y)

	dx, dy := bx-ax, by-ay
	if l := float32(math.Hypot(float64(dx), float64(dy))); l > 0 {
		dx, dy = dx/l, dy/l
	} else {
		dx, dy = 1, 0
	}
	nx, ny := -dy, dx
	k := r * kappa

	z := vector.NewRasterizer(m.buf.Width, m.buf.Height)
	z.MoveTo(ax+nx*r, ay+ny*r)
	z.LineTo(bx+nx*r, by+ny*r)
	// cap around To, turning through the stroke direction
	z.CubeTo(bx+nx*r+dx*k, by+ny*r+dy*k, bx+dx*r+nx*k, by+dy*r+ny*k, bx+dx*r, by+dy*r)
	z.CubeTo(bx+dx*r-nx*k, by+dy*r-ny*k, bx-nx*r+dx*k, by-ny*r+dy*k, bx-nx*r, by-ny*r)
	z.LineTo(ax-nx*r, ay-ny*r)
	// cap around From
	z.CubeTo(ax-nx*r-dx*k, ay-ny*r-dy*k, ax-dx*r-nx*k, ay-dy*r-ny*k, ax-dx*r, ay-dy*r)
	z.CubeTo(ax-dx*r+nx*k, ay-dy*r+ny*k, ax+nx*r-dx*k, ay+ny*r-dy*k, ax+nx*r, ay+ny*r)
	z.ClosePath()

	z.Draw(m.buf.Image(), m.buf.Bounds(), image.NewUniform(strokeColor), image.Point{})
}
