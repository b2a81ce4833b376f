// Package eraser removes painted regions of an image by refilling them with
// colour sampled from the unpainted content directly above.
//
// The fill is a heuristic, not a generative inpainting model: every mask cell
// maps to a rectangle of source pixels, and the whole rectangle takes the
// colour of one sample point offset upwards by the brush size.
package eraser

import (
	"math"

	"pixelstudio/pixbuf"

	"github.com/pkg/errors"
)

// DefaultBrushSize, MinBrushSize and MaxBrushSize bound the brush slider.
const (
	DefaultBrushSize = 20
	MinBrushSize     = 5
	MaxBrushSize     = 50
)

// Erase returns a copy of src in which every pixel covered by a painted mask
// cell is replaced. The mask may be drawn at a lower resolution than src;
// each cell then covers a rectangle of source pixels. Sample colours are
// always read from src, which is left untouched, so fills never chain.
func Erase(src *pixbuf.Buffer, mask *Mask, brushSize int) (*pixbuf.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, errors.Wrap(err, "source image")
	}
	if mask == nil {
		return nil, errors.Wrap(pixbuf.ErrProcessing, "mask unavailable")
	}
	if err := mask.buf.Validate(); err != nil {
		return nil, errors.Wrap(err, "mask")
	}
	if mask.Width() > src.Width || mask.Height() > src.Height {
		return nil, errors.Wrapf(pixbuf.ErrProcessing, "mask %dx%d is larger than image %dx%d",
			mask.Width(), mask.Height(), src.Width, src.Height)
	}
	if brushSize < 0 {
		return nil, errors.Wrapf(pixbuf.ErrProcessing, "invalid brush size: %d", brushSize)
	}

	w, h := src.Width, src.Height
	scaleX := float64(w) / float64(mask.Width())
	scaleY := float64(h) / float64(mask.Height())
	offsetY := int(math.Floor(float64(brushSize) * scaleY))

	dest := src.Clone()
	for my := range mask.Height() {
		for mx := range mask.Width() {
			if !mask.Painted(mx, my) {
				continue
			}

			startX := int(math.Floor(float64(mx) * scaleX))
			startY := int(math.Floor(float64(my) * scaleY))
			endX := min(int(math.Ceil(float64(mx+1)*scaleX)), w)
			endY := min(int(math.Ceil(float64(my+1)*scaleY)), h)

			sx := clampInt(startX, 0, w-1)
			sy := clampInt(startY-offsetY, 0, h-1)
			si := src.Offset(sx, sy)
			r, g, b := src.Pix[si], src.Pix[si+1], src.Pix[si+2]

			for y := startY; y < endY; y++ {
				for x := startX; x < endX; x++ {
					i := dest.Offset(x, y)
					dest.Pix[i], dest.Pix[i+1], dest.Pix[i+2] = r, g, b
				}
			}
		}
	}

	return dest, nil
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
