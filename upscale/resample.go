package upscale

import (
	"image"
	"math"

	"pixelstudio/pixbuf"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

type Filter string

const (
	FilterBilinear   Filter = "bilinear"
	FilterCatmullRom Filter = "catmullrom"
	FilterMitchell   Filter = "mitchell"
)

// Filters lists the accepted resampling filters. Nearest neighbour is left
// out on purpose: the upscaler always smooths.
var Filters = []Filter{FilterBilinear, FilterCatmullRom, FilterMitchell}

func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.Wrapf(ErrUnsupportedFilter, "%q", s)
}

// ScaledSize returns the floored dimensions of a w x h image scaled by scale.
func ScaledSize(w, h int, scale float64) (int, int) {
	return int(math.Floor(float64(w) * scale)), int(math.Floor(float64(h) * scale))
}

// Resample returns a new buffer of ScaledSize dimensions holding src
// interpolated with filter.
func Resample(src *pixbuf.Buffer, scale float64, filter Filter) (*pixbuf.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, pixbuf.Reclassify(pixbuf.ErrInvalidImage, err)
	}
	if scale < 1 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return nil, errors.Wrapf(ErrInvalidScale, "scale %v", scale)
	}
	if area := float64(src.Width) * scale * float64(src.Height) * scale; area > MaxPixels {
		return nil, errors.Wrapf(ErrInvalidScale, "scale %v gives %.0f pixels, limit is %d", scale, area, MaxPixels)
	}

	w, h := ScaledSize(src.Width, src.Height, scale)

	var dest image.Image
	switch filter {
	case FilterBilinear, FilterCatmullRom:
		interp := draw.Interpolator(draw.CatmullRom)
		if filter == FilterBilinear {
			interp = draw.BiLinear
		}
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		interp.Scale(rgba, rgba.Bounds(), src.Image(), src.Bounds(), draw.Src, nil)
		dest = rgba
	case FilterMitchell:
		dest = resize.Resize(uint(w), uint(h), src.Image(), resize.MitchellNetravali)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFilter, "%q", filter)
	}

	out, err := pixbuf.FromImage(dest)
	if err != nil {
		return nil, pixbuf.Reclassify(pixbuf.ErrProcessing, err)
	}
	return out, nil
}
