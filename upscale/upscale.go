// Package upscale enlarges images with a smoothing resampler and restores
// edge contrast with a 3x3 sharpening pass.
package upscale

import (
	"pixelstudio/pixbuf"

	"github.com/pkg/errors"
)

const DefaultScale = 2

// MaxPixels caps the area of an upscaled image. One output pixel takes four
// bytes in the result plus the resampler's scratch image.
const MaxPixels = 1 << 28

var (
	ErrInvalidScale      = errors.New("invalid scale")
	ErrUnsupportedFilter = errors.New("unsupported filter")
)

type Options struct {
	// Scale factor applied to both axes. Zero means DefaultScale.
	Scale float64
	// Filter used by the resampling step. Empty means FilterCatmullRom.
	Filter Filter
}

func (o Options) withDefaults() Options {
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Filter == "" {
		o.Filter = FilterCatmullRom
	}
	return o
}

// Upscale resamples src by opts.Scale and sharpens the result. The source is
// never modified.
func Upscale(src *pixbuf.Buffer, opts Options) (*pixbuf.Buffer, error) {
	opts = opts.withDefaults()

	resampled, err := Resample(src, opts.Scale, opts.Filter)
	if err != nil {
		return nil, errors.Wrap(err, "could not resample")
	}

	sharpened, err := Sharpen(resampled)
	if err != nil {
		return nil, errors.Wrap(err, "could not sharpen")
	}
	return sharpened, nil
}
