package upscale

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"pixelstudio/pixbuf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(w, h int, fn func(x, y int) color.NRGBA) *pixbuf.Buffer {
	buf := pixbuf.New(w, h)
	for y := range h {
		for x := range w {
			buf.SetNRGBA(x, y, fn(x, y))
		}
	}
	return buf
}

func gradient(w, h int) *pixbuf.Buffer {
	return fill(w, h, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) % 256), A: 255}
	})
}

func TestResampleDimensions(t *testing.T) {
	for _, filter := range Filters {
		for _, size := range [][2]int{{1, 1}, {4, 4}, {7, 3}, {16, 9}} {
			for _, scale := range []int{1, 2, 3, 4} {
				name := fmt.Sprintf("%s/%dx%d/x%d", filter, size[0], size[1], scale)
				t.Run(name, func(t *testing.T) {
					out, err := Resample(gradient(size[0], size[1]), float64(scale), filter)
					require.NoError(t, err)
					assert.Equal(t, size[0]*scale, out.Width)
					assert.Equal(t, size[1]*scale, out.Height)
					assert.Len(t, out.Pix, size[0]*scale*size[1]*scale*4)
				})
			}
		}
	}
}

func TestResampleFractionalScale(t *testing.T) {
	out, err := Resample(gradient(3, 5), 1.5, FilterBilinear)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Width)
	assert.Equal(t, 7, out.Height)
}

func TestResampleDoesNotModifySource(t *testing.T) {
	src := gradient(5, 5)
	before := src.Clone()
	_, err := Upscale(src, Options{})
	require.NoError(t, err)
	assert.Equal(t, before.Pix, src.Pix)
}

func TestUpscaleFourByFour(t *testing.T) {
	out, err := Upscale(gradient(4, 4), Options{Scale: 2})
	require.NoError(t, err)
	assert.Equal(t, 8, out.Width)
	assert.Equal(t, 8, out.Height)
}

func TestUpscaleDefaults(t *testing.T) {
	out, err := Upscale(gradient(3, 2), Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Width)
	assert.Equal(t, 4, out.Height)
}

func TestUpscaleBorderKeepsResampledValues(t *testing.T) {
	src := pixbuf.New(2, 2)
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, A: 255})

	for _, filter := range Filters {
		t.Run(string(filter), func(t *testing.T) {
			resampled, err := Resample(src, 2, filter)
			require.NoError(t, err)
			out, err := Upscale(src, Options{Scale: 2, Filter: filter})
			require.NoError(t, err)
			require.Equal(t, 4, out.Width)
			require.Equal(t, 4, out.Height)

			for _, p := range [][2]int{{0, 0}, {3, 0}, {0, 3}, {3, 3}} {
				assert.Equal(t, resampled.NRGBAAt(p[0], p[1]), out.NRGBAAt(p[0], p[1]), "corner %v", p)
			}
			for i := range 4 {
				assert.Equal(t, resampled.NRGBAAt(i, 0), out.NRGBAAt(i, 0))
				assert.Equal(t, resampled.NRGBAAt(i, 3), out.NRGBAAt(i, 3))
				assert.Equal(t, resampled.NRGBAAt(0, i), out.NRGBAAt(0, i))
				assert.Equal(t, resampled.NRGBAAt(3, i), out.NRGBAAt(3, i))
			}
		})
	}
}

func TestUpscaleRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		src  *pixbuf.Buffer
		opts Options
		want []error
	}{
		{"nil source", nil, Options{}, []error{pixbuf.ErrInvalidImage, pixbuf.ErrProcessing}},
		{"empty source", &pixbuf.Buffer{}, Options{}, []error{pixbuf.ErrInvalidImage, pixbuf.ErrProcessing}},
		{"short pixel data", &pixbuf.Buffer{Width: 2, Height: 2, Pix: make([]uint8, 3)}, Options{}, []error{pixbuf.ErrInvalidImage, pixbuf.ErrProcessing}},
		{"shrinking scale", gradient(2, 2), Options{Scale: 0.5}, []error{ErrInvalidScale}},
		{"huge scale", pixbuf.New(1, 1), Options{Scale: 1e12}, []error{ErrInvalidScale}},
		{"over pixel limit", gradient(4, 4), Options{Scale: 4097}, []error{ErrInvalidScale}},
		{"unknown filter", gradient(2, 2), Options{Filter: "nearest"}, []error{ErrUnsupportedFilter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Upscale(tt.src, tt.opts)
			require.Error(t, err)
			assert.Nil(t, out)
			for _, want := range tt.want {
				assert.True(t, errors.Is(err, want), "%v is not %v", err, want)
			}
		})
	}
}

func TestSharpenKeepsValidationCause(t *testing.T) {
	_, err := Sharpen(&pixbuf.Buffer{Width: -1, Height: 2})
	assert.True(t, errors.Is(err, pixbuf.ErrInvalidImage))
	assert.True(t, errors.Is(err, pixbuf.ErrProcessing))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("mitchell")
	require.NoError(t, err)
	assert.Equal(t, FilterMitchell, f)

	_, err = ParseFilter("nearest")
	assert.True(t, errors.Is(err, ErrUnsupportedFilter))
}
