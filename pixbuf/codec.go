package pixbuf

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"sync"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Decode reads an encoded raster image and returns its pixels together with
// the name of the format it was stored in. Every failure, including a
// decoded image with no pixels, is reported as ErrInvalidImage.
func Decode(ctx context.Context, r io.Reader) (*Buffer, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrapf(ErrInvalidImage, "could not decode image: %v", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	buf, err := FromImage(img)
	if err != nil {
		return nil, "", errors.Wrapf(err, "could not read %s pixels", format)
	}
	return buf, format, nil
}

// EncodePNG writes the buffer as a PNG stream.
func EncodePNG(w io.Writer, b *Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}

	enc := png.Encoder{
		CompressionLevel: png.BestCompression,
		BufferPool:       pngPool,
	}
	if err := enc.Encode(w, b.Image()); err != nil {
		return errors.Wrap(err, "could not encode PNG")
	}
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
