package upscale

import "pixelstudio/pixbuf"

// kernel is the 3x3 sharpening mask, row-major.
var kernel = [3][3]int{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// Sharpen convolves the interior pixels of src with the sharpening kernel,
// one RGB channel at a time. Alpha is copied. The outermost rows and columns
// are not covered by the kernel and keep the values they have in src, so an
// image less than 3 pixels wide or tall comes back unchanged.
func Sharpen(src *pixbuf.Buffer) (*pixbuf.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, pixbuf.Reclassify(pixbuf.ErrInvalidImage, err)
	}

	dest := src.Clone()
	w, h := src.Width, src.Height
	stride := w * 4

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := src.Offset(x, y)
			for c := range 3 {
				var sum int
				for ky := -1; ky <= 1; ky++ {
					row := i + ky*stride + c
					for kx := -1; kx <= 1; kx++ {
						if k := kernel[ky+1][kx+1]; k != 0 {
							sum += int(src.Pix[row+kx*4]) * k
						}
					}
				}
				dest.Pix[i+c] = pixbuf.Clamp(sum)
			}
		}
	}

	return dest, nil
}
