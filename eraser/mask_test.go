package eraser

import (
	"errors"
	"image"
	"testing"

	"pixelstudio/pixbuf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskStrokeCoversSegment(t *testing.T) {
	m := NewMask(20, 20)
	m.Paint(Stroke{From: Point{5, 10}, To: Point{15, 10}, Radius: 3})

	for x := 5; x < 15; x++ {
		assert.True(t, m.Painted(x, 10), "on segment at x=%d", x)
	}
	assert.True(t, m.Painted(10, 8))
	assert.True(t, m.Painted(10, 11))

	assert.False(t, m.Painted(10, 2), "above")
	assert.False(t, m.Painted(10, 15), "below")
	assert.False(t, m.Painted(0, 10), "before start cap")
	assert.False(t, m.Painted(19, 10), "after end cap")
	assert.False(t, m.Painted(0, 0))
}

func TestMaskStrokeDiagonal(t *testing.T) {
	m := NewMask(20, 20)
	m.Paint(Stroke{From: Point{2, 2}, To: Point{17, 17}, Radius: 2})

	for i := 3; i < 17; i++ {
		assert.True(t, m.Painted(i, i), "diagonal %d", i)
	}
	assert.False(t, m.Painted(17, 2))
	assert.False(t, m.Painted(2, 17))
}

func TestMaskDot(t *testing.T) {
	m := NewMask(20, 20)
	m.Paint(Stroke{From: Point{10, 10}, To: Point{10, 10}, Radius: 2})

	assert.True(t, m.Painted(9, 9))
	assert.True(t, m.Painted(10, 10))
	assert.False(t, m.Painted(14, 10))
	assert.False(t, m.Painted(10, 5))
	assert.Greater(t, m.Coverage(), 4)
	assert.Less(t, m.Coverage(), 36)
}

func TestMaskIgnoresEmptyRadius(t *testing.T) {
	m := NewMask(8, 8)
	m.Paint(Stroke{From: Point{1, 1}, To: Point{6, 6}})
	assert.Zero(t, m.Coverage())
}

func TestMaskStrokesAccumulateAndClear(t *testing.T) {
	m := NewMask(30, 10)
	m.Paint(
		Stroke{From: Point{3, 5}, To: Point{8, 5}, Radius: 2},
		Stroke{From: Point{20, 5}, To: Point{26, 5}, Radius: 2},
	)
	assert.True(t, m.Painted(5, 5))
	assert.True(t, m.Painted(23, 5))
	assert.False(t, m.Painted(14, 5))

	m.Clear()
	assert.Zero(t, m.Coverage())
}

func TestMaskOutOfBounds(t *testing.T) {
	m := NewMask(4, 4)
	m.Paint(Stroke{From: Point{0, 0}, To: Point{4, 4}, Radius: 10})
	assert.Equal(t, 16, m.Coverage())
	assert.False(t, m.Painted(-1, 0))
	assert.False(t, m.Painted(4, 0))
}

func TestMaskFromImageRejectsEmpty(t *testing.T) {
	_, err := MaskFromImage(image.NewRGBA(image.Rectangle{}))
	require.Error(t, err)
}

func TestNewMaskNegativeSize(t *testing.T) {
	m := NewMask(-5, 10)
	assert.Equal(t, 0, m.Width())
	assert.False(t, m.Painted(0, 0))

	_, err := Erase(pixbuf.New(4, 4), m, 5)
	assert.True(t, errors.Is(err, pixbuf.ErrProcessing))
}
