package karafuru

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func TestParseSharp(t *testing.T) {
	for text, expected := range map[string]NRGBColor{
		"#000000": {},
		"#FFFFFF": {255, 255, 255},
		"#ff8000": {255, 128, 0},
		"#12aB3c": {0x12, 0xab, 0x3c},
	} {
		c, err := ParseSharp(text)
		require.NoError(t, err, text)
		require.Equal(t, expected, c, text)
	}
	for _, text := range []string{"", "#", "#12345", "#1234567", "123456", "#12345g", " #123456", "#123456 "} {
		_, err := ParseSharp(text)
		require.ErrorIs(t, err, ErrInvalidHex, text)
	}
}

func TestNRGBColorFormatting(t *testing.T) {
	c := NRGBColor{0xab, 0x0c, 0xde}
	assert.Equal(t, "#AB0CDE", c.AsSharp())
	assert.Equal(t, "#ab0cde", c.AsHex())
	assert.Equal(t, "NRGBColor{AB 0C DE}", c.String())
	p, err := ParseSharp(c.AsSharp())
	require.NoError(t, err)
	require.Equal(t, c, p)
	r, g, b, a := c.RGBA()
	assert.Equal(t, []uint32{0xabab, 0x0c0c, 0xdede, 0xffff}, []uint32{r, g, b, a})
}

func TestNRGBFromUnit(t *testing.T) {
	testCases := []struct {
		r, g, b float64
		want    NRGBColor
	}{
		{0, 0, 0, NRGBColor{}},
		{1, 1, 1, NRGBColor{255, 255, 255}},
		{0.5, 0.25, 0.75, NRGBColor{128, 64, 191}},
		{-0.1, 1.2, 1.000000035, NRGBColor{0, 255, 255}},
		{math.NaN(), math.Inf(1), math.Inf(-1), NRGBColor{0, 255, 0}},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, NRGBFromUnit(tc.r, tc.g, tc.b), "%v %v %v", tc.r, tc.g, tc.b)
	}
	for i := range 256 {
		c := NRGBColor{uint8(i), uint8(255 - i), uint8(i / 2)}
		require.Equal(t, c, NRGBFromUnit(c.Unit()))
	}
}

func TestNRGBColorLCH(t *testing.T) {
	l, c, h := NRGBColor{255, 0, 0}.LCH()
	assert.Equal(t, []float64{54.3, 106.8, 40.9}, []float64{l, c, h})
	col, corrected := NRGBFromLCH(50, 0, 0)
	assert.False(t, corrected)
	assert.Equal(t, "#777777", col.AsHex())
	_, corrected = NRGBFromLCH(50, 132, 0)
	assert.True(t, corrected)
}

func TestNRGBImage(t *testing.T) {
	img := NewNRGB(image.Rect(-1, -1, 2, 3))
	require.Equal(t, 9, img.Stride)
	require.Len(t, img.Pix, 36)
	require.True(t, img.Opaque())
	img.SetNRGB(1, 2, NRGBColor{1, 2, 3})
	require.Equal(t, NRGBColor{1, 2, 3}, img.NRGBAt(1, 2))
	require.Equal(t, []uint8{1, 2, 3}, img.Pix[len(img.Pix)-3:])
	// out of bounds access is ignored
	img.SetNRGB(2, 2, NRGBColor{9, 9, 9})
	require.Equal(t, NRGBColor{}, img.NRGBAt(2, 2))

	// alpha is un-premultiplied and then dropped
	img.Set(0, 0, color.RGBA{0x40, 0x20, 0x00, 0x80})
	require.Equal(t, NRGBColor{0x7f, 0x3f, 0x00}, img.At(0, 0))
	img.Set(0, 0, color.Transparent)
	require.Equal(t, NRGBColor{}, img.At(0, 0))
	img.Set(0, 1, color.Gray{0x33})
	require.Equal(t, NRGBColor{0x33, 0x33, 0x33}, img.At(0, 1))

	sub := img.SubImage(image.Rect(1, 2, 5, 5)).(*NRGB)
	require.Equal(t, image.Rect(1, 2, 2, 3), sub.Bounds())
	require.Equal(t, NRGBColor{1, 2, 3}, sub.NRGBAt(1, 2))
	sub.SetNRGB(1, 2, NRGBColor{4, 5, 6})
	require.Equal(t, NRGBColor{4, 5, 6}, img.NRGBAt(1, 2))
	require.True(t, img.SubImage(image.Rect(10, 10, 12, 12)).Bounds().Empty())
	require.Equal(t, NRGBModel, img.ColorModel())
}
