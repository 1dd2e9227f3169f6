package karafuru

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

// small_image is a 3x2 image with pixels numbered 1..6 in the red channel
//
//	1 2 3
//	4 5 6
func small_image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(-1, -1, 2, 1))
	n := uint8(1)
	for y := -1; y < 1; y++ {
		for x := -1; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{n, 0, 0, 0xff})
			n++
		}
	}
	return img
}

func red_grid(img image.Image) [][]uint8 {
	b := img.Bounds()
	ans := make([][]uint8, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := make([]uint8, 0, b.Dx())
		for x := b.Min.X; x < b.Max.X; x++ {
			row = append(row, color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA).R)
		}
		ans = append(ans, row)
	}
	return ans
}

func TestFixOrientation(t *testing.T) {
	testCases := []struct {
		o    orientation
		want [][]uint8
	}{
		{orientationUnspecified, [][]uint8{{1, 2, 3}, {4, 5, 6}}},
		{orientationNormal, [][]uint8{{1, 2, 3}, {4, 5, 6}}},
		{orientationFlipH, [][]uint8{{3, 2, 1}, {6, 5, 4}}},
		{orientationRotate180, [][]uint8{{6, 5, 4}, {3, 2, 1}}},
		{orientationFlipV, [][]uint8{{4, 5, 6}, {1, 2, 3}}},
		{orientationTranspose, [][]uint8{{1, 4}, {2, 5}, {3, 6}}},
		{orientationRotate270, [][]uint8{{4, 1}, {5, 2}, {6, 3}}},
		{orientationTransverse, [][]uint8{{6, 3}, {5, 2}, {4, 1}}},
		{orientationRotate90, [][]uint8{{3, 6}, {2, 5}, {1, 4}}},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("orientation-%d", tc.o), func(t *testing.T) {
			src := small_image()
			img, err := fixOrientation(src, tc.o)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, red_grid(img)); diff != "" {
				t.Fatalf("unexpected pixels (-want +got):\n%s", diff)
			}
			require.Equal(t, tc.o.swapsAxes(), img.Bounds().Dx() == 2)
			// the source is never modified
			require.Equal(t, [][]uint8{{1, 2, 3}, {4, 5, 6}}, red_grid(src))
		})
	}
}

func TestRemapEmpty(t *testing.T) {
	img, err := rotate90(image.NewNRGBA(image.Rect(0, 0, 0, 5)))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 5, 0), img.Bounds())
}
