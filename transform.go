package karafuru

import (
	"fmt"
	"image"
	"image/color"

	"github.com/kovidgoyal/go-parallel"
)

var _ = fmt.Print

// remap builds a new width x height image where the pixel at (x, y) is read
// from src at the position returned by from(x, y), relative to the origin
// of src.
func remap(src image.Image, width, height int, from func(x, y int) (int, int)) (*image.NRGBA, error) {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return dst, nil
	}
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+4*width : y*dst.Stride+4*width]
			for x := range width {
				sx, sy := from(x, y)
				c := color.NRGBAModel.Convert(src.At(b.Min.X+sx, b.Min.Y+sy)).(color.NRGBA)
				s := row[4*x : 4*x+4 : 4*x+4]
				s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
			}
		}
	}
	err := parallel.Run_in_parallel_over_range(0, f, 0, height)
	return dst, err
}

// flipH flips the image horizontally (from left to right).
func flipH(img image.Image) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return remap(img, w, h, func(x, y int) (int, int) { return w - 1 - x, y })
}

// flipV flips the image vertically (from top to bottom).
func flipV(img image.Image) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return remap(img, w, h, func(x, y int) (int, int) { return x, h - 1 - y })
}

// rotate180 rotates the image 180 degrees counter-clockwise.
func rotate180(img image.Image) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return remap(img, w, h, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y })
}

// rotate90 rotates the image 90 degrees counter-clockwise.
func rotate90(img image.Image) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return remap(img, h, w, func(x, y int) (int, int) { return w - 1 - y, x })
}

// rotate270 rotates the image 270 degrees counter-clockwise.
func rotate270(img image.Image) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return remap(img, h, w, func(x, y int) (int, int) { return y, h - 1 - x })
}

// transpose flips the image horizontally and rotates 90 degrees counter-clockwise.
func transpose(img image.Image) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return remap(img, h, w, func(x, y int) (int, int) { return y, x })
}

// transverse flips the image vertically and rotates 90 degrees counter-clockwise.
func transverse(img image.Image) (*image.NRGBA, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return remap(img, h, w, func(x, y int) (int, int) { return w - 1 - y, h - 1 - x })
}

// orientation is an EXIF flag that specifies the transformation
// that should be applied to image to display it correctly.
type orientation int

const (
	orientationUnspecified = 0
	orientationNormal      = 1
	orientationFlipH       = 2
	orientationRotate180   = 3
	orientationFlipV       = 4
	orientationTranspose   = 5
	orientationRotate270   = 6
	orientationTransverse  = 7
	orientationRotate90    = 8
)

// swapsAxes reports whether applying o exchanges width and height
func (o orientation) swapsAxes() bool {
	switch o {
	case orientationRotate90, orientationRotate270, orientationTranspose, orientationTransverse:
		return true
	}
	return false
}

// fixOrientation applies a transform to img corresponding to the given orientation flag.
func fixOrientation(img image.Image, o orientation) (image.Image, error) {
	var t func(image.Image) (*image.NRGBA, error)
	switch o {
	case orientationFlipH:
		t = flipH
	case orientationFlipV:
		t = flipV
	case orientationRotate90:
		t = rotate90
	case orientationRotate180:
		t = rotate180
	case orientationRotate270:
		t = rotate270
	case orientationTranspose:
		t = transpose
	case orientationTransverse:
		t = transverse
	default:
		return img, nil
	}
	return t(img)
}
