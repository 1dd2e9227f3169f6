package karafuru

import (
	"errors"
	"fmt"
	"image"

	"github.com/kovidgoyal/go-parallel"
)

var _ = fmt.Print

// ErrOutOfBounds is returned when sampling outside an image
var ErrOutOfBounds = errors.New("karafuru: point outside image bounds")

const (
	DefaultGrabRadius    = 7
	DefaultMagnification = 5
)

// PreviewBackground is the color of the preview before anything is grabbed
var PreviewBackground = NRGBColor{0x80, 0x80, 0x80}

// Picker picks colors from an image through a magnified preview of the
// region around the last grabbed point.
type Picker struct {
	Source        image.Image
	Radius        int // the grabbed region is 2*Radius+1 pixels square
	Magnification int

	preview *NRGB
}

func NewPicker(src image.Image) *Picker {
	return &Picker{Source: src, Radius: DefaultGrabRadius, Magnification: DefaultMagnification}
}

func (p *Picker) region_size() int { return 2*max(0, p.Radius) + 1 }

func (p *Picker) preview_size() int { return p.region_size() * max(1, p.Magnification) }

// Preview returns the magnified region captured by the last call to Grab.
// Before the first grab it is filled with PreviewBackground.
func (p *Picker) Preview() *NRGB {
	if p.preview == nil {
		sz := p.preview_size()
		p.preview = Swatch(PreviewBackground, sz, sz)
	}
	return p.preview
}

// Grab captures the region centred at (x, y) in the source into the
// preview, magnified with nearest neighbour sampling, and returns the color
// at the centre of the preview. Points of the region outside the source
// are black.
func (p *Picker) Grab(x, y int) (NRGBColor, error) {
	if p.Source == nil {
		return NRGBColor{}, fmt.Errorf("karafuru: picker has no source image")
	}
	r, mag := max(0, p.Radius), max(1, p.Magnification)
	sz := p.preview_size()
	b := p.Source.Bounds()
	preview := NewNRGB(image.Rect(0, 0, sz, sz))
	f := func(start, limit int) {
		for py := start; py < limit; py++ {
			sy := y - r + py/mag
			for px := range sz {
				sx := x - r + px/mag
				if image.Pt(sx, sy).In(b) {
					preview.SetNRGB(px, py, NRGBModel.Convert(p.Source.At(sx, sy)).(NRGBColor))
				}
			}
		}
	}
	if err := parallel.Run_in_parallel_over_range(0, f, 0, sz); err != nil {
		return NRGBColor{}, err
	}
	p.preview = preview
	ans := preview.NRGBAt(sz/2, sz/2)
	Logger().Debug("grabbed color", "x", x, "y", y, "color", ans.AsHex())
	return ans, nil
}

// PickPreview returns the color of the preview pixel at (x, y), with the
// point clamped into the preview.
func (p *Picker) PickPreview(x, y int) NRGBColor {
	pr := p.Preview()
	b := pr.Bounds()
	x = max(b.Min.X, min(x, b.Max.X-1))
	y = max(b.Min.Y, min(y, b.Max.Y-1))
	return pr.NRGBAt(x, y)
}

// SampleAt returns the color of a single pixel of img, with alpha
// un-premultiplied and dropped. The point is in the coordinate space of
// img.Bounds().
func SampleAt(img image.Image, x, y int) (NRGBColor, error) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return NRGBColor{}, fmt.Errorf("%w: (%d, %d) not in %v", ErrOutOfBounds, x, y, img.Bounds())
	}
	return NRGBModel.Convert(img.At(x, y)).(NRGBColor), nil
}
