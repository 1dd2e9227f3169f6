package karafuru

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"regexp"
	"strconv"

	"github.com/kovidgoyal/karafuru/colorconv"
)

var _ = fmt.Print

// ErrInvalidHex is returned when a string is not of the form #rrggbb
var ErrInvalidHex = errors.New("karafuru: invalid hex color")

var hex_strict_pat = regexp.MustCompile(`^#([\da-fA-F]{2})([\da-fA-F]{2})([\da-fA-F]{2})$`)

type NRGBColor struct {
	R, G, B uint8
}

func (c NRGBColor) AsSharp() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// AsHex is like AsSharp but uses lower case digits
func (c NRGBColor) AsHex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c NRGBColor) String() string {
	return fmt.Sprintf("NRGBColor{%02X %02X %02X}", c.R, c.G, c.B)
}

func (c NRGBColor) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 65535 // (255 << 8 | 255)
	return
}

// Unit returns the channels scaled to [0, 1]
func (c NRGBColor) Unit() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// LCH returns the color in CIE LCH, rounded to one decimal place
func (c NRGBColor) LCH() (l, ch, h float64) {
	return colorconv.SRGB8ToLCH(c.R, c.G, c.B)
}

// ParseSharp parses a color of the form #rrggbb, either case.
func ParseSharp(s string) (ans NRGBColor, err error) {
	m := hex_strict_pat.FindStringSubmatch(s)
	if m == nil {
		return ans, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	var parts [3]uint8
	for i, x := range m[1:] {
		v, err := strconv.ParseUint(x, 16, 8)
		if err != nil {
			return ans, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
		parts[i] = uint8(v)
	}
	return NRGBColor{parts[0], parts[1], parts[2]}, nil
}

func unit_to_8bit(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(max(0, min(math.RoundToEven(v*255), 255)))
}

// NRGBFromUnit converts channels in [0, 1] to 8 bits, rounding half to even.
// Values outside [0, 1] are clamped.
func NRGBFromUnit(r, g, b float64) NRGBColor {
	return NRGBColor{unit_to_8bit(r), unit_to_8bit(g), unit_to_8bit(b)}
}

// NRGBFromLCH converts a CIE LCH color to 8 bit sRGB, reporting whether
// the color had to be corrected to fit in the sRGB gamut.
func NRGBFromLCH(l, c, h float64) (NRGBColor, bool) {
	r, g, b, corrected := colorconv.LCHToSRGB(l, c, h)
	return NRGBFromUnit(r, g, b), corrected
}

// NRGB is an in-memory image whose At method returns NRGBColor values.
type NRGB struct {
	// Pix holds the image's pixels, in R, G, B order. The pixel at
	// (x, y) starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

func nrgbModel(c color.Color) color.Color {
	if _, ok := c.(NRGBColor); ok {
		return c
	}
	return nrgb_from_rgba(c.RGBA())
}

// nrgb_from_rgba un-premultiplies a 16 bit per channel color and drops
// alpha
func nrgb_from_rgba(r, g, b, a uint32) NRGBColor {
	switch a {
	case 0xffff:
		return NRGBColor{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	case 0:
		return NRGBColor{0, 0, 0}
	default:
		// Since Color.RGBA returns an alpha-premultiplied color, we should have r <= a && g <= a && b <= a.
		r = (r * 0xffff) / a
		g = (g * 0xffff) / a
		b = (b * 0xffff) / a
		return NRGBColor{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
}

var NRGBModel color.Model = color.ModelFunc(nrgbModel)

func (p *NRGB) ColorModel() color.Model { return NRGBModel }

func (p *NRGB) Bounds() image.Rectangle { return p.Rect }

func (p *NRGB) At(x, y int) color.Color {
	return p.NRGBAt(x, y)
}

func (p *NRGB) NRGBAt(x, y int) NRGBColor {
	if !(image.Point{x, y}.In(p.Rect)) {
		return NRGBColor{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3] // Small cap improves performance, see https://golang.org/issue/27857
	return NRGBColor{s[0], s[1], s[2]}
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *NRGB) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

func (p *NRGB) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.SetNRGB(x, y, NRGBModel.Convert(c).(NRGBColor))
}

func (p *NRGB) SetNRGB(x, y int, c NRGBColor) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3] // Small cap improves performance, see https://golang.org/issue/27857
	s[0] = c.R
	s[1] = c.G
	s[2] = c.B
}

// SubImage returns an image representing the portion of the image p visible
// through r. The returned value shares pixels with the original image.
func (p *NRGB) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	// If r1 and r2 are Rectangles, r1.Intersect(r2) is not guaranteed to be inside
	// either r1 or r2 if the intersection is empty. Without explicitly checking for
	// this, the Pix[i:] expression below can panic.
	if r.Empty() {
		return &NRGB{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &NRGB{
		Pix:    p.Pix[i:],
		Stride: p.Stride,
		Rect:   r,
	}
}

// Opaque scans the entire image and reports whether it is fully opaque.
func (p *NRGB) Opaque() bool { return true }

func NewNRGB(r image.Rectangle) *NRGB {
	return &NRGB{
		Pix:    make([]uint8, 3*r.Dx()*r.Dy()),
		Stride: 3 * r.Dx(),
		Rect:   r,
	}
}
