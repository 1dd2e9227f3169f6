package karafuru

import (
	"fmt"
	"image"

	"github.com/kovidgoyal/go-parallel"
)

var _ = fmt.Print

const DefaultSwatchSize = 75

// Swatch returns a w x h image filled with c
func Swatch(c NRGBColor, w, h int) *NRGB {
	ans := NewNRGB(image.Rect(0, 0, max(0, w), max(0, h)))
	for i := 0; i+3 <= len(ans.Pix); i += 3 {
		ans.Pix[i], ans.Pix[i+1], ans.Pix[i+2] = c.R, c.G, c.B
	}
	return ans
}

// track_color returns the color at position t in [0, 1] along the track for
// field, with the other channels taken from s
func track_color(field Field, s State, t float64) NRGBColor {
	v := t * field.UpperLimit()
	switch field {
	case Red, Green, Blue:
		c := NRGBColor{uint8(s.Red), uint8(s.Green), uint8(s.Blue)}
		x := unit_to_8bit(t)
		switch field {
		case Red:
			c.R = x
		case Green:
			c.G = x
		default:
			c.B = x
		}
		return c
	case Lightness:
		c, _ := NRGBFromLCH(v, s.Chroma, s.Hue)
		return c
	case Chroma:
		c, _ := NRGBFromLCH(s.Lightness, v, s.Hue)
		return c
	default:
		c, _ := NRGBFromLCH(s.Lightness, s.Chroma, v)
		return c
	}
}

// SliderTrack renders a w x h horizontal gradient showing how the color
// changes as field sweeps from zero to its upper limit while the other
// channels keep their values in s. Colors outside the sRGB gamut are drawn
// after correction.
func SliderTrack(field Field, s State, w, h int) (*NRGB, error) {
	if field == Hex {
		return nil, fmt.Errorf("karafuru: no slider track for %s", field)
	}
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("karafuru: invalid slider track size %dx%d", w, h)
	}
	ans := NewNRGB(image.Rect(0, 0, w, h))
	f := func(start, limit int) {
		for x := start; x < limit; x++ {
			t := 0.
			if w > 1 {
				t = float64(x) / float64(w-1)
			}
			c := track_color(field, s, t)
			for y := range h {
				ans.SetNRGB(x, y, c)
			}
		}
	}
	err := parallel.Run_in_parallel_over_range(0, f, 0, w)
	return ans, err
}
