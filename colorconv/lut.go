package colorconv

import (
	"sync"
)

var encoded8ToLinearLUT = sync.OnceValue(func() (ans [256]float64) {
	for i := range ans {
		ans[i] = srgbToLinearComp(float64(i) / 255)
	}
	return
})

// From8Bit converts an 8-bit sRGB encoded value to a linear value between
// 0.0 and 1.0. The result is identical to Linearize applied to v/255.
func From8Bit(v uint8) float64 {
	return encoded8ToLinearLUT()[v]
}

// SRGB8ToLCH is SRGBToLCH for 8-bit channels, linearizing through a look-up
// table.
func SRGB8ToLCH(r, g, b uint8) (l, c, h float64) {
	X, Y, Z := LinearSRGBToXYZ(From8Bit(r), From8Bit(g), From8Bit(b))
	return roundLCH(LabToLCH(XYZToLab_D50(AdaptD65ToD50(X, Y, Z))))
}
