// Package colorconv converts between gamma encoded sRGB (D65) and CIE LCH,
// the polar form of CIE L*a*b* relative to the D50 white point.
//
// The forward chain is sRGB -> linear sRGB -> XYZ(D65) -> XYZ(D50) -> Lab ->
// LCH and the inverse chain runs the same stages backwards. Chromatic
// adaptation uses fixed Bradford matrices. Converting LCH back to sRGB does
// a simple gamut correction: when the result falls outside the [0,1] cube,
// chroma is reduced by binary search, keeping lightness and hue fixed, until
// the color fits.
//
// Every function here is pure and safe for concurrent use.
package colorconv

import (
	"math"
	"strconv"
)

type Vec3 [3]float64
type Mat3 [3][3]float64

// Standard reference whites (CIE XYZ) normalized so Y = 1.0. Lab is always
// computed relative to whiteD50.
var (
	whiteD50 = Vec3{0.96422, 1.00000, 0.82521}
	whiteD65 = Vec3{0.95047, 1.00000, 1.08883}
)

// sRGB primaries, from http://www.brucelindbloom.com/index.html?Eqn_RGB_XYZ_Matrix.html
var (
	linearSRGBToXYZ = Mat3{
		{0.4124564, 0.3575761, 0.1804375},
		{0.2126729, 0.7151522, 0.0721750},
		{0.0193339, 0.1191920, 0.9503041},
	}
	xyzToLinearSRGB = Mat3{
		{3.2404542, -1.5371385, -0.4985314},
		{-0.9692660, 1.8760108, 0.0415560},
		{0.0556434, -0.2040259, 1.0572252},
	}
)

// Bradford chromatic adaptation between the D65 and D50 whites.
var (
	d65ToD50 = Mat3{
		{1.0478112, 0.0228866, -0.0501270},
		{0.0295424, 0.9904844, -0.0170491},
		{-0.0092345, 0.0150436, 0.7521316},
	}
	d50ToD65 = Mat3{
		{0.9555766, -0.0230393, 0.0631636},
		{-0.0282895, 1.0099416, 0.0210077},
		{0.0122982, -0.0204830, 1.3299098},
	}
)

// Bradford cone response matrices, used only by bradfordAdaptation
var (
	bradford = Mat3{
		{0.8951, 0.2664, -0.1614},
		{-0.7502, 1.7135, 0.0367},
		{0.0389, -0.0685, 1.0296},
	}
	invBradford = Mat3{
		{0.9869929, -0.1470543, 0.1599627},
		{0.4323053, 0.5183603, 0.0492912},
		{-0.0085287, 0.0400428, 0.9684867},
	}
)

// CIE constants in their exact rational form
const (
	labEpsilon = 216.0 / 24389.0 // (6/29)^3
	labKappa   = 24389.0 / 27.0  // (29/3)^3
)

// Chroma tolerance at which the gamut correction search stops
const ChromaTolerance = 0.01

// Enough probes to bisect any finite float64 chroma down to ChromaTolerance
const maxChromaProbes = 1100

// Public API

// SRGBToLCH converts gamma encoded sRGB components in [0,1] to CIE LCH
// (D50). The result is rounded to one decimal place. The input is not
// validated, out of range values are pushed through the same formulas.
func SRGBToLCH(r, g, b float64) (l, c, h float64) {
	return roundLCH(srgbToLCH(r, g, b))
}

func roundLCH(l, c, h float64) (float64, float64, float64) {
	l, c, h = roundTo(l, 1), roundTo(c, 1), roundTo(h, 1)
	if h >= 360 {
		// hues in [359.95, 360) round up to 360
		h -= 360
	}
	return l, c, h
}

// LCHToSRGB converts a CIE LCH (D50) color to gamma encoded sRGB. If the
// color is outside the sRGB gamut, chroma is reduced until it fits and
// corrected is set. Components are rounded to 10 decimal places to suppress
// floating point noise.
func LCHToSRGB(l, c, h float64) (r, g, b float64, corrected bool) {
	r, g, b = lchToSRGBNoGamutMap(l, c, h)
	if !InGamut(r, g, b) {
		corrected = true
		r, g, b = lchToSRGBNoGamutMap(l, searchChroma(l, c, h, nil), h)
	}
	return roundTo(r, 10), roundTo(g, 10), roundTo(b, 10), corrected
}

// LabToSRGB converts a CIE Lab (D50) color to sRGB with the same gamut
// correction as LCHToSRGB.
func LabToSRGB(L, a, b float64) (r, g, bl float64, corrected bool) {
	return LCHToSRGB(LabToLCH(L, a, b))
}

// InGamut reports whether all three components lie in [0,1]
func InGamut(r, g, b float64) bool {
	return r >= 0 && g >= 0 && b >= 0 && r <= 1 && g <= 1 && b <= 1
}

// Pipeline stages

// Linearize removes the sRGB companding curve from each component.
func Linearize(r, g, b float64) (rl, gl, bl float64) {
	return srgbToLinearComp(r), srgbToLinearComp(g), srgbToLinearComp(b)
}

// GammaEncode applies the sRGB companding curve to each linear component.
func GammaEncode(rl, gl, bl float64) (r, g, b float64) {
	return linearToSRGBComp(rl), linearToSRGBComp(gl), linearToSRGBComp(bl)
}

// LinearSRGBToXYZ converts linear sRGB to CIE XYZ relative to D65.
func LinearSRGBToXYZ(r, g, b float64) (X, Y, Z float64) {
	return mulMat3Vec(linearSRGBToXYZ, Vec3{r, g, b})
}

// XYZToLinearSRGB converts CIE XYZ relative to D65 to linear sRGB. The
// output may lie outside [0,1].
func XYZToLinearSRGB(X, Y, Z float64) (r, g, b float64) {
	return mulMat3Vec(xyzToLinearSRGB, Vec3{X, Y, Z})
}

// AdaptD65ToD50 adapts XYZ from the D65 white to the D50 white.
func AdaptD65ToD50(X, Y, Z float64) (float64, float64, float64) {
	return mulMat3Vec(d65ToD50, Vec3{X, Y, Z})
}

// AdaptD50ToD65 adapts XYZ from the D50 white to the D65 white.
func AdaptD50ToD65(X, Y, Z float64) (float64, float64, float64) {
	return mulMat3Vec(d50ToD65, Vec3{X, Y, Z})
}

func ff(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

// XYZToLab_D50 converts XYZ (relative to D50, Y=1) into CIELAB (D50).
func XYZToLab_D50(X, Y, Z float64) (L, a, b float64) {
	// Normalize by D50 white
	fx := ff(X / whiteD50[0])
	fy := ff(Y / whiteD50[1])
	fz := ff(Z / whiteD50[2])

	L = 116*fy - 16
	a = 500 * (fx - fy)
	b = 200 * (fy - fz)
	return
}

func finv(f float64) float64 {
	if f3 := f * f * f; f3 > labEpsilon {
		return f3
	}
	return (116*f - 16) / labKappa
}

// LabToXYZ_D50 converts Lab (D50) to CIE XYZ values relative to the D50
// whitepoint (Y=1). Y is decided on L directly while X and Z are decided on
// the cube of f, which is the CIE split and not an accident.
func LabToXYZ_D50(L, a, b float64) (X, Y, Z float64) {
	fy := (L + 16) / 116
	fx := a/500 + fy
	fz := fy - b/200

	var yr float64
	if L > labKappa*labEpsilon {
		yr = fy * fy * fy
	} else {
		yr = L / labKappa
	}
	X = finv(fx) * whiteD50[0]
	Y = yr * whiteD50[1]
	Z = finv(fz) * whiteD50[2]
	return
}

// LabToLCH converts Lab to its polar form. Hue is in degrees in [0,360).
func LabToLCH(L, a, b float64) (l, c, h float64) {
	h = math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return L, math.Sqrt(a*a + b*b), h
}

// LCHToLab converts polar LCH back to Lab.
func LCHToLab(l, c, h float64) (L, a, b float64) {
	hr := h * math.Pi / 180
	return l, c * math.Cos(hr), c * math.Sin(hr)
}

// Helpers: composed chains

func srgbToLCH(r, g, b float64) (l, c, h float64) {
	X, Y, Z := LinearSRGBToXYZ(Linearize(r, g, b))
	return LabToLCH(XYZToLab_D50(AdaptD65ToD50(X, Y, Z)))
}

// lchToSRGBNoGamutMap runs the inverse chain without any gamut correction.
// Values may be out of [0,1].
func lchToSRGBNoGamutMap(l, c, h float64) (r, g, b float64) {
	X, Y, Z := LabToXYZ_D50(LCHToLab(l, c, h))
	return GammaEncode(XYZToLinearSRGB(AdaptD50ToD65(X, Y, Z)))
}

// searchChroma finds, by binary search, the largest chroma (within
// ChromaTolerance) at which the color with lightness l and hue h is inside
// the sRGB gamut. observe, if not nil, is called with the bracket after
// every probe.
func searchChroma(l, c, h float64, observe func(lower, upper float64)) float64 {
	lower, upper := 0.0, c
	chroma := c / 2
	for i := 0; upper-lower > ChromaTolerance && i < maxChromaProbes; i++ {
		if InGamut(lchToSRGBNoGamutMap(l, chroma, h)) {
			lower = chroma
		} else {
			upper = chroma
		}
		if observe != nil {
			observe(lower, upper)
		}
		chroma = (lower + upper) / 2
	}
	return lower
}

// srgbToLinearComp removes sRGB companding from a single component
func srgbToLinearComp(v float64) float64 {
	if v < 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// linearToSRGBComp applies the sRGB (gamma) companding function to a linear component.
func linearToSRGBComp(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

// roundTo rounds v to the given number of decimal places, correctly rounded
// half to even on the exact binary value.
func roundTo(v float64, places int) float64 {
	ans, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return ans
}

// Matrix & vector utilities

func mulMat3(a, b Mat3) Mat3 {
	var out Mat3
	for i := range 3 {
		for j := range 3 {
			sum := 0.0
			for k := range 3 {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func mulMat3Vec(m Mat3, v Vec3) (x, y, z float64) {
	x = m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2]
	y = m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2]
	z = m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2]
	return
}

// bradfordAdaptation constructs a 3x3 matrix that adapts XYZ values
// from sourceWhite to targetWhite using the Bradford method.
func bradfordAdaptation(sourceWhite, targetWhite Vec3) Mat3 {
	// Convert whites to LMS using Bradford
	srcL, srcM, srcS := mulMat3Vec(bradford, sourceWhite)
	tgtL, tgtM, tgtS := mulMat3Vec(bradford, targetWhite)
	diag := Mat3{
		{tgtL / srcL, 0, 0},
		{0, tgtM / srcM, 0},
		{0, 0, tgtS / srcS},
	}
	// adapt = invBradford * diag * bradford
	return mulMat3(invBradford, mulMat3(diag, bradford))
}
