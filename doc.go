/*
Package karafuru converts colors between sRGB, hex and CIE LCH, keeping the
three representations of a color editor consistent as any one of them is
edited.

LCH colors that fall outside the sRGB gamut are brought back in by reducing
their chroma while keeping lightness and hue, see [colorconv.LCHToSRGB].
Colors can also be picked from images, through a magnified preview of the
region around the picked point, and rendered as swatches and slider tracks.
*/
package karafuru

import "fmt"

type KarafuruVersion struct {
	Major, Minor, Patch uint
}

func (v KarafuruVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v KarafuruVersion) Equal(o KarafuruVersion) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

func (v KarafuruVersion) After(o KarafuruVersion) bool {
	switch {
	case v.Major != o.Major:
		return v.Major > o.Major
	case v.Minor != o.Minor:
		return v.Minor > o.Minor
	}
	return v.Patch > o.Patch
}

func (v KarafuruVersion) Before(o KarafuruVersion) bool {
	return !v.Equal(o) && !v.After(o)
}

var Version = KarafuruVersion{0, 1, 0}
