// Package termcolor decides whether to color terminal output and renders
// color swatches as ANSI escape codes.
package termcolor

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type ColorMode int

const (
	ModeAuto ColorMode = iota
	ModeAlways
	ModeNever
)

func (m ColorMode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	default:
		return "auto"
	}
}

func ParseMode(v string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return ModeAuto, nil
	case "always":
		return ModeAlways, nil
	case "never":
		return ModeNever, nil
	}
	return ModeAuto, fmt.Errorf("unknown color mode: %s", v)
}

// Profile is the range of colors a terminal can show
type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// EnvMap turns os.Environ() style entries into a map
func EnvMap(values []string) map[string]string {
	env := make(map[string]string, len(values))
	for _, entry := range values {
		if entry == "" {
			continue
		}
		k, v, _ := strings.Cut(entry, "=")
		env[k] = v
	}
	return env
}

// DetectMode resolves ModeAuto from the environment and stdout. The first
// match wins: TERM=dumb, NO_COLOR and CLICOLOR=0 disable colors,
// CLICOLOR_FORCE or FORCE_COLOR set to anything but 0 enable them, and
// otherwise colors are used only when stdout is a terminal.
func DetectMode(stdout *os.File, env map[string]string) ColorMode {
	if stdout == nil {
		return ModeNever
	}
	get := func(k string) string { return strings.TrimSpace(env[k]) }
	switch {
	case strings.EqualFold(get("TERM"), "dumb"), get("NO_COLOR") != "", get("CLICOLOR") == "0":
		return ModeNever
	case forceColor(get("CLICOLOR_FORCE")), forceColor(get("FORCE_COLOR")):
		return ModeAlways
	}
	if isTerminal(stdout) {
		return ModeAlways
	}
	return ModeNever
}

// Enabled reports whether to emit colors for the requested mode
func Enabled(mode ColorMode, stdout *os.File, env map[string]string) bool {
	if mode == ModeAuto {
		mode = DetectMode(stdout, env)
	}
	return mode == ModeAlways
}

// DetectProfile picks a Profile from COLORTERM and TERM
func DetectProfile(env map[string]string) Profile {
	ct := strings.ToLower(env["COLORTERM"])
	for _, x := range []string{"truecolor", "24bit", "24-bit"} {
		if strings.Contains(ct, x) {
			return ProfileTrueColor
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func forceColor(v string) bool {
	return v != "" && v != "0"
}

const reset = "\x1b[0m"

// cube_levels are the channel values of the 6x6x6 cube of the 256 color
// palette
var cube_levels = [6]int{0, 95, 135, 175, 215, 255}

func nearest_level(v uint8) int {
	best, dist := 0, 1<<30
	for i, l := range cube_levels {
		if d := abs(int(v) - l); d < dist {
			best, dist = i, d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ANSI256Index returns the index of the entry of the 256 color palette
// closest to the color, choosing between the color cube and the gray ramp
func ANSI256Index(r, g, b uint8) int {
	ri, gi, bi := nearest_level(r), nearest_level(g), nearest_level(b)
	cube := 16 + 36*ri + 6*gi + bi
	cube_dist := sq(int(r)-cube_levels[ri]) + sq(int(g)-cube_levels[gi]) + sq(int(b)-cube_levels[bi])
	avg := (int(r) + int(g) + int(b)) / 3
	gray_idx := max(0, min((avg-8+5)/10, 23))
	gv := 8 + 10*gray_idx
	gray_dist := sq(int(r)-gv) + sq(int(g)-gv) + sq(int(b)-gv)
	if gray_dist < cube_dist {
		return 232 + gray_idx
	}
	return cube
}

func sq(x int) int { return x * x }

// basic8 returns the index (0-7) of the nearest of the eight basic colors
func basic8(r, g, b uint8) int {
	bit := func(v uint8) int {
		if v >= 128 {
			return 1
		}
		return 0
	}
	return bit(r) | bit(g)<<1 | bit(b)<<2
}

// Background returns the escape code setting the background to the color,
// as closely as the profile allows
func Background(p Profile, r, g, b uint8) string {
	switch p {
	case ProfileTrueColor:
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
	case ProfileANSI256:
		return fmt.Sprintf("\x1b[48;5;%dm", ANSI256Index(r, g, b))
	}
	return fmt.Sprintf("\x1b[%dm", 40+basic8(r, g, b))
}

// Swatch returns width spaces drawn on a background of the color followed
// by a reset
func Swatch(p Profile, r, g, b uint8, width int) string {
	return Background(p, r, g, b) + strings.Repeat(" ", max(0, width)) + reset
}
