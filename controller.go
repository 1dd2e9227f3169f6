package karafuru

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var _ = fmt.Print

// Field identifies one of the editable values of a Controller
type Field int

const (
	Hex Field = iota
	Red
	Green
	Blue
	Lightness
	Chroma
	Hue
)

var field_names = [...]string{"hex", "red", "green", "blue", "lightness", "chroma", "hue"}

func (f Field) String() string {
	if f < 0 || int(f) >= len(field_names) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return field_names[f]
}

// ParseField returns the Field with the specified name. Single letter
// abbreviations (r, g, b, l, c, h) are accepted too.
func ParseField(name string) (Field, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, x := range field_names {
		if name == x || (len(name) == 1 && x != "hex" && name[0] == x[0]) {
			return Field(i), nil
		}
	}
	return Hex, fmt.Errorf("unknown field: %q", name)
}

func (f Field) IsRGB() bool { return f == Red || f == Green || f == Blue }
func (f Field) IsLCH() bool { return f == Lightness || f == Chroma || f == Hue }

// UpperLimit is the largest value accepted for the field, larger values are
// clamped to it. Zero for Hex.
func (f Field) UpperLimit() float64 {
	switch f {
	case Red, Green, Blue:
		return 255
	case Lightness:
		return 100
	case Chroma:
		return 132
	case Hue:
		return 360
	}
	return 0
}

// CorrectionWarning is the warning shown when an LCH color had to be
// brought into the sRGB gamut
const CorrectionWarning = "Color has been auto-corrected to RGB boundaries."

var (
	int_pat   = regexp.MustCompile(`^$|^\d+$`)
	float_pat = regexp.MustCompile(`^$|^\d+\.?\d?$`)
	hex_pat   = regexp.MustCompile(`^$|^#[\da-fA-F]{0,6}$`)
)

// State is a snapshot of all values shown to the user
type State struct {
	Hex                    string
	Red, Green, Blue       int
	Lightness, Chroma, Hue float64
	Warning                string
}

// Color returns the RGB values of the state as an NRGBColor
func (s State) Color() NRGBColor {
	return NRGBColor{uint8(s.Red), uint8(s.Green), uint8(s.Blue)}
}

func (s *State) rgb(f Field) *int {
	switch f {
	case Red:
		return &s.Red
	case Green:
		return &s.Green
	case Blue:
		return &s.Blue
	}
	return nil
}

func (s *State) lch(f Field) *float64 {
	switch f {
	case Lightness:
		return &s.Lightness
	case Chroma:
		return &s.Chroma
	case Hue:
		return &s.Hue
	}
	return nil
}

func (s *State) set_color(c NRGBColor) {
	s.Red, s.Green, s.Blue = int(c.R), int(c.G), int(c.B)
}

// Controller holds the values of a color editor with hex, RGB and LCH
// fields and keeps them consistent as any one of them is edited. It is not
// safe for concurrent use.
type Controller struct {
	state State
	// set while a change is being propagated to the other fields, updates
	// arriving then (for example from OnChange) are dropped
	update_lock bool

	// OnChange, if not nil, is called with the new state after every
	// applied update
	OnChange func(State)
}

func NewController() *Controller {
	return &Controller{state: State{Hex: "#000000"}}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) apply(f func(s *State)) bool {
	if c.update_lock {
		Logger().Debug("dropping re-entrant update")
		return false
	}
	c.update_lock = true
	defer func() { c.update_lock = false }()
	f(&c.state)
	if c.OnChange != nil {
		c.OnChange(c.state)
	}
	return true
}

// SetRGB sets one of the RGB fields, clamped to [0, 255], and updates hex
// and LCH to match.
func (c *Controller) SetRGB(field Field, v int) {
	p := c.state.rgb(field)
	if p == nil {
		return
	}
	v = max(0, min(v, int(field.UpperLimit())))
	c.apply(func(s *State) {
		*s.rgb(field) = v
		s.Warning = ""
		col := s.Color()
		s.Hex = col.AsHex()
		s.Lightness, s.Chroma, s.Hue = col.LCH()
	})
}

// SetLCH sets one of the LCH fields, clamped to [0, limit], and updates RGB
// and hex to match. If the color is outside the sRGB gamut the RGB values
// come from the gamut corrected color and the warning is set. The LCH
// fields keep the values that were entered.
func (c *Controller) SetLCH(field Field, v float64) {
	p := c.state.lch(field)
	if p == nil {
		return
	}
	v = max(0, min(v, field.UpperLimit()))
	c.apply(func(s *State) {
		*s.lch(field) = v
		s.Warning = ""
		col, corrected := NRGBFromLCH(s.Lightness, s.Chroma, s.Hue)
		if corrected {
			s.Warning = CorrectionWarning
			Logger().Debug("gamut corrected", "lightness", s.Lightness, "chroma", s.Chroma, "hue", s.Hue, "rgb", col.AsHex())
		}
		s.set_color(col)
		s.Hex = col.AsHex()
	})
}

// SetHex sets the hex text. Only a complete #rrggbb value updates the other
// fields, partial text is stored as is.
func (c *Controller) SetHex(text string) {
	col, err := ParseSharp(text)
	c.apply(func(s *State) {
		s.Hex = text
		if err != nil {
			return
		}
		s.Warning = ""
		s.set_color(col)
		s.Lightness, s.Chroma, s.Hue = col.LCH()
	})
}

// SetColor sets all fields from an RGB color, as a color picker would
func (c *Controller) SetColor(col NRGBColor) {
	c.SetHex(col.AsHex())
}

// Validate checks text typed into a field. Text that cannot become a valid
// value is rejected and nothing changes. Accepted, non-empty text is
// applied to the field, clamped to its upper limit, and propagated to the
// other fields. Empty text reads as zero but is not propagated.
func (c *Controller) Validate(field Field, text string) bool {
	var pat *regexp.Regexp
	switch {
	case field == Hex:
		pat = hex_pat
	case field.IsLCH():
		pat = float_pat
	case field.IsRGB():
		pat = int_pat
	default:
		return false
	}
	if !pat.MatchString(text) {
		Logger().Debug("rejected input", "field", field, "text", text)
		return false
	}
	switch {
	case field == Hex:
		c.SetHex(text)
	case text == "":
		c.apply(func(s *State) {
			if p := s.rgb(field); p != nil {
				*p = 0
			} else {
				*s.lch(field) = 0
			}
		})
	case field.IsRGB():
		v, err := strconv.Atoi(text)
		if err != nil {
			// too many digits to fit in an int, which is still over the limit
			v = int(field.UpperLimit())
		}
		c.SetRGB(field, v)
	default:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			v = field.UpperLimit()
		}
		c.SetLCH(field, v)
	}
	return true
}
