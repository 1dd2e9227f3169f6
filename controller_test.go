package karafuru

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func require_state(t *testing.T, want State, c *Controller) {
	t.Helper()
	if diff := cmp.Diff(want, c.State()); diff != "" {
		t.Fatalf("unexpected state (-want +got):\n%s", diff)
	}
}

func TestParseField(t *testing.T) {
	for i, name := range field_names {
		f, err := ParseField(name)
		require.NoError(t, err)
		require.Equal(t, Field(i), f)
		require.Equal(t, name, f.String())
	}
	for abbrev, expected := range map[string]Field{"r": Red, "G": Green, "b": Blue, "l": Lightness, "c": Chroma, " h ": Hue} {
		f, err := ParseField(abbrev)
		require.NoError(t, err)
		require.Equal(t, expected, f)
	}
	_, err := ParseField("x")
	require.Error(t, err)
	_, err = ParseField("saturation")
	require.Error(t, err)
	assert.Equal(t, "Field(42)", Field(42).String())
}

func TestFieldLimits(t *testing.T) {
	assert.Equal(t, 255.0, Red.UpperLimit())
	assert.Equal(t, 100.0, Lightness.UpperLimit())
	assert.Equal(t, 132.0, Chroma.UpperLimit())
	assert.Equal(t, 360.0, Hue.UpperLimit())
	assert.Equal(t, 0.0, Hex.UpperLimit())
	assert.True(t, Blue.IsRGB())
	assert.False(t, Blue.IsLCH())
	assert.True(t, Hue.IsLCH())
	assert.False(t, Hex.IsRGB() || Hex.IsLCH())
}

func TestControllerRGB(t *testing.T) {
	c := NewController()
	require_state(t, State{Hex: "#000000"}, c)
	c.SetRGB(Red, 255)
	require_state(t, State{Hex: "#ff0000", Red: 255, Lightness: 54.3, Chroma: 106.8, Hue: 40.9}, c)
	c.SetRGB(Red, 1000)
	require.Equal(t, 255, c.State().Red)
	c.SetRGB(Red, 200)
	require_state(t, State{Hex: "#c80000", Red: 200, Lightness: 42.5, Chroma: 89, Hue: 40.9}, c)
	c.SetRGB(Red, -3)
	require_state(t, State{Hex: "#000000"}, c)
	c.SetRGB(Hue, 10) // not an RGB field
	require_state(t, State{Hex: "#000000"}, c)
}

func TestControllerLCH(t *testing.T) {
	c := NewController()
	c.SetLCH(Lightness, 50)
	require_state(t, State{Hex: "#777777", Red: 119, Green: 119, Blue: 119, Lightness: 50}, c)
	c.SetLCH(Chroma, 30)
	require_state(t, State{Hex: "#a66278", Red: 166, Green: 98, Blue: 120, Lightness: 50, Chroma: 30}, c)
	c.SetLCH(Chroma, 500)
	require_state(t, State{
		Hex: "#e4007b", Red: 228, Green: 0, Blue: 123, Lightness: 50, Chroma: 132, Warning: CorrectionWarning}, c)
	// any successful update clears the warning
	c.SetLCH(Chroma, 30)
	require.Empty(t, c.State().Warning)
	c.SetLCH(Chroma, 132)
	require.Equal(t, CorrectionWarning, c.State().Warning)
	c.SetRGB(Green, 0)
	require.Empty(t, c.State().Warning)
	c.SetLCH(Red, 10) // not an LCH field
	require.Equal(t, 0, c.State().Green)
}

func TestControllerHex(t *testing.T) {
	c := NewController()
	c.SetHex("#33669")
	require_state(t, State{Hex: "#33669"}, c)
	c.SetHex("#336699")
	require_state(t, State{Hex: "#336699", Red: 51, Green: 102, Blue: 153, Lightness: 41.5, Chroma: 33.8, Hue: 262.2}, c)
	c.SetHex("#FFA500")
	require_state(t, State{Hex: "#FFA500", Red: 255, Green: 165, Lightness: 75.6, Chroma: 83.8, Hue: 70.8}, c)
	c.SetColor(NRGBColor{51, 102, 153})
	require.Equal(t, "#336699", c.State().Hex)
}

func TestControllerValidate(t *testing.T) {
	testCases := []struct {
		field    Field
		text     string
		accepted bool
	}{
		{Red, "", true},
		{Red, "12", true},
		{Red, "300", true},
		{Red, "-1", false},
		{Red, "1.5", false},
		{Red, "0x10", false},
		{Lightness, "", true},
		{Lightness, "50", true},
		{Lightness, "50.", true},
		{Lightness, "50.5", true},
		{Lightness, "50.55", false},
		{Lightness, ".5", false},
		{Hue, "1e3", false},
		{Hex, "", true},
		{Hex, "#", true},
		{Hex, "#abc", true},
		{Hex, "#ABCDEF", true},
		{Hex, "#abcdef0", false},
		{Hex, "abcdef", false},
		{Hex, "#ghijkl", false},
		{Field(-1), "1", false},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s=%q", tc.field, tc.text), func(t *testing.T) {
			c := NewController()
			c.SetRGB(Green, 10)
			before := c.State()
			require.Equal(t, tc.accepted, c.Validate(tc.field, tc.text))
			if !tc.accepted {
				require_state(t, before, c)
			}
		})
	}
}

func TestControllerValidateApplies(t *testing.T) {
	c := NewController()
	require.True(t, c.Validate(Red, "300"))
	require.Equal(t, 255, c.State().Red)
	require.Equal(t, "#ff0000", c.State().Hex)
	require.True(t, c.Validate(Red, "99999999999999999999999"))
	require.Equal(t, 255, c.State().Red)
	require.True(t, c.Validate(Red, "0"))
	require_state(t, State{Hex: "#000000"}, c)

	require.True(t, c.Validate(Lightness, "50"))
	require.True(t, c.Validate(Chroma, "30."))
	require.Equal(t, "#a66278", c.State().Hex)
	require.True(t, c.Validate(Hue, "400"))
	require.Equal(t, 360.0, c.State().Hue)

	// empty text reads as zero without touching the other fields
	before := c.State()
	require.True(t, c.Validate(Chroma, ""))
	before.Chroma = 0
	require_state(t, before, c)
	require.True(t, c.Validate(Red, ""))
	before.Red = 0
	require_state(t, before, c)

	require.True(t, c.Validate(Hex, "#3366"))
	require.Equal(t, "#3366", c.State().Hex)
	require.Equal(t, before.Green, c.State().Green)
	require.True(t, c.Validate(Hex, "#336699"))
	require.Equal(t, 153, c.State().Blue)
}

func TestControllerUpdateLock(t *testing.T) {
	c := NewController()
	var seen []State
	c.OnChange = func(s State) {
		seen = append(seen, s)
		// a UI binding echoing the change back must not recurse
		c.SetRGB(Red, s.Red+1)
		c.SetHex("#ffffff")
		require.False(t, c.Validate(Red, "x"))
	}
	c.SetRGB(Red, 10)
	require.Len(t, seen, 1)
	require.Equal(t, 10, c.State().Red)
	require.Equal(t, "#0a0000", c.State().Hex)
	require.False(t, c.update_lock)
	c.SetLCH(Lightness, 50)
	require.Len(t, seen, 2)
	require.Equal(t, 50.0, seen[1].Lightness)
	require.Equal(t, c.State(), seen[1])
}
