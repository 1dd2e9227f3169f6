package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatNames(t *testing.T) {
	for ext, f := range FormatExts {
		require.NotEmpty(t, f.String(), ext)
		require.NotEqual(t, UNKNOWN, f)
	}
	require.Empty(t, UNKNOWN.String())
	for _, name := range []string{"jpeg", "png", "gif", "tiff", "webp", "bmp"} {
		f := FormatFromDecoderName(name)
		require.NotEqual(t, UNKNOWN, f, name)
	}
	require.Equal(t, PNG, FormatFromDecoderName("apng"))
	require.Equal(t, UNKNOWN, FormatFromDecoderName("pbm"))
	require.Equal(t, "PNG 3x4 frames=true orientation=6", Metadata{Format: PNG, PixelWidth: 3, PixelHeight: 4, HasFrames: true, Orientation: 6}.String())
}
