package types

import (
	"fmt"
)

var _ = fmt.Print

// Format is an image file format.
type Format int

// Image file formats.
const (
	UNKNOWN Format = iota
	JPEG
	PNG
	GIF
	TIFF
	WEBP
	BMP
)

var FormatExts = map[string]Format{
	"jpg":  JPEG,
	"jpeg": JPEG,
	"png":  PNG,
	"apng": PNG,
	"gif":  GIF,
	"tif":  TIFF,
	"tiff": TIFF,
	"webp": WEBP,
	"bmp":  BMP,
}

var formatNames = map[Format]string{
	JPEG: "JPEG",
	PNG:  "PNG",
	GIF:  "GIF",
	TIFF: "TIFF",
	WEBP: "WEBP",
	BMP:  "BMP",
}

func (f Format) String() string {
	return formatNames[f]
}

// FormatFromDecoderName maps the names registered with the image package
// ("png", "jpeg", ...) to a Format. The apng package registers itself for
// the PNG signature as "apng" and, being initialized before image/png, is
// the decoder image.DecodeConfig reports for every PNG.
func FormatFromDecoderName(name string) Format {
	switch name {
	case "jpeg":
		return JPEG
	case "png", "apng":
		return PNG
	case "gif":
		return GIF
	case "tiff":
		return TIFF
	case "webp":
		return WEBP
	case "bmp":
		return BMP
	}
	return UNKNOWN
}

// Metadata describes a decoded image file
type Metadata struct {
	Format                  Format
	PixelWidth, PixelHeight uint32
	HasFrames               bool
	Orientation             int // EXIF orientation, 0 when absent
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s %dx%d frames=%v orientation=%d", m.Format, m.PixelWidth, m.PixelHeight, m.HasFrames, m.Orientation)
}
