package karafuru

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kovidgoyal/karafuru/types"

	"github.com/kettek/apng"
	"github.com/rwcarlsen/goexif/exif"
	exif_tiff "github.com/rwcarlsen/goexif/tiff"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type fileSystem interface {
	Create(string) (io.WriteCloser, error)
	Open(string) (io.ReadCloser, error)
}

type localFS struct{}

func (localFS) Create(name string) (io.WriteCloser, error) { return os.Create(name) }
func (localFS) Open(name string) (io.ReadCloser, error)    { return os.Open(name) }

var fs fileSystem = localFS{}

type decodeConfig struct {
	autoOrientation bool
}

var defaultDecodeConfig = decodeConfig{
	autoOrientation: true,
}

// DecodeOption tunes Decode, DecodeAll, Open and OpenAll
type DecodeOption func(*decodeConfig)

// AutoOrientation controls whether decoded JPEG and TIFF images are rotated
// and flipped upright according to their EXIF orientation tag. On by default.
func AutoOrientation(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.autoOrientation = enabled
	}
}

// read_orientation returns the EXIF orientation stored in data, if any
func read_orientation(data []byte) orientation {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil || x == nil {
		if err != nil {
			Logger().Debug("no usable EXIF data", "error", err)
		}
		return orientationUnspecified
	}
	orient, err := x.Get(exif.Orientation)
	if err == nil && orient != nil && orient.Format() == exif_tiff.IntVal {
		if v, err := orient.Int(0); err == nil && v > 0 && v < 9 {
			return orientation(v)
		}
	}
	return orientationUnspecified
}

func fix_orientation(ans *Image, cfg *decodeConfig) (err error) {
	if !cfg.autoOrientation {
		return nil
	}
	o := orientation(ans.Metadata.Orientation)
	if o == orientationUnspecified || o == orientationNormal {
		return nil
	}
	for _, f := range ans.Frames {
		if f.Image, err = fixOrientation(f.Image, o); err != nil {
			return err
		}
	}
	if ans.DefaultImage != nil {
		if ans.DefaultImage, err = fixOrientation(ans.DefaultImage, o); err != nil {
			return err
		}
	}
	if o.swapsAxes() {
		md := ans.Metadata
		md.PixelWidth, md.PixelHeight = md.PixelHeight, md.PixelWidth
	}
	return nil
}

var png_signature = []byte("\x89PNG\r\n\x1a\n")

// png_is_animated reports whether a PNG stream has an acTL chunk before its
// image data
func png_is_animated(data []byte) bool {
	if !bytes.HasPrefix(data, png_signature) {
		return false
	}
	data = data[len(png_signature):]
	for len(data) >= 8 {
		length := binary.BigEndian.Uint32(data)
		switch string(data[4:8]) {
		case "acTL":
			return true
		case "IDAT", "IEND":
			return false
		}
		skip := 12 + uint64(length)
		if skip > uint64(len(data)) {
			break
		}
		data = data[skip:]
	}
	return false
}

func decode_all(data []byte, cfg *decodeConfig) (ans *Image, err error) {
	c, format_name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	md := &types.Metadata{
		Format:      types.FormatFromDecoderName(format_name),
		PixelWidth:  uint32(c.Width),
		PixelHeight: uint32(c.Height),
	}
	if md.Format == types.JPEG || md.Format == types.TIFF {
		md.Orientation = int(read_orientation(data))
	}
	ans = &Image{Metadata: md}
	switch {
	case md.Format == types.GIF:
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		ans.populate_from_gif(g)
	case md.Format == types.PNG && png_is_animated(data):
		p, err := apng.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		ans.populate_from_apng(&p)
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		ans.Frames = append(ans.Frames, &Frame{Number: 1, Image: img})
	}
	if len(ans.Frames) == 0 {
		if ans.DefaultImage == nil {
			return nil, fmt.Errorf("%s image has no frames", md.Format)
		}
		ans.Frames = append(ans.Frames, &Frame{Number: 1, Image: ans.DefaultImage})
		ans.DefaultImage = nil
	}
	md.HasFrames = len(ans.Frames) > 1
	if err = fix_orientation(ans, cfg); err != nil {
		return nil, err
	}
	return ans, nil
}

// DecodeAll reads a whole image from r. GIF and animated PNG files yield one
// Frame per animation frame, everything else a single Frame.
func DecodeAll(r io.Reader, opts ...DecodeOption) (*Image, error) {
	cfg := defaultDecodeConfig
	for _, option := range opts {
		option(&cfg)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode_all(data, &cfg)
}

// Decode reads an image from r. For animated images the default image, or
// failing that the first frame, is returned.
func Decode(r io.Reader, opts ...DecodeOption) (image.Image, error) {
	ans, err := DecodeAll(r, opts...)
	if err != nil {
		return nil, err
	}
	if ans.DefaultImage != nil {
		return ans.DefaultImage, nil
	}
	return ans.Frames[0].Image, nil
}

// Open decodes the image file at filename, see Decode.
func Open(filename string, opts ...DecodeOption) (image.Image, error) {
	file, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, err := Decode(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return img, nil
}

// OpenAll decodes the image file at filename with all its frames, see DecodeAll.
func OpenAll(filename string, opts ...DecodeOption) (*Image, error) {
	file, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	ans, err := DecodeAll(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	Logger().Info("opened image", "file", filename, "metadata", ans.Metadata.String(), "frames", len(ans.Frames))
	return ans, nil
}

type Format = types.Format

const (
	UNKNOWN = types.UNKNOWN
	JPEG    = types.JPEG
	PNG     = types.PNG
	GIF     = types.GIF
	TIFF    = types.TIFF
	WEBP    = types.WEBP
	BMP     = types.BMP
)

// ErrUnsupportedFormat means the given image format is not supported.
var ErrUnsupportedFormat = errors.New("karafuru: unsupported image format")

// FormatFromExtension looks up a Format by file extension, with or without
// the leading dot, ignoring case.
func FormatFromExtension(ext string) (Format, error) {
	if f, ok := types.FormatExts[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return f, nil
	}
	return -1, ErrUnsupportedFormat
}

func FormatFromFilename(filename string) (Format, error) {
	return FormatFromExtension(filepath.Ext(filename))
}

type encodeConfig struct {
	jpegQuality, gifNumColors int
}

// EncodeOption tunes the output of Encode and Save
type EncodeOption func(*encodeConfig)

// JPEGQuality sets the JPEG quality, 1 to 100, default 95
func JPEGQuality(quality int) EncodeOption {
	return func(c *encodeConfig) { c.jpegQuality = quality }
}

// GIFNumColors sets the size of the GIF palette, 1 to 256, default 256
func GIFNumColors(numColors int) EncodeOption {
	return func(c *encodeConfig) { c.gifNumColors = numColors }
}

// Encode writes img to w as JPEG, PNG, GIF, TIFF or BMP. WEBP can be read
// but not written.
func Encode(w io.Writer, img image.Image, format Format, opts ...EncodeOption) error {
	cfg := encodeConfig{jpegQuality: 95, gifNumColors: 256}
	for _, o := range opts {
		o(&cfg)
	}
	switch format {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: cfg.jpegQuality})
	case PNG:
		return png.Encode(w, img)
	case GIF:
		return gif.Encode(w, img, &gif.Options{NumColors: cfg.gifNumColors})
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
}

// Save writes img to filename in the format named by its extension.
//
//	err := karafuru.Save(karafuru.Swatch(c, 75, 75), "out.png")
//	err = karafuru.Save(img, "out.jpg", karafuru.JPEGQuality(80))
func Save(img image.Image, filename string, opts ...EncodeOption) error {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	f, err := fs.Create(filename)
	if err != nil {
		return err
	}
	err = Encode(f, img, format, opts...)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
