package karafuru

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"time"

	"github.com/kettek/apng"
	"github.com/kovidgoyal/karafuru/types"
)

var _ = fmt.Print

type Frame struct {
	Number      uint
	X, Y        int
	Image       image.Image `json:"-"`
	Delay       time.Duration
	ComposeOnto uint
	Replace     bool // Do a simple pixel replacement rather than a full alpha blend when compositing this frame
}

type Image struct {
	Frames       []*Frame
	Metadata     *types.Metadata
	LoopCount    uint        // 0 means loop forever, 1 means loop once, ...
	DefaultImage image.Image `json:"-"` // a "default image" for an animation that is not part of the actual animation
}

func (self *Image) populate_from_apng(p *apng.APNG) {
	self.LoopCount = p.LoopCount
	prev_disposal := apng.DISPOSE_OP_BACKGROUND
	var prev_compose_onto uint
	for _, f := range p.Frames {
		if f.IsDefault {
			self.DefaultImage = f.Image
			continue
		}
		frame := Frame{Number: uint(len(self.Frames) + 1), Image: f.Image, X: f.XOffset, Y: f.YOffset,
			Replace: f.BlendOp == apng.BLEND_OP_SOURCE,
			Delay:   time.Duration(float64(time.Second) * f.GetDelay())}
		switch prev_disposal {
		case apng.DISPOSE_OP_NONE:
			frame.ComposeOnto = frame.Number - 1
		case apng.DISPOSE_OP_PREVIOUS:
			frame.ComposeOnto = prev_compose_onto
		}
		prev_disposal, prev_compose_onto = int(f.DisposeOp), frame.ComposeOnto
		self.Frames = append(self.Frames, &frame)
	}
}

// gif_frame_delay converts a GIF delay in hundredths of a second, treating
// the near zero delays that browsers ignore as 0.1s
func gif_frame_delay(d int) time.Duration {
	if d <= 1 {
		d = 10
	}
	return time.Duration(d) * 10 * time.Millisecond
}

func (self *Image) populate_from_gif(g *gif.GIF) {
	prev_disposal := uint8(gif.DisposalBackground)
	var prev_compose_onto uint
	for i, img := range g.Image {
		b := img.Bounds()
		frame := Frame{
			Number: uint(len(self.Frames) + 1), Image: img, X: b.Min.X, Y: b.Min.Y,
			Delay: gif_frame_delay(g.Delay[i]),
		}
		switch prev_disposal {
		case gif.DisposalNone:
			frame.ComposeOnto = frame.Number - 1
		case gif.DisposalPrevious:
			frame.ComposeOnto = prev_compose_onto
		case gif.DisposalBackground:
			// this contravenes the GIF89a document but browsers and
			// gif2apng both do this, so follow them.
			frame.ComposeOnto = frame.Number - 1
		}
		if i < len(g.Disposal) {
			prev_disposal = g.Disposal[i]
		}
		prev_compose_onto = frame.ComposeOnto
		self.Frames = append(self.Frames, &frame)
	}
	switch {
	case g.LoopCount == 0:
		self.LoopCount = 0
	case g.LoopCount < 0:
		self.LoopCount = 1
	default:
		self.LoopCount = uint(g.LoopCount) + 1
	}
}

func clone_as_rgba64(img image.Image) *image.RGBA64 {
	b := img.Bounds()
	ans := image.NewRGBA64(b)
	draw.Draw(ans, b, img, b.Min, draw.Src)
	return ans
}

func (self *Image) Clone() *Image {
	ans := *self
	ans.Frames = make([]*Frame, len(self.Frames))
	if ans.Metadata != nil {
		md := *ans.Metadata
		ans.Metadata = &md
	}
	if ans.DefaultImage != nil {
		ans.DefaultImage = clone_as_rgba64(ans.DefaultImage)
	}
	for i, f := range self.Frames {
		nf := *f
		nf.Image = clone_as_rgba64(f.Image)
		ans.Frames[i] = &nf
	}
	return &ans
}

func (self *Image) canvas_size() image.Rectangle {
	if self.Metadata != nil && self.Metadata.PixelWidth > 0 {
		return image.Rect(0, 0, int(self.Metadata.PixelWidth), int(self.Metadata.PixelHeight))
	}
	var r image.Rectangle
	for _, f := range self.Frames {
		b := f.Image.Bounds()
		r = r.Union(image.Rect(f.X, f.Y, f.X+b.Dx(), f.Y+b.Dy()))
	}
	return image.Rect(0, 0, r.Max.X, r.Max.Y)
}

// Coalesce all animation frames so that each frame is a snapshot of the
// animation at that instant.
func (self *Image) Coalesce() {
	if len(self.Frames) == 1 {
		return
	}
	canvas_rect := self.canvas_size()
	var canvas *image.RGBA64
	for _, f := range self.Frames {
		b := f.Image.Bounds()
		if f.ComposeOnto == 0 {
			canvas = image.NewRGBA64(canvas_rect)
		} else {
			canvas = clone_as_rgba64(self.Frames[f.ComposeOnto-1].Image)
		}
		op := draw.Over
		if f.Replace {
			op = draw.Src
		}
		draw.Draw(canvas, image.Rect(f.X, f.Y, f.X+b.Dx(), f.Y+b.Dy()), f.Image, b.Min, op)
		f.Image = canvas
		f.X = 0
		f.Y = 0
		f.ComposeOnto = 0
		f.Replace = true
	}
}

// Snapshot returns the image as it is displayed while the frame with the
// specified number (starting at 1) is shown. For still images, frame number
// 1 is the image itself. The receiver is not modified.
func (self *Image) Snapshot(number uint) (image.Image, error) {
	if number == 0 || int(number) > len(self.Frames) {
		return nil, fmt.Errorf("no frame number %d, the image has %d frames", number, len(self.Frames))
	}
	if len(self.Frames) == 1 {
		return self.Frames[0].Image, nil
	}
	c := self.Clone()
	c.Coalesce()
	return c.Frames[number-1].Image, nil
}
