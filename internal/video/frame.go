// Package video produces the synthetic test-pattern video stream: a
// scrolling color-bar frame generator, a fixed-rate pacing clock, and a
// pump that feeds frames into the outbound media track.
package video

import (
	"image"
	"image/color"
)

// Frame is one fixed-resolution raster: Width×Height pixels, 3 bytes per
// pixel (RGB24, row-major). Frames are produced on demand and never
// reused; Seq is the zero-based production counter.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Seq    uint64
}

// NewFrame allocates a zeroed (black) frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Data:   make([]byte, width*height*3),
		Width:  width,
		Height: height,
	}
}

// Frame implements draw.Image so text can be rendered onto it with
// x/image font drawers.

func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	i := (y*f.Width + x) * 3
	return color.RGBA{R: f.Data[i], G: f.Data[i+1], B: f.Data[i+2], A: 0xFF}
}

func (f *Frame) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(f.Bounds())) {
		return
	}
	r, g, b, _ := c.RGBA()
	i := (y*f.Width + x) * 3
	f.Data[i] = uint8(r >> 8)
	f.Data[i+1] = uint8(g >> 8)
	f.Data[i+2] = uint8(b >> 8)
}
