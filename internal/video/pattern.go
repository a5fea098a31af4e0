package video

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// The seven SMPTE-style bars, left to right at offset zero.
var barColors = [7][3]uint8{
	{255, 255, 255}, // white
	{255, 255, 0},   // yellow
	{0, 255, 255},   // cyan
	{0, 255, 0},     // green
	{255, 0, 255},   // magenta
	{255, 0, 0},     // red
	{0, 0, 255},     // blue
}

// Label anchor, matching the original top-left frame-counter overlay.
var labelDot = fixed.P(10, 30)

// Generator renders the moving color-bar test pattern. Each call to
// NextFrame yields one fresh frame; the whole bar pattern scrolls one
// pixel per frame and wraps at the right edge. Not safe for concurrent
// use — one generator feeds one track.
type Generator struct {
	width   int
	height  int
	counter uint64
}

// NewGenerator creates a generator for the given resolution. Width and
// height must be positive. Bar width is width/7 (floor); widths not
// divisible by 7 leave a residual strip at the seam, which is cosmetic.
func NewGenerator(width, height int) *Generator {
	return &Generator{width: width, height: height}
}

// NextFrame renders the pattern at the current scroll offset, overlays
// the frame counter label, and advances the counter.
func (g *Generator) NextFrame() *Frame {
	f := NewFrame(g.width, g.height)
	f.Seq = g.counter

	offset := int(g.counter % uint64(g.width))
	barWidth := g.width / 7

	for i, c := range barColors {
		xStart := (i*barWidth + offset) % g.width
		xEnd := min(xStart+barWidth, g.width)
		g.fillColumns(f, xStart, xEnd, c)

		// The portion that would overflow past the right edge wraps
		// around to the left edge, keeping the scroll seamless.
		if over := xStart + barWidth - g.width; over > 0 {
			g.fillColumns(f, 0, over, c)
		}
	}

	drawLabel(f, fmt.Sprintf("Frame: %d", g.counter))

	g.counter++
	return f
}

// fillColumns paints all rows of columns [x0, x1) with one bar color.
func (g *Generator) fillColumns(f *Frame, x0, x1 int, c [3]uint8) {
	for y := 0; y < g.height; y++ {
		row := y * g.width * 3
		for x := x0; x < x1; x++ {
			i := row + x*3
			f.Data[i] = c[0]
			f.Data[i+1] = c[1]
			f.Data[i+2] = c[2]
		}
	}
}

// drawLabel renders the counter text in black at a fixed position.
func drawLabel(f *Frame, text string) {
	d := font.Drawer{
		Dst:  f,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  labelDot,
	}
	d.DrawString(text)
}
