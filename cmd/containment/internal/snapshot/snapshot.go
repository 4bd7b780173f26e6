// Package snapshot renders the resources of a stack view as a labelled PNG
// wireframe.
package snapshot

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/containment/pkg/containment"
	"github.com/go-drift/containment/pkg/graphics"
)

// Box is one resource placed in screen coordinates.
type Box struct {
	Label string
	Rect  graphics.Rect
	Depth int
}

// Options configures Render.
type Options struct {
	// Scale multiplies the output size. Zero means 1.
	Scale float64
}

// container is a resource hosting other resources.
type container interface {
	Resources() []containment.Resource
}

// Layout flattens screen into boxes, bottom first. Nested stack views are
// offset by their frame origin. Unlabelled resources are shown as "?".
func Layout(screen *containment.Stack, labels map[containment.Resource]string) []Box {
	var boxes []Box
	var walk func(c container, origin graphics.Offset, depth int)
	walk = func(c container, origin graphics.Offset, depth int) {
		for _, r := range c.Resources() {
			frame := r.Frame().Translate(origin.X, origin.Y)
			label, ok := labels[r]
			if !ok {
				label = "?"
			}
			boxes = append(boxes, Box{Label: label, Rect: frame, Depth: depth})
			if nested, ok := r.(container); ok {
				walk(nested, frame.Origin(), depth+1)
			}
		}
	}
	walk(screen, graphics.Offset{}, 0)
	return boxes
}

var palette = []color.RGBA{
	{R: 0xe8, G: 0xf0, B: 0xfe, A: 0xff},
	{R: 0xfe, G: 0xf3, B: 0xe0, A: 0xff},
	{R: 0xe6, G: 0xf4, B: 0xea, A: 0xff},
	{R: 0xfc, G: 0xe8, B: 0xe6, A: 0xff},
}

var (
	background = color.RGBA{R: 0x20, G: 0x21, B: 0x24, A: 0xff}
	outline    = color.RGBA{R: 0x5f, G: 0x63, B: 0x68, A: 0xff}
	ink        = color.RGBA{R: 0x20, G: 0x21, B: 0x24, A: 0xff}
)

// Render draws the boxes of screen and encodes them as PNG.
func Render(w io.Writer, screen *containment.Stack, labels map[containment.Resource]string, opts Options) error {
	size := screen.Bounds().Size()
	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(size.Width)), int(math.Ceil(size.Height))))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for i, box := range Layout(screen, labels) {
		r := toImageRect(box.Rect).Intersect(img.Bounds())
		if r.Empty() {
			continue
		}
		fill := palette[(box.Depth+i)%len(palette)]
		draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Src)
		strokeRect(img, r, outline)
		drawLabel(img, r, box.Label)
	}

	out := image.Image(img)
	if opts.Scale > 0 && opts.Scale != 1 {
		b := img.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0,
			int(math.Round(float64(b.Dx())*opts.Scale)),
			int(math.Round(float64(b.Dy())*opts.Scale))))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)
		out = scaled
	}
	return png.Encode(w, out)
}

func toImageRect(r graphics.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.Left)), int(math.Round(r.Top)),
		int(math.Round(r.Right)), int(math.Round(r.Bottom)),
	)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawLabel writes label in the top-left corner of r, if it fits.
func drawLabel(img *image.RGBA, r image.Rectangle, label string) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if r.Dy() < height+4 {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(r.Min.X+4, r.Min.Y+2+metrics.Ascent.Ceil()),
	}
	if d.MeasureString(label).Ceil() > r.Dx()-8 {
		return
	}
	d.DrawString(label)
}
