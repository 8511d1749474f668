// Package render is the compositing engine: it reproduces one watermark
// placement at any image resolution. Render is a pure function of its
// inputs, which keeps per-image work trivially parallelizable.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"watermark-studio/internal/domain"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type Engine struct {
	font *truetype.Font
}

func NewEngine(f *truetype.Font) *Engine {
	if f == nil {
		f = FallbackFont()
	}
	return &Engine{font: f}
}

// FontSize derives the point size for an image (or display surface) of
// the given width: a per-image base size scaled by the spec's percentage.
func FontSize(width, scalePercent int) float64 {
	base := width / 20
	if base < 16 {
		base = 16
	}
	size := float64(base) * float64(scalePercent) / 100
	if size < 8 {
		size = 8
	}
	return size
}

// AnchorPixels maps a normalized anchor onto pixel coordinates for an
// image of the given dimensions, clamped so the full text bounding box
// plus a width-relative margin stays inside the image. When the text is
// wider or taller than the image allows, the margin floor wins.
func AnchorPixels(imageW, imageH, textW, textH int, a domain.Anchor) (x, y int) {
	margin := imageW / 100
	if margin < 10 {
		margin = 10
	}

	x = int(a.X * float64(imageW))
	if hi := imageW - textW - margin; x > hi {
		x = hi
	}
	if x < margin {
		x = margin
	}

	y = int(a.Y * float64(imageH))
	if hi := imageH - textH - margin; y > hi {
		y = hi
	}
	if y < margin {
		y = margin
	}

	return x, y
}

// Render composites the watermark described by spec over src and returns
// the result as a 4-channel image. Same inputs always produce the same
// output; src is never mutated. Empty text yields a format-converted copy
// of the source.
func (e *Engine) Render(src image.Image, spec domain.WatermarkSpec) *image.NRGBA {
	spec = spec.Clamped()

	base := imaging.Clone(src)
	if spec.Text == "" || e.font == nil {
		return base
	}

	bounds := base.Bounds()
	imageW, imageH := bounds.Dx(), bounds.Dy()

	face := truetype.NewFace(e.font, &truetype.Options{
		Size:    FontSize(imageW, spec.ScalePercent),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	textW, textH, ascent := measure(face, spec.Text)
	x, y := AnchorPixels(imageW, imageH, textW, textH, spec.Anchor)

	alpha := spec.Alpha()
	shadow := imageW / 400
	if shadow < 1 {
		shadow = 1
	}

	// Text goes onto its own transparent layer: shadow first, then the
	// text itself, then one "over" composite onto the working copy.
	layer := image.NewNRGBA(bounds)
	drawString(layer, face, spec.Text, x+shadow, y+shadow+ascent, color.NRGBA{A: alpha})
	drawString(layer, face, spec.Text, x, y+ascent, color.NRGBA{R: 255, G: 255, B: 255, A: alpha})

	draw.Draw(base, bounds, layer, bounds.Min, draw.Over)
	return base
}

// TextLayout reports the text bounding box, in pixels, for a surface of
// the given width at the spec's scale, plus the width at 100% scale. The
// placement machine uses it to size the resize handle and to turn pointer
// travel back into a scale percentage.
func (e *Engine) TextLayout(width int, spec domain.WatermarkSpec) (textW, textH, baseTextW int) {
	if e.font == nil || spec.Text == "" || width <= 0 {
		return 0, 0, 0
	}

	face := truetype.NewFace(e.font, &truetype.Options{
		Size:    FontSize(width, spec.ScalePercent),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	textW, textH, _ = measure(face, spec.Text)

	baseFace := truetype.NewFace(e.font, &truetype.Options{
		Size:    FontSize(width, 100),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer baseFace.Close()
	baseTextW, _, _ = measure(baseFace, spec.Text)

	return textW, textH, baseTextW
}

// Flatten returns an opaque 3-channel-equivalent copy: the alpha channel
// is discarded, not blended. JPEG output goes through this.
func Flatten(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

func measure(face font.Face, text string) (w, h, ascent int) {
	d := &font.Drawer{Face: face}
	w = d.MeasureString(text).Ceil()

	m := face.Metrics()
	h = (m.Ascent + m.Descent).Ceil()
	return w, h, m.Ascent.Ceil()
}

func drawString(dst draw.Image, face font.Face, text string, x, y int, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
