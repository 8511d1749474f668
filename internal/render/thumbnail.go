package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Thumbnail scales an image down to fit inside a maxSize square, keeping
// the aspect ratio. Images already small enough come back unscaled. The
// image list binding uses this for its item icons.
func Thumbnail(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(w)
	if s := float64(maxSize) / float64(h); s < scale {
		scale = s
	}

	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
