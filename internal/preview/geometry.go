package preview

// DisplayRect is the letterboxed region of the preview surface into which
// the source image is drawn at the current widget size. It is ephemeral:
// recomputed from the current surface and image dimensions on every use,
// never cached across resizes.
type DisplayRect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Empty reports whether the rect cannot hold an image (no image loaded or
// surface collapsed). Conversions against an empty rect are no-ops.
func (r DisplayRect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether a pointer position falls inside the rect.
func (r DisplayRect) Contains(x, y float64) bool {
	return !r.Empty() &&
		x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

// Letterbox fits an image of imageW x imageH into a surface of
// surfaceW x surfaceH, preserving aspect ratio and centering the result.
func Letterbox(surfaceW, surfaceH, imageW, imageH int) DisplayRect {
	if surfaceW <= 0 || surfaceH <= 0 || imageW <= 0 || imageH <= 0 {
		return DisplayRect{}
	}

	sw, sh := float64(surfaceW), float64(surfaceH)
	iw, ih := float64(imageW), float64(imageH)

	scale := sw / iw
	if s := sh / ih; s < scale {
		scale = s
	}

	w := iw * scale
	h := ih * scale

	return DisplayRect{
		X: (sw - w) / 2,
		Y: (sh - h) / 2,
		W: w,
		H: h,
	}
}
