package preview

import "math"

// ToNormalized converts a pointer position on the preview surface into
// resolution-independent [0,1] image coordinates. Positions outside the
// display rect clamp to the nearest edge. A degenerate rect returns the
// input unchanged; callers must not render against a null image anyway.
func ToNormalized(pointerX, pointerY float64, rect DisplayRect) (normX, normY float64) {
	if rect.Empty() {
		return pointerX, pointerY
	}
	normX = clamp01((pointerX - rect.X) / rect.W)
	normY = clamp01((pointerY - rect.Y) / rect.H)
	return normX, normY
}

// ToPixel is the inverse of ToNormalized, used only for drawing inside the
// preview. Export never goes through it: the full-resolution pixel anchor
// is always re-derived from the source image dimensions.
func ToPixel(normX, normY float64, rect DisplayRect) (x, y float64) {
	if rect.Empty() {
		return normX, normY
	}
	return rect.X + normX*rect.W, rect.Y + normY*rect.H
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
