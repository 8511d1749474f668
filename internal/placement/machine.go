// Package placement interprets pointer press/move/release sequences as
// watermark drag and resize interactions. The machine owns no framework
// objects; any event-loop binding drives it through OnPress, OnMove and
// OnRelease.
package placement

import (
	"math"

	"watermark-studio/internal/domain"
	"watermark-studio/internal/preview"
)

type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Layout is the watermark's current display-space geometry, recomputed by
// the caller from the live spec before each pointer event.
type Layout struct {
	Rect preview.DisplayRect

	// Text bounding box at the current scale, in display pixels.
	TextW float64
	TextH float64

	// Text width at 100% scale, in display pixels. Divisor for the
	// resize interaction.
	BaseTextW float64
}

// HandleRect is the resize-handle hit region: a small square anchored at
// the far corner of the text bounding box, sized relative to the display
// width.
func HandleRect(spec domain.WatermarkSpec, lay Layout) preview.DisplayRect {
	if lay.Rect.Empty() {
		return preview.DisplayRect{}
	}

	size := math.Max(8, lay.Rect.W/40)
	x, y := preview.ToPixel(spec.Anchor.X, spec.Anchor.Y, lay.Rect)

	return preview.DisplayRect{
		X: x + lay.TextW - size/2,
		Y: y + lay.TextH - size/2,
		W: size,
		H: size,
	}
}

// Machine is the Idle/Dragging/Resizing pointer state machine. Pointer
// events produce an updated spec; the caller stores it and redraws on the
// same frame.
type Machine struct {
	state State
}

func (m *Machine) State() State { return m.state }

// OnPress starts a resize when the pointer lands in the handle hit region,
// a drag when it lands anywhere else inside the image display area, and
// does nothing otherwise.
func (m *Machine) OnPress(x, y float64, spec domain.WatermarkSpec, lay Layout) domain.WatermarkSpec {
	if m.state != Idle || lay.Rect.Empty() {
		return spec
	}

	if HandleRect(spec, lay).Contains(x, y) {
		m.state = Resizing
		return spec
	}

	if lay.Rect.Contains(x, y) {
		m.state = Dragging
		return m.drag(x, y, spec, lay)
	}

	return spec
}

// OnMove updates the anchor or the scale factor from the current pointer
// position. Updates are synchronous: no debouncing, the preview reflects
// the new value on the same frame.
func (m *Machine) OnMove(x, y float64, spec domain.WatermarkSpec, lay Layout) domain.WatermarkSpec {
	switch m.state {
	case Dragging:
		return m.drag(x, y, spec, lay)
	case Resizing:
		return m.resize(x, spec, lay)
	default:
		return spec
	}
}

// OnRelease returns the machine to Idle. Releasing always commits the last
// computed value, regardless of where the pointer ends up.
func (m *Machine) OnRelease(spec domain.WatermarkSpec) domain.WatermarkSpec {
	m.state = Idle
	return spec
}

func (m *Machine) drag(x, y float64, spec domain.WatermarkSpec, lay Layout) domain.WatermarkSpec {
	nx, ny := preview.ToNormalized(x, y, lay.Rect)
	spec.Anchor = domain.Anchor{X: nx, Y: ny}
	return spec.Clamped()
}

func (m *Machine) resize(x float64, spec domain.WatermarkSpec, lay Layout) domain.WatermarkSpec {
	if lay.BaseTextW <= 0 {
		return spec
	}

	originX, _ := preview.ToPixel(spec.Anchor.X, spec.Anchor.Y, lay.Rect)
	spec.ScalePercent = int(math.Round((x - originX) / lay.BaseTextW * 100))
	return spec.Clamped()
}
