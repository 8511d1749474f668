package placement

import "watermark-studio/internal/domain"

// Position names the nine preset anchor shortcuts. Presets bypass the
// pointer state machine entirely and feed the anchor setter directly.
type Position string

const (
	TopLeft      Position = "top-left"
	TopCenter    Position = "top-center"
	TopRight     Position = "top-right"
	MiddleLeft   Position = "middle-left"
	Center       Position = "center"
	MiddleRight  Position = "middle-right"
	BottomLeft   Position = "bottom-left"
	BottomCenter Position = "bottom-center"
	BottomRight  Position = "bottom-right"
)

const (
	edgeNear = 0.02
	edgeFar  = 0.98
	middle   = 0.5
)

var presetAnchors = map[Position]domain.Anchor{
	TopLeft:      {X: edgeNear, Y: edgeNear},
	TopCenter:    {X: middle, Y: edgeNear},
	TopRight:     {X: edgeFar, Y: edgeNear},
	MiddleLeft:   {X: edgeNear, Y: middle},
	Center:       {X: middle, Y: middle},
	MiddleRight:  {X: edgeFar, Y: middle},
	BottomLeft:   {X: edgeNear, Y: edgeFar},
	BottomCenter: {X: middle, Y: edgeFar},
	BottomRight:  {X: edgeFar, Y: edgeFar},
}

// PresetAnchor resolves a preset position to its fixed normalized anchor.
func PresetAnchor(pos Position) (domain.Anchor, bool) {
	a, ok := presetAnchors[pos]
	return a, ok
}
