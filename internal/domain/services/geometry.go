package services

import (
	"math"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

// Geometry maps a slide's depth in the stack and the current drag offset
// to its on-screen transform. All methods are pure.
type Geometry struct {
	scaleFactor float64
	offsetUnit  float64
	trigger     float64
}

// NewGeometry creates the geometry functions for a carousel configuration
func NewGeometry(cfg entities.CarouselConfig) Geometry {
	return Geometry{
		scaleFactor: cfg.ScaleFactor,
		offsetUnit:  cfg.OffsetUnit,
		trigger:     cfg.SlideTrigger,
	}
}

// Scale returns the size of a slide at depth. Dragging the front slide by
// offset grows every layer toward the size of the layer in front of it.
func (g Geometry) Scale(depth int, offset float64) float64 {
	coefficient := (1 - g.scaleFactor) / g.trigger
	return math.Pow(g.scaleFactor, float64(depth)) +
		offset*coefficient*math.Pow(g.scaleFactor, float64(depth-1))
}

// VerticalShift returns how far up a slide at depth is moved. Spacing
// shrinks with sqrt(depth), and the drag offset closes the gap to the
// layer in front.
func (g Geometry) VerticalShift(depth int, offset float64) float64 {
	d := math.Max(float64(depth), 0)
	coefficient := g.offsetUnit / g.trigger
	current := math.Sqrt(d)
	previous := math.Sqrt(math.Max(d-1, 0))
	return g.offsetUnit*current - offset*coefficient*(current-previous)
}

// ZOrder returns the stacking order; shallower slides stack on top
func (g Geometry) ZOrder(depth, total int) int {
	return total - depth
}

// Opacity fades linearly from 1 to 0 across the trigger distance, or from
// 0 to 1 when reverse is set.
func (g Geometry) Opacity(offset float64, reverse bool) float64 {
	progress := offset / g.trigger
	if reverse {
		return clamp01(progress)
	}
	return clamp01(1 - progress)
}

// Trigger returns the drag distance that commits a rotation
func (g Geometry) Trigger() float64 {
	return g.trigger
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
