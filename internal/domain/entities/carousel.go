package entities

import (
	"errors"
	"time"
)

// Position is a drag offset in pixels. Only the vertical axis is used.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin is the resting position of the front slide
var Origin = Position{}

// GesturePhase is the state of the carousel gesture cycle
type GesturePhase string

const (
	PhaseRest         GesturePhase = "rest"
	PhaseDragging     GesturePhase = "dragging"
	PhaseSnappingBack GesturePhase = "snapping_back"
	PhaseAdvancing    GesturePhase = "advancing"
	PhaseRetreating   GesturePhase = "retreating"
)

// IsAnimating reports whether the phase is driven by the animation timer
func (p GesturePhase) IsAnimating() bool {
	return p == PhaseSnappingBack || p == PhaseAdvancing || p == PhaseRetreating
}

// Direction is the direction a timed animation moves the offset in
type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionBack    Direction = "back"
)

// SlideView is the computed visual state of one rendered slide
type SlideView struct {
	Key         string  `json:"key"`
	SlideID     string  `json:"slide_id"`
	Depth       int     `json:"depth"`
	Scale       float64 `json:"scale"`
	TranslateY  float64 `json:"translate_y"`
	ZIndex      int     `json:"z_index"`
	Opacity     float64 `json:"opacity"`
	DragY       float64 `json:"drag_y,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	Ghost       bool    `json:"ghost,omitempty"`
	Disabled    bool    `json:"disabled,omitempty"`
}

// CarouselState is a snapshot of a carousel, sent to the page after every change
type CarouselState struct {
	Phase    GesturePhase `json:"phase"`
	Offset   Position     `json:"offset"`
	Dragging bool         `json:"dragging"`
	Disabled bool         `json:"disabled"`
	Inert    bool         `json:"inert,omitempty"`
	Order    []string     `json:"order"`
	Views    []SlideView  `json:"views"`
}

// CarouselConfig holds the stack geometry and animation settings
type CarouselConfig struct {
	// ScaleFactor is the size ratio between adjacent depths (0 < f < 1)
	ScaleFactor float64 `toml:"scale_factor" json:"scale_factor"`

	// OffsetUnit is the vertical spacing of depth 1 in pixels
	OffsetUnit float64 `toml:"offset_unit" json:"offset_unit"`

	// SlideTrigger is the drag distance that commits a rotation
	SlideTrigger float64 `toml:"slide_trigger" json:"slide_trigger"`

	// StepIntervalMs is the animation tick interval
	StepIntervalMs int `toml:"step_interval_ms" json:"step_interval_ms"`

	// Step is how far the offset moves per animation tick
	Step float64 `toml:"step" json:"step"`

	// Symmetric allows upward drags that retreat the queue
	Symmetric bool `toml:"symmetric" json:"symmetric"`
}

// DefaultCarouselConfig returns the stock stack geometry
func DefaultCarouselConfig() CarouselConfig {
	return CarouselConfig{
		ScaleFactor:    0.85,
		OffsetUnit:     40,
		SlideTrigger:   80,
		StepIntervalMs: 10,
		Step:           1,
	}
}

// Validate validates carousel configuration
func (c CarouselConfig) Validate() error {
	if c.ScaleFactor <= 0 || c.ScaleFactor >= 1 {
		return errors.New("scale factor must be between 0 and 1 (exclusive)")
	}

	if c.OffsetUnit < 0 {
		return errors.New("offset unit must be non-negative")
	}

	if c.SlideTrigger <= 0 {
		return errors.New("slide trigger must be positive")
	}

	if c.StepIntervalMs <= 0 {
		return errors.New("step interval must be positive")
	}

	if c.Step <= 0 {
		return errors.New("animation step must be positive")
	}

	return nil
}

// GetStepInterval returns the animation tick interval as a duration
func (c CarouselConfig) GetStepInterval() time.Duration {
	if c.StepIntervalMs <= 0 {
		return 10 * time.Millisecond
	}
	return time.Duration(c.StepIntervalMs) * time.Millisecond
}

// Bounds returns the allowed drag range
func (c CarouselConfig) Bounds() (lower, upper float64) {
	if c.Symmetric {
		return -c.SlideTrigger, c.SlideTrigger
	}
	return 0, c.SlideTrigger
}
