package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

const ghostSuffix = "#ghost"

// animation is a fixed-step timed move of the drag offset. Values are kept
// along the direction of travel; sign gives that direction on screen (+1 down,
// -1 up). A forward animation may start below zero when it reverses a drag.
type animation struct {
	ticker    ports.Ticker
	direction entities.Direction
	sign      float64
	value     float64
	end       float64
	complete  func()
}

// Carousel is a depth-stacked slide queue driven by drag gestures.
//
// A Carousel is not safe for concurrent use. The owner must call its
// methods from a single goroutine, and that goroutine should also receive
// from Ticks and call Step for every tick.
type Carousel struct {
	cfg      entities.CarouselConfig
	geometry Geometry
	ticks    ports.TickerFactory

	queue    []entities.Slide
	offset   entities.Position
	origin   float64
	phase    entities.GesturePhase
	dragging bool
	disabled bool
	anim     *animation
}

// NewCarousel creates a carousel over a copy of slides. Fewer than two
// slides yields an inert carousel that ignores every gesture.
func NewCarousel(slides []entities.Slide, cfg entities.CarouselConfig, ticks ports.TickerFactory) (*Carousel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid carousel config: %w", err)
	}
	if ticks == nil {
		return nil, errors.New("ticker factory cannot be nil")
	}

	c := &Carousel{
		cfg:      cfg,
		geometry: NewGeometry(cfg),
		ticks:    ticks,
		phase:    entities.PhaseRest,
	}
	c.queue = append([]entities.Slide(nil), slides...)

	return c, nil
}

// Len returns the number of slides in the queue
func (c *Carousel) Len() int {
	return len(c.queue)
}

// Inert reports whether the carousel has too few slides to rotate
func (c *Carousel) Inert() bool {
	return len(c.queue) < 2
}

// Order returns the slide IDs front to back
func (c *Carousel) Order() []string {
	ids := make([]string, len(c.queue))
	for i := range c.queue {
		ids[i] = c.queue[i].ID
	}
	return ids
}

// Front returns the interactive slide, if any
func (c *Carousel) Front() (entities.Slide, bool) {
	if len(c.queue) == 0 {
		return entities.Slide{}, false
	}
	return c.queue[0], true
}

// Offset returns the current drag offset
func (c *Carousel) Offset() entities.Position {
	return c.offset
}

// Phase returns the current gesture phase
func (c *Carousel) Phase() entities.GesturePhase {
	return c.phase
}

// Dragging reports whether pointer motion was registered since the last press
func (c *Carousel) Dragging() bool {
	return c.dragging
}

// Disabled reports whether a programmatic animation is blocking input
func (c *Carousel) Disabled() bool {
	return c.disabled
}

// Advance moves the front slide to the back of the queue
func (c *Carousel) Advance() {
	if c.Inert() {
		return
	}
	first := c.queue[0]
	copy(c.queue, c.queue[1:])
	c.queue[len(c.queue)-1] = first
}

// Retreat moves the back slide to the front of the queue
func (c *Carousel) Retreat() {
	if c.Inert() {
		return
	}
	last := c.queue[len(c.queue)-1]
	copy(c.queue[1:], c.queue[:len(c.queue)-1])
	c.queue[0] = last
}

// DragStart begins a gesture on the front slide. A running snap-back is
// cancelled and the drag continues from where it left the offset.
func (c *Carousel) DragStart() bool {
	if c.Inert() || c.disabled || c.phase == entities.PhaseDragging {
		return false
	}

	c.stopAnimation()
	c.dragging = false
	c.origin = c.offset.Y
	c.phase = entities.PhaseDragging
	return true
}

// DragMove tracks the pointer's vertical displacement since DragStart
func (c *Carousel) DragMove(deltaY float64) bool {
	if c.phase != entities.PhaseDragging {
		return false
	}

	lower, upper := c.cfg.Bounds()
	y := math.Min(upper, math.Max(lower, c.origin+deltaY))

	c.dragging = true
	c.offset = entities.Position{Y: y}
	return true
}

// DragStop releases the gesture. Reaching the trigger distance rotates the
// queue immediately; anything short of it animates back to rest.
func (c *Carousel) DragStop() bool {
	if c.phase != entities.PhaseDragging {
		return false
	}

	y := c.offset.Y
	trigger := c.geometry.Trigger()

	switch {
	case y >= trigger:
		c.Advance()
		c.rest()
	case c.cfg.Symmetric && y <= -trigger:
		c.Retreat()
		c.rest()
	case y != 0:
		c.phase = entities.PhaseSnappingBack
		c.startAnimation(&animation{
			direction: entities.DirectionBack,
			sign:      sign(y),
			value:     math.Abs(y),
		})
	default:
		c.rest()
	}

	return true
}

// Click handles activation of the front slide. A click that ends a drag only
// clears the dragging flag; otherwise it animates the front slide away.
func (c *Carousel) Click() bool {
	if c.dragging {
		c.dragging = false
		return true
	}
	return c.Next()
}

// Next animates a forward rotation, blocking input until it completes. It
// continues from the current offset; an upward offset steps back through
// zero first.
func (c *Carousel) Next() bool {
	if !c.canAnimate() {
		return false
	}

	c.phase = entities.PhaseAdvancing
	c.disabled = true
	c.startAnimation(&animation{
		direction: entities.DirectionForward,
		sign:      1,
		value:     c.offset.Y,
		end:       c.geometry.Trigger(),
		complete:  c.Advance,
	})
	return true
}

// Previous animates a backward rotation, blocking input until it completes
func (c *Carousel) Previous() bool {
	if !c.canAnimate() {
		return false
	}

	c.phase = entities.PhaseRetreating
	c.disabled = true
	c.startAnimation(&animation{
		direction: entities.DirectionForward,
		sign:      -1,
		value:     -c.offset.Y,
		end:       c.geometry.Trigger(),
		complete:  c.Retreat,
	})
	return true
}

// Ticks returns the active animation's tick channel, or nil when idle.
// Receiving from a nil channel blocks, so it is safe to select on.
func (c *Carousel) Ticks() <-chan time.Time {
	if c.anim == nil {
		return nil
	}
	return c.anim.ticker.C()
}

// Animating reports whether a timed animation is in progress
func (c *Carousel) Animating() bool {
	return c.anim != nil
}

// Step advances the active animation by one tick
func (c *Carousel) Step() bool {
	a := c.anim
	if a == nil {
		return false
	}

	if a.direction == entities.DirectionForward {
		a.value += c.cfg.Step
		if a.value < a.end {
			c.offset = entities.Position{Y: a.sign * a.value}
			return true
		}
	} else {
		a.value -= c.cfg.Step
		if a.value > 0 {
			c.offset = entities.Position{Y: a.sign * a.value}
			return true
		}
	}

	c.stopAnimation()
	if a.complete != nil {
		a.complete()
	}
	c.disabled = false
	c.rest()
	return true
}

// Reload swaps the slide queue and returns the carousel to rest
func (c *Carousel) Reload(slides []entities.Slide) {
	c.stopAnimation()
	c.queue = append(c.queue[:0:0], slides...)
	c.dragging = false
	c.disabled = false
	c.rest()
}

// Close stops any pending animation
func (c *Carousel) Close() {
	c.stopAnimation()
	c.disabled = false
	c.rest()
}

// State returns a snapshot of the carousel including its rendered views
func (c *Carousel) State() entities.CarouselState {
	return entities.CarouselState{
		Phase:    c.phase,
		Offset:   c.offset,
		Dragging: c.dragging,
		Disabled: c.disabled,
		Inert:    c.Inert(),
		Order:    c.Order(),
		Views:    c.Views(),
	}
}

// Views computes the transform of every rendered slide, front first. While
// the offset is non-zero a ghost copy shows the slide about to enter the
// stack: the front slide at the back when dragging down, the back slide
// in front when dragging up.
func (c *Carousel) Views() []entities.SlideView {
	n := len(c.queue)
	y := c.offset.Y
	g := c.geometry

	views := make([]entities.SlideView, 0, n+1)
	for i := range c.queue {
		view := entities.SlideView{
			Key:        c.queue[i].ID,
			SlideID:    c.queue[i].ID,
			Depth:      i,
			Scale:      g.Scale(i, y),
			TranslateY: -g.VerticalShift(i, y),
			ZIndex:     g.ZOrder(i, n),
			Opacity:    1,
		}
		if i == 0 {
			view.Opacity = g.Opacity(y, false)
			view.DragY = y
			view.Interactive = !c.Inert()
			view.Disabled = c.disabled
		}
		views = append(views, view)
	}

	if c.Inert() {
		return views
	}

	switch {
	case y > 0:
		front := c.queue[0]
		views = append(views, entities.SlideView{
			Key:        front.ID + ghostSuffix,
			SlideID:    front.ID,
			Depth:      n,
			Scale:      g.Scale(n, y),
			TranslateY: -g.VerticalShift(n, y),
			ZIndex:     g.ZOrder(n, n),
			Opacity:    g.Opacity(y, true),
			Ghost:      true,
		})
	case y < 0:
		back := c.queue[n-1]
		views = append(views, entities.SlideView{
			Key:     back.ID + ghostSuffix,
			SlideID: back.ID,
			Depth:   -1,
			Scale:   g.Scale(0, -y),
			ZIndex:  n + 1,
			Opacity: g.Opacity(-y, true),
			Ghost:   true,
		})
	}

	return views
}

func (c *Carousel) canAnimate() bool {
	return !c.Inert() && !c.disabled && c.phase != entities.PhaseDragging
}

// startAnimation replaces any running animation; at most one ticker is live
func (c *Carousel) startAnimation(a *animation) {
	c.stopAnimation()
	a.ticker = c.ticks.NewTicker(c.cfg.GetStepInterval())
	c.anim = a
}

func (c *Carousel) stopAnimation() {
	if c.anim == nil {
		return
	}
	c.anim.ticker.Stop()
	c.anim = nil
}

func (c *Carousel) rest() {
	c.offset = entities.Origin
	c.origin = 0
	c.phase = entities.PhaseRest
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
