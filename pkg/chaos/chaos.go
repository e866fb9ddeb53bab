// Package chaos turns the input signal into the chaos level that drives
// erosion.
//
// The [Controller] keeps two numbers: the current level, recomputed from
// every input event, and the maximum level ever reached. Only the maximum
// feeds erosion and the visual parameters, which is what makes erosion
// irreversible: deleting input lowers the level but never the maximum.
package chaos

// DefaultMaxLength is the input length at which chaos saturates at 1.
const DefaultMaxLength = 400

// State is a snapshot of the controller.
type State struct {
	Level float64 `json:"level"`
	Max   float64 `json:"max"`
}

// Controller owns the chaos state. It is not safe for concurrent use; the
// owning event loop is its only caller.
type Controller struct {
	maxLength int
	state     State
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxLength sets the input length that maps to full chaos.
// Non-positive values are ignored.
func WithMaxLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxLength = n
		}
	}
}

// NewController returns a controller at rest (level 0, max 0).
func NewController(opts ...Option) *Controller {
	c := &Controller{maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Level maps an input length to a chaos level in [0, 1].
func Level(length, maxLength int) float64 {
	if length <= 0 || maxLength <= 0 {
		return 0
	}
	return clamp(float64(length)/float64(maxLength), 0, 1)
}

// OnInputChanged is the only mutator of chaos state. It recomputes the
// level from the current input length and raises the running maximum if
// needed. The returned state tells the caller to render again. Calling it
// twice with the same length changes nothing the second time.
func (c *Controller) OnInputChanged(length int) State {
	c.state.Level = Level(length, c.maxLength)
	c.state.Max = max(c.state.Max, c.state.Level)
	return c.state
}

// State returns the current snapshot.
func (c *Controller) State() State { return c.state }

// Level returns the current chaos level.
func (c *Controller) Level() float64 { return c.state.Level }

// Max returns the highest chaos level ever reached.
func (c *Controller) Max() float64 { return c.state.Max }

// MaxLength returns the input length that maps to full chaos.
func (c *Controller) MaxLength() int { return c.maxLength }

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
