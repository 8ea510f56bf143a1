package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/logger"
)

// ControllerState tracks where a Controller is in its begin/animate/end cycle.
type ControllerState uint8

const (
	StateIdle ControllerState = iota
	StateBegun
	StateAnimating
)

func (s ControllerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBegun:
		return "begun"
	case StateAnimating:
		return "animating"
	default:
		return fmt.Sprintf("ControllerState(%d)", uint8(s))
	}
}

// Controller poses an Instance from its animations. Each frame is bracketed by
// Begin and End; Animate calls in between compose onto the local matrices of
// the animated nodes, so several animations blend by accumulation.
//
// A Controller is not safe for concurrent use and must not interleave cycles
// on the same instance.
type Controller struct {
	inst  *Instance
	state ControllerState
}

// NewController returns a controller for inst.
func NewController(inst *Instance) *Controller {
	return &Controller{inst: inst}
}

// State returns the current cycle state.
func (c *Controller) State() ControllerState {
	return c.state
}

// Begin resets every node to its static pose.
func (c *Controller) Begin() {
	if c.state != StateIdle {
		logger.Debug("animation begin without end", zap.String("model", c.inst.ID), zap.Stringer("state", c.state))
	}
	c.inst.Nodes.Each(func(_ NodeID, n *Node) {
		n.Animated = false
	})
	c.inst.CalcTransforms()
	c.state = StateBegun
}

// Animate applies the animation with the given id at time t.
func (c *Controller) Animate(id string, t float32) error {
	a, ok := c.inst.Anim(id)
	if !ok {
		return fmt.Errorf("animation %q: %w", id, ErrUnknownAnim)
	}
	c.AnimateAnim(a, t)
	return nil
}

// AnimateFrac applies the animation at frac of its duration. frac is clamped to [0, 1].
func (c *Controller) AnimateFrac(id string, frac float32) error {
	a, ok := c.inst.Anim(id)
	if !ok {
		return fmt.Errorf("animation %q: %w", id, ErrUnknownAnim)
	}
	c.AnimateAnim(a, min(max(frac, 0), 1)*a.Duration)
	return nil
}

// AnimateAnim applies a at time t. For every channel with a keyframe at or
// before t, the keyframe value is post-multiplied onto the node's local
// matrix in translate, rotate, scale order.
func (c *Controller) AnimateAnim(a *Anim, t float32) {
	if c.state == StateIdle {
		logger.Debug("animate outside begin/end", zap.String("model", c.inst.ID), zap.String("anim", a.ID))
	}
	c.state = StateAnimating

	for i := range a.Nodes {
		na := &a.Nodes[i]
		n := c.inst.Nodes.Node(na.Node)
		n.Animated = true

		if kf, ok := Frame(na.Translation, t); ok {
			n.Local = n.Local.Translated(kf.Value)
		}
		if kf, ok := Frame(na.Rotation, t); ok {
			n.Local = n.Local.Rotated(kf.Value)
		}
		if kf, ok := Frame(na.Scaling, t); ok {
			n.Local = n.Local.Scaled(kf.Value.X, kf.Value.Y, kf.Value.Z)
		}
	}
}

// End recomputes world transforms from the animated poses and returns every
// node to static posing.
func (c *Controller) End() {
	if c.state == StateIdle {
		logger.Debug("animation end without begin", zap.String("model", c.inst.ID))
	}
	c.inst.CalcTransforms()
	c.inst.Nodes.Each(func(_ NodeID, n *Node) {
		n.Animated = false
	})
	c.state = StateIdle
}
