package viewer

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-g3d/internal/engine/model"
)

// Player loops a set of animations on one instance. All animations share a
// clock; each wraps at its own duration.
type Player struct {
	ctrl  *model.Controller
	inst  *model.Instance
	anims []*model.Anim

	// Speed multiplies the clock rate.
	Speed  float32
	Paused bool

	rate float32
	time float32
}

// NewPlayer plays the animations ids of inst. rate is the number of keyframe
// time units per second. An empty ids plays every animation of the instance.
func NewPlayer(inst *model.Instance, ids []string, rate float32) (*Player, error) {
	if len(ids) == 0 {
		ids = inst.Model.AnimIDs()
	}
	p := &Player{
		ctrl:  model.NewController(inst),
		inst:  inst,
		Speed: 1,
		rate:  rate,
	}
	for _, id := range ids {
		a, ok := inst.Anim(id)
		if !ok {
			return nil, fmt.Errorf("animation %q: %w", id, model.ErrUnknownAnim)
		}
		p.anims = append(p.anims, a)
	}
	return p, nil
}

// Time returns the clock in keyframe time units.
func (p *Player) Time() float32 {
	return p.time
}

// Reset rewinds the clock.
func (p *Player) Reset() {
	p.time = 0
}

// Update advances the clock by dt seconds and poses the instance.
func (p *Player) Update(dt float32) {
	if !p.Paused {
		p.time += dt * p.rate * p.Speed
	}
	if len(p.anims) == 0 {
		p.inst.CalcTransforms()
		return
	}

	p.ctrl.Begin()
	for _, a := range p.anims {
		p.ctrl.AnimateAnim(a, wrap(p.time, a.Duration))
	}
	p.ctrl.End()
}

// wrap maps t into [0, d).
func wrap(t, d float32) float32 {
	if d <= 0 {
		return 0
	}
	t = math32.Mod(t, d)
	if t < 0 {
		t += d
	}
	return t
}
