package viewer

import (
	"github.com/Faultbox/midgard-g3d/internal/config"
	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// NewEnvironment builds the lighting environment described by cfg.
func NewEnvironment(cfg config.RenderConfig) *material.Environment {
	env := material.NewEnvironment()

	a := cfg.Ambient
	if a != [3]float32{} {
		env.Add(&material.AmbientLight{Color: math.Color{R: a[0], G: a[1], B: a[2], A: 1}})
	}
	for _, l := range cfg.Lights {
		dir := math.Vec3{X: l.Direction[0], Y: l.Direction[1], Z: l.Direction[2]}
		if dir.Length() == 0 {
			continue
		}
		env.Add(&material.DirLight{
			Color: math.Color{R: l.Color[0], G: l.Color[1], B: l.Color[2], A: 1},
			Dir:   dir.Normalize(),
		})
	}
	return env
}
