package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// HitEpsilon is the lower bound on ray parameters accepted as hits. It keeps
// scattered rays from re-hitting the surface they leave (shadow acne).
const HitEpsilon = 0.001

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along ray from world.
	// Implementations must be safe for concurrent use with distinct samplers.
	RayColor(ray core.Ray, world core.Shape, sampler core.Sampler) core.Color
}

// Background is the sky seen by rays that escape the scene: a vertical
// gradient from Bottom (looking straight down) to Top (straight up)
type Background struct {
	Top    core.Color
	Bottom core.Color
}

// DefaultBackground returns the white to sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Evaluate returns the background color for an escaping ray
func (b Background) Evaluate(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Lerp(b.Top, t)
}
