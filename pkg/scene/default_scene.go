package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewDefaultScene creates two spheres touching at x=0 above a large ground
// sphere, viewed by the default pinhole camera
func NewDefaultScene() *Scene {
	s := NewScene(renderer.DefaultCameraConfig(), renderer.DefaultSamplingConfig())

	groundMaterial := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	centerMaterial := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)

	// Radius cos(π/4) places the sphere centers exactly one diameter apart
	r := math.Cos(math.Pi / 4)

	s.Add(
		geometry.NewSphere(core.NewVec3(-r, 0, -1), r, groundMaterial),
		geometry.NewSphere(core.NewVec3(r, 0, -1), r, centerMaterial),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, groundMaterial),
		geometry.NewSphere(core.NewVec3(-0.35, -0.35, -0.3), 0.15, glass),
		geometry.NewSphere(core.NewVec3(0.35, -0.35, -0.3), 0.15, gold),
	)

	return s
}

// NewGroundScene creates a scene containing only a gray ground sphere
func NewGroundScene() *Scene {
	s := NewScene(renderer.DefaultCameraConfig(), renderer.DefaultSamplingConfig())
	s.Add(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	return s
}
