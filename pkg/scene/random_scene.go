package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// RandomSceneSeed is the layout seed of the "random" built-in
const RandomSceneSeed = 1

// NewRandomScene creates a grid of small randomly placed spheres with
// random materials around three large feature spheres. The same seed always
// produces the same layout.
func NewRandomScene(seed int64) *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		FocusDistance: 10.0,
		DefocusAngle:  0.6,
	}
	s := NewScene(cameraConfig, renderer.SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50})

	sampler := core.NewSeededSampler(seed)
	between := func(lo, hi float64) float64 {
		return lo + (hi-lo)*sampler.Get1D()
	}

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMaterial := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var m core.Material
			switch {
			case chooseMaterial < 0.8:
				albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
				m = material.NewLambertian(albedo)
			case chooseMaterial < 0.95:
				albedo := core.NewVec3(between(0.5, 1), between(0.5, 1), between(0.5, 1))
				m = material.NewMetal(albedo, between(0, 0.5))
			default:
				m = material.NewDielectric(1.5)
			}
			s.Add(geometry.NewSphere(center, 0.2, m))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}
