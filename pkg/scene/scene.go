package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Shapes         []core.Shape // Objects in the scene, in insertion order
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Background     integrator.Background

	frozen bool
}

// NewScene creates an empty scene under the default sky
func NewScene(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	return &Scene{
		Shapes:         make([]core.Shape, 0),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		Background:     integrator.DefaultBackground(),
	}
}

// Add appends shapes to the scene. It panics once the scene is frozen.
func (s *Scene) Add(shapes ...core.Shape) {
	if s.frozen {
		panic("scene: Add called on a frozen scene")
	}
	s.Shapes = append(s.Shapes, shapes...)
}

// Freeze marks the scene read-only for the duration of a render
func (s *Scene) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze has been called
func (s *Scene) Frozen() bool {
	return s.frozen
}

// Hit returns the closest intersection over all shapes. Each hit shrinks the
// search interval, so later shapes only win when strictly closer.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, shape := range s.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

// RenderConfig combines the scene's camera, sampling and sky with the
// per-run seed and worker count
func (s *Scene) RenderConfig(seed int64, numWorkers int) renderer.Config {
	return renderer.Config{
		Camera:     s.CameraConfig,
		Sampling:   s.SamplingConfig,
		Background: s.Background,
		Seed:       seed,
		NumWorkers: numWorkers,
	}
}
