package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// shapeList is a minimal closest-hit world for renderer tests
type shapeList []core.Shape

func (l shapeList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	for _, shape := range l {
		if hit, ok := shape.Hit(ray, tMin, tMax); ok {
			closest, tMax = hit, hit.T
		}
	}
	return closest, closest != nil
}

// centeredSampler always samples pixel centers but draws everything else randomly
type centeredSampler struct {
	core.Sampler
}

func (centeredSampler) Get2D() core.Vec2 { return core.NewVec2(0.5, 0.5) }

func groundSphere() core.Shape {
	return geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
}

func testWorld() core.Shape {
	return shapeList{
		groundSphere(),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.4, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)),
	}
}

func testConfig(width, spp, depth int) Config {
	config := DefaultConfig()
	config.Camera = squareCameraConfig(width)
	config.Sampling = SamplingConfig{SamplesPerPixel: spp, MaxDepth: depth}
	return config
}

func TestRaytracer_TwoByTwoGroundSphere(t *testing.T) {
	rt := NewRaytracer(groundSphere(), testConfig(2, 1, 1), nil)
	rt.newSampler = func(seed int64) core.Sampler {
		return centeredSampler{core.NewSeededSampler(seed)}
	}

	frame, _, err := rt.Render(nil)
	require.NoError(t, err)
	require.Equal(t, 2, frame.Width())
	require.Equal(t, 2, frame.Height())

	// Top row escapes to the sky along (±0.5, 0.5, -1)
	skyT := 0.5 * (0.5/math.Sqrt(1.5) + 1)
	sky := core.NewVec3(1-0.5*skyT, 1-0.3*skyT, 1)
	for x := 0; x < 2; x++ {
		assertVecNear(t, sky, frame.Color(x, 0), "top pixel %d", x)
	}

	// Bottom row hits the ground and runs out of bounces
	for x := 0; x < 2; x++ {
		assert.Equal(t, core.Vec3{}, frame.Color(x, 1), "bottom pixel %d", x)
	}

	var quantized []core.RGB8
	for c := range frame.Quantized() {
		quantized = append(quantized, c)
	}
	require.Len(t, quantized, 4)
	assert.Equal(t, quantized[0], quantized[1])
	assert.Equal(t, core.RGB8{}, quantized[2])
	assert.Equal(t, core.RGB8{}, quantized[3])
}

func TestRaytracer_SameSeedIsBitIdentical(t *testing.T) {
	config := testConfig(16, 4, 10)
	config.NumWorkers = 3

	first, _, err := NewRaytracer(testWorld(), config, nil).Render(nil)
	require.NoError(t, err)
	second, _, err := NewRaytracer(testWorld(), config, nil).Render(nil)
	require.NoError(t, err)

	assert.Equal(t, first.Pixels(), second.Pixels())
}

func TestRaytracer_IndependentOfWorkerCount(t *testing.T) {
	config := testConfig(12, 3, 8)

	config.NumWorkers = 1
	serial, _, err := NewRaytracer(testWorld(), config, nil).Render(nil)
	require.NoError(t, err)

	for _, workers := range []int{2, 5, 16} {
		config.NumWorkers = workers
		parallel, _, err := NewRaytracer(testWorld(), config, nil).Render(nil)
		require.NoError(t, err)
		assert.Equal(t, serial.Pixels(), parallel.Pixels(), "%d workers", workers)
	}
}

func TestRaytracer_SeedChangesNoise(t *testing.T) {
	config := testConfig(8, 2, 5)
	a, _, err := NewRaytracer(testWorld(), config, nil).Render(nil)
	require.NoError(t, err)

	config.Seed++
	b, _, err := NewRaytracer(testWorld(), config, nil).Render(nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.Pixels(), b.Pixels())
}

func TestRaytracer_ProgressOncePerRow(t *testing.T) {
	config := testConfig(10, 1, 3)
	config.NumWorkers = 4

	seen := make(map[int]int)
	calls := 0
	frame, _, err := NewRaytracer(testWorld(), config, nil).Render(func(p Progress) {
		calls++
		assert.Equal(t, calls, p.RowsDone)
		assert.Equal(t, 10, p.TotalRows)
		seen[p.Row]++
	})
	require.NoError(t, err)

	assert.Equal(t, frame.Height(), calls)
	for row := 0; row < frame.Height(); row++ {
		assert.Equal(t, 1, seen[row], "row %d", row)
	}
}

func TestRaytracer_Stats(t *testing.T) {
	config := testConfig(6, 3, 4)
	config.NumWorkers = 2

	_, stats, err := NewRaytracer(testWorld(), config, nil).Render(nil)
	require.NoError(t, err)

	assert.Equal(t, 36, stats.TotalPixels())
	assert.Equal(t, 36*3, stats.TotalSamples)
	require.Len(t, stats.Workers, 2)

	rows, samples := 0, 0
	for id, w := range stats.Workers {
		assert.Equal(t, id, w.WorkerID)
		rows += w.Rows
		samples += w.Samples
	}
	assert.Equal(t, 6, rows)
	assert.Equal(t, stats.TotalSamples, samples)
}

func TestRaytracer_ZeroDepthIsBlack(t *testing.T) {
	frame, _, err := NewRaytracer(testWorld(), testConfig(4, 2, 0), nil).Render(nil)
	require.NoError(t, err)

	for _, sum := range frame.Pixels() {
		assert.Equal(t, core.Vec3{}, sum)
	}
}

func TestRaytracer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		world    core.Shape
		mutate   func(*Config)
		expected error
	}{
		{"no scene", nil, func(*Config) {}, ErrNoScene},
		{"zero samples", testWorld(), func(c *Config) { c.Sampling.SamplesPerPixel = 0 }, ErrInvalidSamples},
		{"negative depth", testWorld(), func(c *Config) { c.Sampling.MaxDepth = -1 }, ErrInvalidDepth},
		{"zero width", testWorld(), func(c *Config) { c.Camera.Width = 0 }, ErrInvalidDimensions},
		{"zero aspect", testWorld(), func(c *Config) { c.Camera.AspectRatio = 0 }, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig(4, 1, 1)
			tt.mutate(&config)

			frame, _, err := NewRaytracer(tt.world, config, nil).Render(nil)
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, frame)
		})
	}
}

// skyIntegrator ignores the world and returns a color keyed by the pixel's ray
type skyIntegrator struct{}

func (skyIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler) core.Color {
	return integrator.DefaultBackground().Evaluate(ray)
}

func TestRaytracer_SetIntegrator(t *testing.T) {
	rt := NewRaytracer(groundSphere(), testConfig(2, 1, 1), nil)
	rt.SetIntegrator(skyIntegrator{})
	rt.newSampler = func(seed int64) core.Sampler {
		return centeredSampler{core.NewSeededSampler(seed)}
	}

	frame, _, err := rt.Render(nil)
	require.NoError(t, err)

	// The ground no longer blocks the bottom row
	assert.NotEqual(t, core.Vec3{}, frame.Color(0, 1))
}
