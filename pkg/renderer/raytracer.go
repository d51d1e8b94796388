package renderer

import (
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Config is everything a render needs besides the scene itself
type Config struct {
	Camera     CameraConfig
	Sampling   SamplingConfig
	Background integrator.Background
	Seed       int64 // Row r is sampled from a generator seeded with Seed+r
	NumWorkers int   // 0 = one worker per CPU
}

// DefaultConfig returns the default camera, sampling and sky
func DefaultConfig() Config {
	return Config{
		Camera:     DefaultCameraConfig(),
		Sampling:   DefaultSamplingConfig(),
		Background: integrator.DefaultBackground(),
		Seed:       42,
	}
}

// Validate reports the first setting that makes a render impossible
func (c Config) Validate() error {
	if c.Camera.Width <= 0 || !(c.Camera.AspectRatio > 0) {
		return fmt.Errorf("%w: width %d, aspect ratio %g", ErrInvalidDimensions, c.Camera.Width, c.Camera.AspectRatio)
	}
	if c.Sampling.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSamples, c.Sampling.SamplesPerPixel)
	}
	if c.Sampling.MaxDepth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, c.Sampling.MaxDepth)
	}
	return nil
}

// Progress is reported once per finished scanline
type Progress struct {
	RowsDone  int // Scanlines finished so far, including Row
	TotalRows int
	Row       int // The scanline that just finished
}

// Raytracer renders a world into a Frame using a pool of scanline workers
type Raytracer struct {
	world      core.Shape
	config     Config
	integrator integrator.Integrator
	logger     log.Logger

	// newSampler creates the generator owned by one scanline
	newSampler func(seed int64) core.Sampler
}

// NewRaytracer creates a raytracer for world. A nil logger logs under the
// "renderer" module.
func NewRaytracer(world core.Shape, config Config, logger log.Logger) *Raytracer {
	if logger == nil {
		logger = log.New("renderer")
	}
	return &Raytracer{
		world:  world,
		config: config,
		logger: logger,
		newSampler: func(seed int64) core.Sampler {
			return core.NewSeededSampler(seed)
		},
	}
}

// SetIntegrator replaces the path tracer built from the config
func (rt *Raytracer) SetIntegrator(i integrator.Integrator) {
	rt.integrator = i
}

// Config returns the render configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Render traces every pixel of the frame. progress may be nil; it is called
// from the calling goroutine once per finished scanline, in completion order.
func (rt *Raytracer) Render(progress func(Progress)) (*Frame, RenderStats, error) {
	if rt.world == nil {
		return nil, RenderStats{}, ErrNoScene
	}
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, err
	}

	camera := NewCamera(rt.config.Camera)
	integ := rt.integrator
	if integ == nil {
		integ = integrator.NewPathTracingIntegrator(rt.config.Sampling.MaxDepth, rt.config.Background)
	}

	width, height := camera.Width(), camera.Height()
	spp := rt.config.Sampling.SamplesPerPixel
	frame := NewFrame(width, height, spp)

	pool := NewWorkerPool(func(row int) int {
		return rt.renderRow(camera, integ, frame, row)
	}, height, rt.config.NumWorkers)

	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: spp,
		Workers:         make([]WorkerStats, pool.GetNumWorkers()),
	}
	for i := range stats.Workers {
		stats.Workers[i].WorkerID = i
	}

	rt.logger.Infof("Rendering %dx%d at %d samples/pixel, max depth %d (using %d workers)",
		width, height, spp, rt.config.Sampling.MaxDepth, pool.GetNumWorkers())

	start := time.Now()
	pool.Start()
	for row := 0; row < height; row++ {
		pool.SubmitTask(RowTask{Row: row})
	}

	for done := 1; done <= height; done++ {
		result, _ := pool.GetResult()
		stats.addRow(result)
		rt.logger.Debugf("Row %d finished by worker %d in %v", result.Row, result.WorkerID, result.Elapsed)
		if progress != nil {
			progress(Progress{RowsDone: done, TotalRows: height, Row: result.Row})
		}
	}
	pool.Stop()
	stats.Duration = time.Since(start)

	rt.logger.Noticef("Rendered %dx%d in %v", width, height, stats.Duration)
	return frame, stats, nil
}

// renderRow fills scanline row of frame and returns the camera rays traced
func (rt *Raytracer) renderRow(camera *Camera, integ integrator.Integrator, frame *Frame, row int) int {
	sampler := rt.newSampler(rt.config.Seed + int64(row))
	spp := rt.config.Sampling.SamplesPerPixel
	pixels := frame.row(row)

	for i := range pixels {
		pixelColor := core.Vec3{X: 0, Y: 0, Z: 0}
		for s := 0; s < spp; s++ {
			ray := camera.GetRay(i, row, sampler)
			pixelColor = pixelColor.Add(integ.RayColor(ray, rt.world, sampler))
		}
		pixels[i] = pixelColor
	}

	return len(pixels) * spp
}
