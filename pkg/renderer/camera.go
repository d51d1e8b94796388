package renderer

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig contains the user-facing camera parameters
type CameraConfig struct {
	LookFrom      core.Point3 // Camera position
	LookAt        core.Point3 // Point the camera is looking at
	Up            core.Vec3   // World up direction
	Width         int         // Image width in pixels
	AspectRatio   float64     // Width / height
	VFov          float64     // Vertical field of view in degrees
	FocusDistance float64     // Distance to the plane of perfect focus (0 = distance to LookAt)
	DefocusAngle  float64     // Cone angle of rays through each pixel in degrees (0 = pinhole)
}

// DefaultCameraConfig returns the camera used when nothing else is specified
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	zero := core.Vec3{}
	result := base
	if !override.LookFrom.Equals(zero) {
		result.LookFrom = override.LookFrom
	}
	if !override.LookAt.Equals(zero) {
		result.LookAt = override.LookAt
	}
	if !override.Up.Equals(zero) {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	return result
}

// Camera generates rays for rendering.
//
// All fields except config are derived by initialize and are never set on
// their own.
type Camera struct {
	config CameraConfig

	height        int
	focusDistance float64
	center        core.Point3 // Camera center
	pixel00       core.Point3 // Upper-left corner of the viewport
	pixelDeltaU   core.Vec3   // Offset to the pixel to the right
	pixelDeltaV   core.Vec3   // Offset to the pixel below
	u, v, w       core.Vec3   // Camera frame basis vectors
	defocusDiskU  core.Vec3   // Defocus disk horizontal radius
	defocusDiskV  core.Vec3   // Defocus disk vertical radius
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	camera := &Camera{}
	camera.SetConfig(config)
	return camera
}

// SetConfig replaces the configuration and recomputes every derived field
func (c *Camera) SetConfig(config CameraConfig) {
	c.config = config
	c.initialize()
}

// Config returns the configuration the camera was last set up with
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height in pixels, derived from width and aspect ratio
func (c *Camera) Height() int {
	return c.height
}

// FocusDistance returns the focus distance in effect, resolving the automatic default
func (c *Camera) FocusDistance() float64 {
	return c.focusDistance
}

// GetCameraForward returns the viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

func (c *Camera) initialize() {
	cfg := c.config

	c.height = max(1, int(float64(cfg.Width)/cfg.AspectRatio))
	c.center = cfg.LookFrom

	c.focusDistance = cfg.FocusDistance
	if c.focusDistance <= 0 {
		c.focusDistance = cfg.LookFrom.Subtract(cfg.LookAt).Length()
	}

	// Viewport dimensions at the focus plane
	theta := degreesToRadians(cfg.VFov)
	viewportHeight := 2 * math.Tan(theta/2) * c.focusDistance
	viewportWidth := viewportHeight * float64(cfg.Width) / float64(c.height)

	// Orthonormal camera basis. Degenerate inputs (LookFrom == LookAt, Up
	// parallel to the view direction) produce NaNs here and are rejected by
	// callers before a camera is built.
	c.w = cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	c.u = cfg.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Negate().Multiply(viewportHeight)

	c.pixelDeltaU = viewportU.Divide(float64(cfg.Width))
	c.pixelDeltaV = viewportV.Divide(float64(c.height))

	c.pixel00 = c.center.
		Subtract(c.w.Multiply(c.focusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))

	defocusRadius := c.focusDistance * math.Tan(degreesToRadians(cfg.DefocusAngle/2))
	c.defocusDiskU = c.u.Multiply(defocusRadius)
	c.defocusDiskV = c.v.Multiply(defocusRadius)
}

// GetRay generates a ray through a random point inside pixel (i, j).
// Row j = 0 is the top scanline.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + jitter.X)).
		Add(c.pixelDeltaV.Multiply(float64(j) + jitter.Y))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// defocusDiskSample returns a random point on the camera's defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Point3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
