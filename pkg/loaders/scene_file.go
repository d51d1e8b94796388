package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var (
	ErrUnsupportedFormat = errors.New("loaders: unsupported scene file format")
	ErrUnknownMaterial   = errors.New("loaders: unknown material")
	ErrDegenerateCamera  = errors.New("loaders: degenerate camera")
	ErrInvalidField      = errors.New("loaders: invalid field")
)

// SceneFile is the on-disk scene description shared by the YAML and TOML
// formats. Zero-valued camera and sampling fields fall back to the renderer
// defaults.
type SceneFile struct {
	Camera     CameraSection           `yaml:"camera" toml:"camera"`
	Sampling   SamplingSection         `yaml:"sampling" toml:"sampling"`
	Background *BackgroundSection      `yaml:"background" toml:"background"`
	Materials  map[string]MaterialSpec `yaml:"materials" toml:"materials"`
	Spheres    []SphereSpec            `yaml:"spheres" toml:"spheres"`
}

// CameraSection mirrors renderer.CameraConfig
type CameraSection struct {
	LookFrom      []float64 `yaml:"look_from" toml:"look_from"`
	LookAt        []float64 `yaml:"look_at" toml:"look_at"`
	Up            []float64 `yaml:"up" toml:"up"`
	Width         int       `yaml:"width" toml:"width"`
	AspectRatio   float64   `yaml:"aspect_ratio" toml:"aspect_ratio"`
	VFov          float64   `yaml:"vfov" toml:"vfov"`
	FocusDistance float64   `yaml:"focus_distance" toml:"focus_distance"`
	DefocusAngle  float64   `yaml:"defocus_angle" toml:"defocus_angle"`
}

// SamplingSection mirrors renderer.SamplingConfig
type SamplingSection struct {
	SamplesPerPixel int `yaml:"samples_per_pixel" toml:"samples_per_pixel"`
	MaxDepth        int `yaml:"max_depth" toml:"max_depth"`
}

// BackgroundSection overrides the sky gradient
type BackgroundSection struct {
	Top    []float64 `yaml:"top" toml:"top"`
	Bottom []float64 `yaml:"bottom" toml:"bottom"`
}

// MaterialSpec describes one named material. Type is one of "lambertian",
// "metal" or "dielectric".
type MaterialSpec struct {
	Type   string    `yaml:"type" toml:"type"`
	Albedo []float64 `yaml:"albedo" toml:"albedo"`
	Fuzz   float64   `yaml:"fuzz" toml:"fuzz"`
	IOR    float64   `yaml:"ior" toml:"ior"`
}

// SphereSpec places a sphere with a named material. A negative radius
// makes a hollow shell.
type SphereSpec struct {
	Center   []float64 `yaml:"center" toml:"center"`
	Radius   float64   `yaml:"radius" toml:"radius"`
	Material string    `yaml:"material" toml:"material"`
}

// Format identifies a scene file syntax
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the syntax from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// LoadSceneFile reads, decodes and validates the scene file at path
func LoadSceneFile(path string) (*scene.Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: read %s: %w", path, err)
	}

	file, err := ParseSceneFile(data, format)
	if err != nil {
		return nil, fmt.Errorf("loaders: parse %s: %w", path, err)
	}

	s, err := file.Build()
	if err != nil {
		return nil, fmt.Errorf("loaders: %s: %w", path, err)
	}
	return s, nil
}

// ParseSceneFile decodes data in the given format. Unknown keys are errors.
func ParseSceneFile(data []byte, format Format) (*SceneFile, error) {
	var file SceneFile

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty document decodes to the defaults
		if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &file)
		if err != nil {
			return nil, err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidField, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return &file, nil
}

// Build validates the description and constructs the scene
func (f *SceneFile) Build() (*scene.Scene, error) {
	cameraConfig, err := f.Camera.config()
	if err != nil {
		return nil, err
	}

	sampling := renderer.DefaultSamplingConfig()
	if f.Sampling.SamplesPerPixel != 0 {
		sampling.SamplesPerPixel = f.Sampling.SamplesPerPixel
	}
	if f.Sampling.MaxDepth != 0 {
		sampling.MaxDepth = f.Sampling.MaxDepth
	}

	s := scene.NewScene(cameraConfig, sampling)
	if f.Background != nil {
		if s.Background, err = f.Background.background(s.Background); err != nil {
			return nil, err
		}
	}

	if err := s.RenderConfig(0, 0).Validate(); err != nil {
		return nil, err
	}

	materials, err := f.buildMaterials()
	if err != nil {
		return nil, err
	}

	for i, spec := range f.Spheres {
		center, err := vec3(spec.Center, fmt.Sprintf("spheres[%d].center", i))
		if err != nil {
			return nil, err
		}
		if spec.Radius == 0 {
			return nil, fmt.Errorf("%w: spheres[%d].radius must be non-zero", ErrInvalidField, i)
		}
		m, ok := materials[spec.Material]
		if !ok {
			return nil, fmt.Errorf("%w: spheres[%d] references %q", ErrUnknownMaterial, i, spec.Material)
		}
		s.Add(geometry.NewSphere(center, spec.Radius, m))
	}

	return s, nil
}

func (f *SceneFile) buildMaterials() (map[string]core.Material, error) {
	// Sorted so the first reported error does not depend on map order
	names := make([]string, 0, len(f.Materials))
	for name := range f.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	materials := make(map[string]core.Material, len(names))
	for _, name := range names {
		spec := f.Materials[name]
		switch strings.ToLower(spec.Type) {
		case "lambertian":
			albedo, err := vec3(spec.Albedo, "materials."+name+".albedo")
			if err != nil {
				return nil, err
			}
			materials[name] = material.NewLambertian(albedo)
		case "metal":
			albedo, err := vec3(spec.Albedo, "materials."+name+".albedo")
			if err != nil {
				return nil, err
			}
			materials[name] = material.NewMetal(albedo, spec.Fuzz)
		case "dielectric":
			if spec.IOR <= 0 {
				return nil, fmt.Errorf("%w: materials.%s.ior must be positive", ErrInvalidField, name)
			}
			materials[name] = material.NewDielectric(spec.IOR)
		default:
			return nil, fmt.Errorf("%w: %s has type %q", ErrUnknownMaterial, name, spec.Type)
		}
	}
	return materials, nil
}

func (c CameraSection) config() (renderer.CameraConfig, error) {
	var override renderer.CameraConfig
	var err error

	if len(c.LookFrom) > 0 {
		if override.LookFrom, err = vec3(c.LookFrom, "camera.look_from"); err != nil {
			return override, err
		}
	}
	if len(c.LookAt) > 0 {
		if override.LookAt, err = vec3(c.LookAt, "camera.look_at"); err != nil {
			return override, err
		}
	}
	if len(c.Up) > 0 {
		if override.Up, err = vec3(c.Up, "camera.up"); err != nil {
			return override, err
		}
	}
	override.Width = c.Width
	override.AspectRatio = c.AspectRatio
	override.VFov = c.VFov
	override.FocusDistance = c.FocusDistance
	override.DefocusAngle = c.DefocusAngle

	config := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), override)
	// A look_at of the origin is a legitimate target but a zero override
	if len(c.LookAt) > 0 {
		config.LookAt = override.LookAt
	}
	if len(c.LookFrom) > 0 {
		config.LookFrom = override.LookFrom
	}

	if err := ValidateCamera(config); err != nil {
		return config, err
	}
	return config, nil
}

// ValidateCamera rejects configurations whose camera basis cannot be built
func ValidateCamera(config renderer.CameraConfig) error {
	view := config.LookFrom.Subtract(config.LookAt)
	if view.NearZero() {
		return fmt.Errorf("%w: look_from and look_at coincide", ErrDegenerateCamera)
	}
	if config.Up.Cross(view).NearZero() {
		return fmt.Errorf("%w: up is parallel to the view direction", ErrDegenerateCamera)
	}
	if !(config.VFov > 0 && config.VFov < 180) {
		return fmt.Errorf("%w: vfov %g outside (0, 180)", ErrDegenerateCamera, config.VFov)
	}
	return nil
}

func (b BackgroundSection) background(base integrator.Background) (integrator.Background, error) {
	var err error
	if len(b.Top) > 0 {
		if base.Top, err = vec3(b.Top, "background.top"); err != nil {
			return base, err
		}
	}
	if len(b.Bottom) > 0 {
		if base.Bottom, err = vec3(b.Bottom, "background.bottom"); err != nil {
			return base, err
		}
	}
	return base, nil
}

func vec3(values []float64, field string) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrInvalidField, field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}
