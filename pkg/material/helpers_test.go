package material

import "github.com/df07/go-pathtracer/pkg/core"

// constantSampler returns the same value for every draw
type constantSampler struct {
	value float64
}

func (c constantSampler) Get1D() float64 { return c.value }
func (c constantSampler) Get2D() core.Vec2 {
	return core.NewVec2(c.value, c.value)
}
func (c constantSampler) Get3D() core.Vec3 {
	return core.NewVec3(c.value, c.value, c.value)
}

// countingSampler wraps a sampler and counts 1D draws
type countingSampler struct {
	core.Sampler
	draws1D int
}

func (c *countingSampler) Get1D() float64 {
	c.draws1D++
	return c.Sampler.Get1D()
}
