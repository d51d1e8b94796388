package scene

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScene is returned by Lookup for names with no built-in scene
var ErrUnknownScene = errors.New("scene: unknown built-in scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
	New         func() *Scene
}

var builtins = map[string]SceneInfo{
	"default": {
		Name:        "default",
		Description: "Two tangent spheres on a yellow ground with glass and metal companions",
		New:         NewDefaultScene,
	},
	"materials": {
		Name:        "materials",
		Description: "Diffuse, hollow glass and metal spheres seen through a shallow depth of field",
		New:         NewMaterialsScene,
	},
	"random": {
		Name:        "random",
		Description: "Hundreds of small random spheres around three large ones",
		New: func() *Scene {
			return NewRandomScene(RandomSceneSeed)
		},
	},
	"ground": {
		Name:        "ground",
		Description: "A single gray ground sphere under the sky",
		New:         NewGroundScene,
	},
}

// Builtins returns every built-in scene sorted by name
func Builtins() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, info := range builtins {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Lookup builds the built-in scene called name
func Lookup(name string) (*Scene, error) {
	info, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return info.New(), nil
}
