package gather

import (
	"fmt"
	"math"
	"os"

	"github.com/gekko3d/gather/num"
	"gopkg.in/yaml.v3"
)

// SceneDef describes the cameras and ambient light of a scene file:
//
//	ambient: "#1a1a26"
//	active_camera: main
//	entities:
//	  - name: rig
//	    transform: {translation: [0, 2, 10]}
//	  - name: main
//	    parent: rig
//	    transform: {rotation: {axis: [0, 1, 0], degrees: 30}}
//	    camera: {kind: perspective, fovy: 60, aspect: 1.7778, near: 0.1, far: 2000}
type SceneDef struct {
	Ambient      string      `yaml:"ambient"`
	ActiveCamera string      `yaml:"active_camera"`
	Entities     []EntityDef `yaml:"entities"`
}

type EntityDef struct {
	Name      string         `yaml:"name"`
	Parent    string         `yaml:"parent"`
	Transform *TransformDef  `yaml:"transform"`
	Camera    *ProjectionDef `yaml:"camera"`
}

type TransformDef struct {
	Translation []float64    `yaml:"translation"`
	Rotation    *RotationDef `yaml:"rotation"`
	Scale       []float64    `yaml:"scale"`
}

type RotationDef struct {
	Axis    []float64 `yaml:"axis"`
	Degrees float64   `yaml:"degrees"`
}

// ProjectionDef selects a camera projection. Angles are in degrees.
type ProjectionDef struct {
	Kind   string  `yaml:"kind"` // orthographic, perspective, standard_2d, standard_3d
	Left   float32 `yaml:"left"`
	Right  float32 `yaml:"right"`
	Bottom float32 `yaml:"bottom"`
	Top    float32 `yaml:"top"`
	Fovy   float32 `yaml:"fovy"`
	Aspect float32 `yaml:"aspect"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

func LoadScene(path string) (*SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return scene, nil
}

func ParseScene(data []byte) (*SceneDef, error) {
	var scene SceneDef
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &scene, nil
}

func (p ProjectionDef) Camera() (Camera, error) {
	switch p.Kind {
	case "orthographic":
		return Orthographic(p.Left, p.Right, p.Bottom, p.Top, p.Near, p.Far), nil
	case "perspective":
		if p.Aspect == 0 {
			return Camera{}, fmt.Errorf("perspective camera needs a non-zero aspect")
		}
		return Perspective(p.Aspect, degToRad32(p.Fovy), p.Near, p.Far), nil
	case "standard_2d":
		return Standard2D(p.Width, p.Height), nil
	case "standard_3d":
		if p.Height == 0 {
			return Camera{}, fmt.Errorf("standard_3d camera needs a non-zero height")
		}
		return Standard3D(p.Width, p.Height), nil
	default:
		return Camera{}, fmt.Errorf("unknown camera kind %q", p.Kind)
	}
}

func transformFromDef[N num.Real](def *TransformDef) (Transform[N], error) {
	t := NewTransform[N]()
	if def == nil {
		return t, nil
	}
	if def.Translation != nil {
		v, err := vec3Def[N]("translation", def.Translation)
		if err != nil {
			return t, err
		}
		t.Translation = v
	}
	if def.Scale != nil {
		v, err := vec3Def[N]("scale", def.Scale)
		if err != nil {
			return t, err
		}
		t.Scale = v
	}
	if def.Rotation != nil {
		axis, err := vec3Def[N]("rotation axis", def.Rotation.Axis)
		if err != nil {
			return t, err
		}
		t.Rotation = num.QuatRotate(N(def.Rotation.Degrees*math.Pi/180), axis)
	}
	return t, nil
}

func vec3Def[N num.Real](field string, v []float64) (num.Vec3[N], error) {
	if len(v) != 3 {
		return num.Vec3[N]{}, fmt.Errorf("%s: want 3 components, got %d", field, len(v))
	}
	return num.Vec3[N]{N(v[0]), N(v[1]), N(v[2])}, nil
}

func degToRad32(deg float32) float32 {
	return deg * math.Pi / 180
}

// SpawnScene adds the scene's entities to w, sets the AmbientColor and
// ActiveCamera resources it names, and resolves the transform hierarchy.
//
// An empty ambient or active_camera clears the corresponding resource.
func SpawnScene[N num.Real](w *World, scene *SceneDef) (*SpawnedScene, error) {
	var ambient *AmbientColor
	if scene.Ambient != "" {
		c, err := ParseAmbientColor(scene.Ambient)
		if err != nil {
			return nil, err
		}
		ambient = c
	}

	type pending struct {
		def       EntityDef
		transform Transform[N]
		camera    *Camera
	}
	prepared := make([]pending, 0, len(scene.Entities))
	names := make(map[string]struct{})
	for i, def := range scene.Entities {
		if def.Name != "" {
			if _, dup := names[def.Name]; dup {
				return nil, fmt.Errorf("entity %d: duplicate name %q", i, def.Name)
			}
			names[def.Name] = struct{}{}
		}
		tr, err := transformFromDef[N](def.Transform)
		if err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, def.Name, err)
		}
		p := pending{def: def, transform: tr}
		if def.Camera != nil {
			cam, err := def.Camera.Camera()
			if err != nil {
				return nil, fmt.Errorf("entity %d (%s): %w", i, def.Name, err)
			}
			p.camera = &cam
		}
		prepared = append(prepared, p)
	}
	for i, p := range prepared {
		if p.def.Parent == "" {
			continue
		}
		if _, ok := names[p.def.Parent]; !ok {
			return nil, fmt.Errorf("entity %d (%s): unknown parent %q", i, p.def.Name, p.def.Parent)
		}
	}
	if scene.ActiveCamera != "" {
		found := false
		for _, p := range prepared {
			if p.def.Name == scene.ActiveCamera && p.camera != nil {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("active camera %q is not a named camera entity", scene.ActiveCamera)
		}
	}

	spawned := make(map[string]EntityId)
	ids := make([]EntityId, len(prepared))
	for i, p := range prepared {
		comps := []any{&p.transform}
		if p.camera != nil {
			comps = append(comps, p.camera)
		}
		if p.def.Name != "" {
			comps = append(comps, &Name{Value: p.def.Name})
		}
		ids[i] = w.Spawn(comps...)
		if p.def.Name != "" {
			spawned[p.def.Name] = ids[i]
		}
	}
	for i, p := range prepared {
		if p.def.Parent != "" {
			w.Insert(ids[i], &Parent{Entity: spawned[p.def.Parent]})
		}
	}

	if ambient != nil {
		w.SetResource(ambient)
	} else {
		w.RemoveResource(AmbientColor{})
	}
	if scene.ActiveCamera != "" {
		w.SetResource(&ActiveCamera{Entity: spawned[scene.ActiveCamera]})
	} else {
		w.RemoveResource(ActiveCamera{})
	}

	TransformHierarchySystem[N](w)
	LoggerOf(w).Debugf("scene spawned %d entities (%d named)", len(ids), len(spawned))
	return &SpawnedScene{Entities: ids, Named: spawned}, nil
}

// SpawnedScene lists what SpawnScene added to a world.
type SpawnedScene struct {
	Entities []EntityId
	Named    map[string]EntityId
}

// ReloadScene despawns previous and spawns scene in its place. The scene is
// validated against a scratch world first, so on error w is left untouched.
func ReloadScene[N num.Real](w *World, scene *SceneDef, previous *SpawnedScene) (*SpawnedScene, error) {
	if _, err := SpawnScene[N](NewWorld(), scene); err != nil {
		return nil, err
	}
	if previous != nil {
		for _, eid := range previous.Entities {
			w.Despawn(eid)
		}
	}
	return SpawnScene[N](w, scene)
}
