package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/interaction"
	"github.com/san-kum/headsim/internal/selection"
)

const (
	DefaultGravity = 9.81
	DefaultFloor   = 0.0
)

type Config struct {
	Gravity         float64
	Floor           float64
	MaxOutlineWidth float64
	Selection       selection.Config
	Objects         []ObjectSpec
}

// World owns the scene objects and answers ray casts against them.
type World struct {
	cfg     Config
	objects []*Object
	log     zerolog.Logger
}

func NewWorld(cfg Config, log zerolog.Logger) *World {
	w := &World{cfg: cfg, log: log}
	for _, spec := range cfg.Objects {
		w.objects = append(w.objects, NewObject(spec, cfg.Selection, cfg.MaxOutlineWidth, log))
	}
	return w
}

func (w *World) Objects() []*Object { return w.objects }

// Find returns the object with the given name, or nil.
func (w *World) Find(name string) *Object {
	for _, o := range w.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (w *World) Step(dt float64) {
	for _, o := range w.objects {
		o.Tick(dt, w.cfg.Gravity, w.cfg.Floor)
	}
}

// RaycastSelectable returns the nearest object on mask hit by the ray.
func (w *World) RaycastSelectable(origin, dir mgl64.Vec3, mask uint32) (interaction.Hit, bool) {
	if dir.Len() == 0 {
		return interaction.Hit{}, false
	}
	dir = dir.Normalize()

	var best *Object
	bestDist := math.Inf(1)
	for _, o := range w.objects {
		if o.Layer&mask == 0 {
			continue
		}
		if d, ok := o.Body.Intersect(origin, dir); ok && d < bestDist {
			best, bestDist = o, d
		}
	}
	if best == nil {
		return interaction.Hit{}, false
	}
	return interaction.Hit{
		Target:   best,
		Point:    origin.Add(dir.Mul(bestDist)),
		Distance: bestDist,
	}, true
}

// Reset puts every object back where it started with fresh selection state.
// Object identities are kept.
func (w *World) Reset() {
	for _, o := range w.objects {
		o.build(w.cfg.Selection, w.cfg.MaxOutlineWidth, w.log.With().Str("object", o.Name).Logger())
	}
	w.log.Info().Int("objects", len(w.objects)).Msg("scene reset")
}
