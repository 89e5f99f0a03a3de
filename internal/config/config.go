package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/interaction"
	"github.com/san-kum/headsim/internal/scene"
	"github.com/san-kum/headsim/internal/selection"
)

const (
	DefaultDt          = 0.02
	DefaultDuration    = 10.0
	DefaultSensitivity = 1.0
	DefaultYawRange    = 90.0
	DefaultPitchRange  = 90.0
	DefaultEyeHeight   = 1.0
	DefaultLogLevel    = "info"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Recognizer  RecognizerConfig  `yaml:"recognizer"`
	Selection   SelectionConfig   `yaml:"selection"`
	Interaction InteractionConfig `yaml:"interaction"`
	Camera      CameraConfig      `yaml:"camera"`
	Scene       SceneConfig       `yaml:"scene"`
	Session     SessionConfig     `yaml:"session"`
	LogLevel    string            `yaml:"log_level"`
}

type RecognizerConfig struct {
	MotionDeltaThreshold     float64 `yaml:"motion_delta_threshold"`
	GestureDurationThreshold float64 `yaml:"gesture_duration_threshold"`
	NodDown                  bool    `yaml:"nod_down"`
}

type SelectionConfig struct {
	SelectionTime   float64 `yaml:"selection_time"`
	FollowFactor    float64 `yaml:"follow_factor"`
	MaxOutlineWidth float64 `yaml:"max_outline_width"`
}

type InteractionConfig struct {
	FocusDistance float64 `yaml:"focus_distance"`
	SelectionMask uint32  `yaml:"selection_mask"`
}

type AxisConfig struct {
	Sensitivity float64 `yaml:"sensitivity"`
	Range       float64 `yaml:"range"`
}

type CameraConfig struct {
	Yaw    AxisConfig `yaml:"yaw"`
	Pitch  AxisConfig `yaml:"pitch"`
	Height float64    `yaml:"height"`
}

type ObjectConfig struct {
	Name     string     `yaml:"name"`
	Position [3]float64 `yaml:"position,flow"`
	Radius   float64    `yaml:"radius"`
	Layer    uint32     `yaml:"layer,omitempty"`
}

type SceneConfig struct {
	Gravity float64        `yaml:"gravity"`
	Floor   float64        `yaml:"floor"`
	Objects []ObjectConfig `yaml:"objects"`
}

type SessionConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
}

// DefaultObjects is a large orb straight ahead with two smaller ones to
// either side.
func DefaultObjects() []ObjectConfig {
	return []ObjectConfig{
		{Name: "orb", Position: [3]float64{0, 0.75, -4}, Radius: 0.75},
		{Name: "left-orb", Position: [3]float64{-3, 0.6, -4}, Radius: 0.6},
		{Name: "right-orb", Position: [3]float64{3, 0.6, -4}, Radius: 0.6},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Recognizer: RecognizerConfig{
			MotionDeltaThreshold:     gesture.DefaultMotionDeltaThreshold,
			GestureDurationThreshold: gesture.DefaultGestureDurationThreshold,
		},
		Selection: SelectionConfig{
			SelectionTime:   selection.DefaultSelectionTime,
			FollowFactor:    selection.DefaultFollowFactor,
			MaxOutlineWidth: selection.DefaultMaxOutlineWidth,
		},
		Interaction: InteractionConfig{
			FocusDistance: interaction.DefaultFocusDistance,
			SelectionMask: interaction.DefaultSelectionMask,
		},
		Camera: CameraConfig{
			Yaw:    AxisConfig{Sensitivity: DefaultSensitivity, Range: DefaultYawRange},
			Pitch:  AxisConfig{Sensitivity: DefaultSensitivity, Range: DefaultPitchRange},
			Height: DefaultEyeHeight,
		},
		Scene: SceneConfig{
			Gravity: scene.DefaultGravity,
			Floor:   scene.DefaultFloor,
			Objects: DefaultObjects(),
		},
		Session: SessionConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects out-of-range and NaN values.
func (c *Config) Validate() error {
	switch {
	case !(c.Recognizer.MotionDeltaThreshold >= 0):
		return fmt.Errorf("%w: recognizer.motion_delta_threshold must be >= 0", ErrInvalid)
	case !(c.Recognizer.GestureDurationThreshold > 0):
		return fmt.Errorf("%w: recognizer.gesture_duration_threshold must be > 0", ErrInvalid)
	case !(c.Selection.SelectionTime > 0):
		return fmt.Errorf("%w: selection.selection_time must be > 0", ErrInvalid)
	case !(c.Selection.FollowFactor >= 0):
		return fmt.Errorf("%w: selection.follow_factor must be >= 0", ErrInvalid)
	case !(c.Selection.MaxOutlineWidth >= 0):
		return fmt.Errorf("%w: selection.max_outline_width must be >= 0", ErrInvalid)
	case !(c.Interaction.FocusDistance > 0):
		return fmt.Errorf("%w: interaction.focus_distance must be > 0", ErrInvalid)
	case !inRange(c.Camera.Yaw.Range, 0, 180):
		return fmt.Errorf("%w: camera.yaw.range must be in [0, 180]", ErrInvalid)
	case !inRange(c.Camera.Pitch.Range, 0, 180):
		return fmt.Errorf("%w: camera.pitch.range must be in [0, 180]", ErrInvalid)
	case !(c.Session.Dt > 0):
		return fmt.Errorf("%w: session.dt must be > 0", ErrInvalid)
	case !(c.Session.Duration > 0):
		return fmt.Errorf("%w: session.duration must be > 0", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Scene.Objects))
	for i, o := range c.Scene.Objects {
		if o.Name == "" {
			return fmt.Errorf("%w: scene.objects[%d] has no name", ErrInvalid, i)
		}
		if seen[o.Name] {
			return fmt.Errorf("%w: duplicate object %q", ErrInvalid, o.Name)
		}
		seen[o.Name] = true
		if !(o.Radius > 0) {
			return fmt.Errorf("%w: object %q radius must be > 0", ErrInvalid, o.Name)
		}
	}
	return nil
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool { return v >= lo && v <= hi }

func (c *Config) GestureConfig() gesture.Config {
	return gesture.Config{
		MotionDeltaThreshold:     c.Recognizer.MotionDeltaThreshold,
		GestureDurationThreshold: c.Recognizer.GestureDurationThreshold,
		NodDown:                  c.Recognizer.NodDown,
	}
}

func (c *Config) SelectionConfig() selection.Config {
	return selection.Config{
		SelectionTime: c.Selection.SelectionTime,
		FollowFactor:  c.Selection.FollowFactor,
	}
}

func (c *Config) InteractionConfig() interaction.Config {
	return interaction.Config{
		FocusDistance: c.Interaction.FocusDistance,
		SelectionMask: c.Interaction.SelectionMask,
	}
}

func (c *Config) SceneConfig() scene.Config {
	objects := make([]scene.ObjectSpec, len(c.Scene.Objects))
	for i, o := range c.Scene.Objects {
		objects[i] = scene.ObjectSpec{
			Name:     o.Name,
			Position: mgl64.Vec3(o.Position),
			Radius:   o.Radius,
			Layer:    o.Layer,
		}
	}
	return scene.Config{
		Gravity:         c.Scene.Gravity,
		Floor:           c.Scene.Floor,
		MaxOutlineWidth: c.Selection.MaxOutlineWidth,
		Selection:       c.SelectionConfig(),
		Objects:         objects,
	}
}

// NewCameraRig builds a rig at eye height above the origin.
func (c *Config) NewCameraRig() *scene.CameraRig {
	return scene.NewCameraRig(
		mgl64.Vec3{0, c.Camera.Height, 0},
		scene.AxisSettings{Sensitivity: c.Camera.Yaw.Sensitivity, Range: c.Camera.Yaw.Range},
		scene.AxisSettings{Sensitivity: c.Camera.Pitch.Sensitivity, Range: c.Camera.Pitch.Range},
	)
}
