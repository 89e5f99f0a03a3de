package config

import "sort"

// Presets are tuning variations over DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"slow-select": func(c *Config) {
		c.Selection.SelectionTime = 1.5
		c.Selection.FollowFactor = 0.5
	},
	"twitchy": func(c *Config) {
		c.Recognizer.MotionDeltaThreshold = 0.5
		c.Recognizer.GestureDurationThreshold = 0.4
		c.Camera.Yaw.Sensitivity = 2.0
		c.Camera.Pitch.Sensitivity = 2.0
	},
	"strict-gestures": func(c *Config) {
		c.Recognizer.MotionDeltaThreshold = 1.5
		c.Recognizer.GestureDurationThreshold = 0.15
	},
	"nod-both-ways": func(c *Config) {
		c.Recognizer.NodDown = true
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
