package config

import (
	"sort"

	"github.com/san-kum/attractor/internal/physics"
)

func wanderer(mass float64) []AttractorConfig {
	return []AttractorConfig{{Mass: mass, Motion: physics.MotionWander, Amplitude: DefaultAmplitude}}
}

var Presets = map[string]*Config{
	"low": {
		Quality: "low", Multiplier: DefaultMultiplier, FPS: DefaultFPS,
		Attractors: wanderer(DefaultMass),
	},
	"medium": {
		Quality: "medium", Multiplier: DefaultMultiplier, FPS: DefaultFPS,
		Attractors: wanderer(DefaultMass),
	},
	"high": {
		Quality: "high", Multiplier: DefaultMultiplier, FPS: DefaultFPS,
		Attractors: wanderer(DefaultMass),
	},
	"ultra": {
		Quality: "ultra", Multiplier: DefaultMultiplier, FPS: DefaultFPS,
		Attractors: wanderer(DefaultMass),
	},
	"anchored": {
		Quality: "medium", Multiplier: DefaultMultiplier, FPS: DefaultFPS,
		Attractors: []AttractorConfig{{Mass: physics.DefaultPointMass, Motion: physics.MotionStatic}},
		Camera:     CameraConfig{View: "outside"},
	},
	"drift": {
		Quality: "medium", Multiplier: DefaultMultiplier, FPS: DefaultFPS, Seed: 7,
		Attractors: []AttractorConfig{{Mass: DefaultMass, Motion: physics.MotionPerlin, Amplitude: 12}},
	},
	"binary": {
		Quality: "high", Multiplier: DefaultMultiplier, FPS: DefaultFPS,
		Attractors: []AttractorConfig{
			{Mass: DefaultMass, Motion: physics.MotionWander, Amplitude: DefaultAmplitude},
			{Mass: DefaultMass / 2, Position: [3]float64{-15, 0, 0}, Motion: physics.MotionStatic},
		},
		Camera: CameraConfig{View: "outside"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	c.Attractors = append([]AttractorConfig(nil), p.Attractors...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
