package config

import (
	"sort"

	"github.com/san-kum/bouncesim/internal/physics"
)

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"drop": withPhysics(func(p *PhysicsConfig) { p.Gravity = physics.StandardGravity },
		BodyConfig{Mass: DefaultMass, Radius: DefaultRadius, Position: [3]float64{1.0, 0, 3.0}}),
	"corner": withPhysics(nil,
		BodyConfig{Mass: DefaultMass, Radius: DefaultRadius, Position: [3]float64{2.5, 0, 9.5}, Velocity: [3]float64{2.0, 0, 2.0}}),
	"drift": withPhysics(nil,
		BodyConfig{Mass: DefaultMass, Radius: DefaultRadius, Position: [3]float64{1.0, 0, 5.0}, Velocity: [3]float64{0, 0.5, 0}}),
	"stiff": withPhysics(func(p *PhysicsConfig) {
		p.Gravity = physics.StandardGravity
		p.Stiffness = 5000
		p.Damping = 2.0
	}, BodyConfig{Mass: DefaultMass, Radius: DefaultRadius, Position: [3]float64{0, 0, 4.0}, Velocity: [3]float64{1.5, 0, 0}}),
	"pair": withPhysics(func(p *PhysicsConfig) { p.Gravity = physics.StandardGravity },
		DefaultBody(),
		BodyConfig{Mass: 0.5, Radius: 0.3, Position: [3]float64{2.0, 0, 6.0}, Velocity: [3]float64{-1.0, 0, 0}}),
}

func withPhysics(mutate func(*PhysicsConfig), bodies ...BodyConfig) *Config {
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg.Physics)
	}
	cfg.Bodies = bodies
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
