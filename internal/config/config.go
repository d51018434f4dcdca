package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/physics"
	"github.com/san-kum/bouncesim/internal/report"
)

const (
	DefaultDt         = 0.01
	DefaultSteps      = 1000
	DefaultIntegrator = "leapfrog"
	DefaultMass       = 1.23
	DefaultRadius     = 0.16
	DefaultZ          = 7.86
	DefaultVX         = 0.87
	DefaultVZ         = 1.32
	DefaultCSVDir     = "."
)

type Config struct {
	Dt         float64       `yaml:"dt"`
	Steps      int           `yaml:"steps"`
	Integrator string        `yaml:"integrator"`
	Track      int           `yaml:"track"`
	Physics    PhysicsConfig `yaml:"physics"`
	Bodies     []BodyConfig  `yaml:"bodies"`
	Output     OutputConfig  `yaml:"output"`
}

type PhysicsConfig struct {
	Gravity   float64 `yaml:"gravity"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	XMin      float64 `yaml:"x_min"`
	XMax      float64 `yaml:"x_max"`
	ZMax      float64 `yaml:"z_max"`
}

type BodyConfig struct {
	Mass     float64    `yaml:"mass"`
	Radius   float64    `yaml:"radius"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
}

type OutputConfig struct {
	Snapshot string `yaml:"snapshot"`
	CSV      bool   `yaml:"csv"`
	CSVDir   string `yaml:"csv_dir"`
}

func DefaultBody() BodyConfig {
	return BodyConfig{
		Mass:     DefaultMass,
		Radius:   DefaultRadius,
		Position: [3]float64{0, 0, DefaultZ},
		Velocity: [3]float64{DefaultVX, 0, DefaultVZ},
	}
}

func DefaultPhysics() PhysicsConfig {
	p := physics.DefaultParams()
	return PhysicsConfig{
		Gravity:   p.Gravity,
		Stiffness: p.Stiffness,
		Damping:   p.Damping,
		XMin:      p.Box.XMin,
		XMax:      p.Box.XMax,
		ZMax:      p.Box.ZMax,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Integrator: DefaultIntegrator,
		Physics:    DefaultPhysics(),
		Bodies:     []BodyConfig{DefaultBody()},
		Output: OutputConfig{
			Snapshot: report.DefaultSnapshotFile,
			CSVDir:   DefaultCSVDir,
		},
	}
}

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
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Clone returns a deep copy so presets can be edited by callers.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &cp
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrParameterBounds, c.Steps)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: at least one body is required", dynamo.ErrInvalidBody)
	}
	if c.Track < 0 || c.Track >= len(c.Bodies) {
		return fmt.Errorf("%w: track index %d out of range", dynamo.ErrParameterBounds, c.Track)
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := c.InitialBodies(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		Gravity:   c.Physics.Gravity,
		Stiffness: c.Physics.Stiffness,
		Damping:   c.Physics.Damping,
		Box: physics.Box{
			XMin: c.Physics.XMin,
			XMax: c.Physics.XMax,
			ZMax: c.Physics.ZMax,
		},
	}
}

// InitialBodies builds validated bodies; force starts at zero.
func (c *Config) InitialBodies() ([]dynamo.Body, error) {
	bodies := make([]dynamo.Body, 0, len(c.Bodies))
	for i, bc := range c.Bodies {
		b, err := dynamo.NewBody(bc.Mass, bc.Radius, toVec(bc.Position), toVec(bc.Velocity))
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt,
		Steps:         c.Steps,
		Track:         c.Track,
		ValidateState: true,
	}
}

func toVec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
