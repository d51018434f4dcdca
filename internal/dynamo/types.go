package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a sphere treated as a point mass. F is transient: a ForceField
// rebuilds it from R and V on every evaluation.
type Body struct {
	Mass   float64
	Radius float64
	R      r3.Vec
	V      r3.Vec
	F      r3.Vec
}

// NewBody returns a body at rest force-wise, validated.
func NewBody(mass, radius float64, r, v r3.Vec) (Body, error) {
	b := Body{Mass: mass, Radius: radius, R: r, V: v}
	if err := b.Validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

func (b Body) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidBody, b.Mass)
	}
	if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidBody, b.Radius)
	}
	if !b.IsValid() {
		return fmt.Errorf("%w: non-finite position or velocity", ErrInvalidBody)
	}
	return nil
}

// IsValid reports whether every vector component is finite.
func (b Body) IsValid() bool {
	for _, v := range [...]r3.Vec{b.R, b.V, b.F} {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return false
		}
	}
	return true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Speed returns |V|.
func (b Body) Speed() float64 {
	return r3.Norm(b.V)
}

func CloneBodies(bodies []Body) []Body {
	c := make([]Body, len(bodies))
	copy(c, bodies)
	return c
}

// ForceField computes the net force on every body. Implementations must
// reset F before accumulating so the result depends only on R and V.
type ForceField interface {
	Apply(bodies []Body)
}

// Hamiltonian is implemented by force fields that can report the
// mechanical energy of a body.
type Hamiltonian interface {
	Energy(b Body) float64
}

type Integrator interface {
	// Prime prepares velocities for the first Step. It runs once, after the
	// initial force evaluation.
	Prime(bodies []Body, dt float64)
	Step(bodies []Body, dt float64)
}

type Metric interface {
	Name() string
	Observe(bodies []Body, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t float64, bodies []Body) error
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(step int, t float64, bodies []Body) error

func (f ObserverFunc) OnStep(step int, t float64, bodies []Body) error {
	return f(step, t, bodies)
}

type Config struct {
	Dt            float64
	Steps         int
	Track         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Steps:         1000,
		Track:         0,
		ValidateState: true,
	}
}

// Sample is the tracked body's kinematic state at one reported step.
type Sample struct {
	R r3.Vec
	V r3.Vec
}

type Result struct {
	Times      []float64
	Samples    []Sample
	Final      []Body
	Metrics    map[string]float64
	StepsTaken int
}
