package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

const (
	DefaultGravity   = 0.0
	DefaultStiffness = 323.9
	DefaultDamping   = 0.9
	DefaultXMin      = -0.5
	DefaultXMax      = 3.2
	DefaultZMax      = 10.32

	// StandardGravity is what the drop presets use.
	StandardGravity = 9.81
)

// Box is the container. The floor is always the z=0 plane; y is unbounded.
type Box struct {
	XMin float64
	XMax float64
	ZMax float64
}

type Params struct {
	Gravity   float64
	Stiffness float64
	Damping   float64
	Box       Box
}

func DefaultParams() Params {
	return Params{
		Gravity:   DefaultGravity,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
		Box: Box{
			XMin: DefaultXMin,
			XMax: DefaultXMax,
			ZMax: DefaultZMax,
		},
	}
}

func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"gravity":   p.Gravity,
		"stiffness": p.Stiffness,
		"damping":   p.Damping,
		"x_min":     p.Box.XMin,
		"x_max":     p.Box.XMax,
		"z_max":     p.Box.ZMax,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", dynamo.ErrParameterBounds, name)
		}
	}
	if p.Stiffness < 0 {
		return fmt.Errorf("%w: stiffness must be non-negative, got %g", dynamo.ErrParameterBounds, p.Stiffness)
	}
	if p.Damping < 0 {
		return fmt.Errorf("%w: damping must be non-negative, got %g", dynamo.ErrParameterBounds, p.Damping)
	}
	if p.Box.XMin >= p.Box.XMax {
		return fmt.Errorf("%w: x_min %g must be below x_max %g", dynamo.ErrParameterBounds, p.Box.XMin, p.Box.XMax)
	}
	if p.Box.ZMax <= 0 {
		return fmt.Errorf("%w: z_max must be above the floor, got %g", dynamo.ErrParameterBounds, p.Box.ZMax)
	}
	return nil
}

// StableDt is the largest step for which the explicit scheme stays stable
// on a free contact spring of the given mass (dt*omega < 2).
func (p Params) StableDt(mass float64) float64 {
	if p.Stiffness <= 0 || mass <= 0 {
		return math.Inf(1)
	}
	return 2 / math.Sqrt(p.Stiffness/mass)
}
