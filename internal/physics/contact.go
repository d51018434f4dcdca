package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/bouncesim/internal/dynamo"
)

type Wall int

const (
	Floor Wall = iota
	Ceiling
	Left
	Right
)

func (w Wall) String() string {
	switch w {
	case Floor:
		return "floor"
	case Ceiling:
		return "ceiling"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Overlap is an active contact: which wall and how deep.
type Overlap struct {
	Wall  Wall
	Depth float64
}

type Contact struct {
	params Params
}

func NewContact(p Params) *Contact {
	return &Contact{params: p}
}

func (c *Contact) Params() Params { return c.params }

// Apply implements dynamo.ForceField.
func (c *Contact) Apply(bodies []dynamo.Body) {
	for i := range bodies {
		bodies[i].F = r3.Vec{}
	}

	k, damp, box := c.params.Stiffness, c.params.Damping, c.params.Box

	for i := range bodies {
		b := &bodies[i]

		b.F.Z -= b.Mass * c.params.Gravity

		delta := b.Radius - b.R.Z
		if delta > 0 {
			b.F.Z += k*delta - damp*b.Mass*b.V.Z
		}

		delta = b.R.X + b.Radius - box.XMax
		if delta > 0 {
			b.F.X += -k*delta - damp*b.Mass*b.V.X
		}

		delta = box.XMin - (b.R.X - b.Radius)
		if delta > 0 {
			b.F.X += k*delta - damp*b.Mass*b.V.X
		}

		delta = b.R.Z + b.Radius - box.ZMax
		if delta > 0 {
			b.F.Z += -k*delta - damp*b.Mass*b.V.Z
		}
	}
}

// Overlaps lists the boundaries b currently penetrates.
func (c *Contact) Overlaps(b dynamo.Body) []Overlap {
	box := c.params.Box
	depths := [...]float64{
		Floor:   b.Radius - b.R.Z,
		Ceiling: b.R.Z + b.Radius - box.ZMax,
		Left:    box.XMin - (b.R.X - b.Radius),
		Right:   b.R.X + b.Radius - box.XMax,
	}

	var out []Overlap
	for w, d := range depths {
		if d > 0 {
			out = append(out, Overlap{Wall: Wall(w), Depth: d})
		}
	}
	return out
}

// Energy implements dynamo.Hamiltonian: kinetic, gravitational and the
// elastic energy stored in active contact springs. Potential is measured
// from the floor plane.
func (c *Contact) Energy(b dynamo.Body) float64 {
	e := 0.5*b.Mass*r3.Norm2(b.V) + b.Mass*c.params.Gravity*b.R.Z
	for _, o := range c.Overlaps(b) {
		e += 0.5 * c.params.Stiffness * o.Depth * o.Depth
	}
	return e
}
