package integrators

import "github.com/san-kum/bouncesim/internal/dynamo"

// Euler is the explicit forward scheme: the drift uses the velocity from
// before the kick. First order, and it slowly pumps energy into contacts.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Prime(bodies []dynamo.Body, dt float64) {}

func (e *Euler) Step(bodies []dynamo.Body, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		b.R.X += b.V.X * dt
		b.R.Y += b.V.Y * dt
		b.R.Z += b.V.Z * dt
		b.V.X += dt * b.F.X / b.Mass
		b.V.Y += dt * b.F.Y / b.Mass
		b.V.Z += dt * b.F.Z / b.Mass
	}
}
