package integrators

import "github.com/san-kum/bouncesim/internal/dynamo"

// Leapfrog keeps velocities half a step behind positions. Prime moves the
// initial velocity to t=-dt/2 so that each Step, which looks like
// semi-implicit Euler, realizes a second-order kick-drift scheme.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Prime(bodies []dynamo.Body, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		b.V.X = b.V.X - dt*b.F.X/(2*b.Mass)
		b.V.Y = b.V.Y - dt*b.F.Y/(2*b.Mass)
		b.V.Z = b.V.Z - dt*b.F.Z/(2*b.Mass)
	}
}

func (l *Leapfrog) Step(bodies []dynamo.Body, dt float64) {
	for i := range bodies {
		b := &bodies[i]

		b.V.X += dt * b.F.X / b.Mass
		b.R.X += b.V.X * dt

		b.V.Y += dt * b.F.Y / b.Mass
		b.R.Y += b.V.Y * dt

		b.V.Z += dt * b.F.Z / b.Mass
		b.R.Z += b.V.Z * dt
	}
}
