// Package dynamo provides the core primitives for stepping point-mass bodies
// through a box of penalty walls.
//
// The package defines the types shared by every other package:
//
//   - [Body]: mass, radius and the position, velocity and force vectors
//   - [ForceField]: recomputes the force on every body from scratch
//   - [Integrator]: advances velocities and positions by one step
//   - [Metric] and [Observer]: per-step hooks
//   - [Simulator]: orchestrates a run
//
// # Example
//
//	forces := physics.NewContact(physics.DefaultParams())
//	s := dynamo.New(forces, integrators.NewLeapfrog())
//	if err := s.Initialize(bodies, 0.01); err != nil {
//	    return err
//	}
//	result, err := s.Run(ctx, dynamo.Config{Dt: 0.01, Steps: 1000})
//
// # Ordering
//
// A leapfrog run needs the force at t=0 before velocities are staggered by
// half a step. [Simulator.Initialize] does both, and [Simulator.Step] and
// [Simulator.Run] refuse to start until it has been called.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. The body slice is owned by the
// simulator for the whole run.
package dynamo
