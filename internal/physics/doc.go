// Package physics provides the force model for spheres in a walled box.
//
// [Contact] implements [dynamo.ForceField]. Every evaluation zeroes the force
// accumulator and then adds, independently:
//
//   - gravity along -z
//   - a penalty spring and damper for each boundary the sphere overlaps:
//     the floor (z=0), the ceiling (z=ZMax) and the left and right walls
//     (x=XMin, x=XMax)
//
// A contact force exists only while the sphere penetrates a boundary. Its
// spring part is proportional to the overlap depth and its damper part to
// the velocity along the contact axis:
//
//	f = ±K*delta - B*m*v
//
// Bodies do not interact with each other.
//
// [Contact] also implements [dynamo.Hamiltonian], counting the stored spring
// energy of any active contact as potential energy.
package physics
