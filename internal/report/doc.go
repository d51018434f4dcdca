// Package report writes simulation output.
//
//   - [Console]: one whitespace-separated line per step on a stream
//   - [WriteSnapshot] and [SaveSnapshot]: the final state of every body
//   - [CSVFrames]: optional per-step position files
//
// [Console] and [CSVFrames] implement [dynamo.Observer].
package report
