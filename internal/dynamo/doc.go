// Package dynamo provides the shared primitives of the sandbox.
//
// The package defines the small amount of math and plumbing every other
// package builds on:
//
//   - [Vec2]: 2D point/vector in world coordinates
//   - [SimError]: an error tagged with the tick it happened on
//   - [ParallelFor]: chunked fan-out over an index range
//
// World coordinates follow the rendering convention of a normalized
// [0,1] x [0,1] plane, but nothing here clamps to it.
//
// # Example
//
//	p := dynamo.Vec2{X: 0.2, Y: 0.5}
//	v := dynamo.Vec2{X: 1, Y: 0}
//	p = p.Add(v.Scale(dt))
package dynamo
