// Package physics provides the two entities of the sandbox.
//
//   - [Body]: a poolball that owns its position and velocity
//   - [Attractor]: a fixed blackhole with a destructive horizon and a
//     wider gravitational reach
//
// Neither entity knows how it is drawn or when it is removed. A tick
// driver accumulates accelerations into each body, integrates positions,
// and asks every attractor whether a body has been spaghettified:
//
//	for _, a := range attractors {
//	    b.ApplyAcceleration(a.Acceleration(b.Position, g, 0), dt)
//	}
//	b.Integrate(dt)
//	if a.IsDestructive(b) {
//	    // remove b
//	}
//
// # Invariants
//
// Mass and radius are expected to be positive and an attractor's radius
// not to exceed its reach. Constructors store their arguments verbatim;
// call [BodyParams.Validate] or [Attractor.Validate] where untrusted
// input enters.
package physics
