// Package solver finds the free boron monomer concentration that reproduces
// a target total boron concentration at a given hydrogen-ion activity.
//
// Total boron is strictly increasing in x for y > 0, so once a sign change
// is bracketed Brent's method always converges. Bracketing failure is not an
// error: Solve falls back to a clamped estimate and flags the result as
// degraded so callers can count or report it.
package solver
