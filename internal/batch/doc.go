// Package batch evaluates boron speciation over a set of concentrations and
// a pH sampling grid.
//
// A Request names the concentrations as a spec string ("0.08",
// "0.02,0.05,0.08" or "0.01:0.10:0.01"), the pH bounds and the sample count.
// Evaluator.Run validates the request, then for each concentration in
// ascending order and each pH sample solves for the free monomer and records
// the species fractions. Each k_i column is integrated over the pH grid with
// the trapezoidal rule, giving one IntegralRow per concentration.
//
// # Determinism
//
// Every (concentration, pH) solve is independent and side-effect free. Runs
// with the same Request produce bit-identical results regardless of
// Options.Workers; concurrent workers write into pre-indexed slots so output
// order is always ascending concentration.
//
// # Errors
//
//   - *InputError: bad concentration spec, pH range or sample count. Nothing
//     is computed.
//   - Degraded roots are not errors. They are flagged per Row and counted in
//     Result.Degraded.
//   - *InternalError: a recovered panic. The batch is abandoned.
package batch
