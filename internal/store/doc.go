// Package store provides SQLite-backed storage for batch runs.
//
// Each run is stored as:
//   - runs: one row per run with the request, its fingerprint and the
//     model and engine versions that produced it
//   - series_points: every (concentration, pH) row of every series
//   - integrals: one row per concentration
//
// Runs are append-only and ordered by seq. Reading a run back yields
// bit-identical series and integrals, since SQLite REAL columns hold
// IEEE-754 doubles.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
