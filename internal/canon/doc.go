// Package canon serializes values to canonical JSON and derives
// content-addressed hashes from them.
//
// Two uses in borate: request fingerprints, so a stored run can be found
// again from an equivalent request, and byte-stable golden snapshots in
// tests.
package canon
