// Package harness runs batch evaluation scenarios as executable tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: reference_run
//	description: "Default request of the original tool"
//	request:
//	  concentrations: "0.08"
//	  ph_min: 8.6
//	  ph_max: 10.1
//	  points: 300
//	workers: 2
//	assertions:
//	  - type: series_count
//	    count: 1
//	  - type: integral_range
//	    concentration: 0.08
//	    species: 5
//	    min: 0.5
//	    max: 1.5
//
// # Assertion Types
//
//   - series_count: the number of evaluated concentrations
//   - degraded_count: how many rows used a degraded root
//   - mass_balance: every non-degraded row satisfies Y5 + x/C = 1
//   - integral_range: ∫k_i dpH for one concentration lies in [min, max]
//   - error_code: the request is rejected with the given input error code
//
// # Golden Snapshots
//
// RunWithGolden serializes the integrals and a first/middle/last row sample
// of every series to canonical JSON, with numbers printed to six significant
// digits, and compares against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
