package batch

import (
	"github.com/roach88/borate/internal/canon"
	"github.com/roach88/borate/internal/speciation"
)

// Fingerprint returns a content hash identifying the numeric output of req.
//
// Requests that parse to the same concentrations, pH bounds and sample count
// share a fingerprint, so "0.08,0.02" and "0.02, 0.08" match. IncludePlot is
// excluded because it does not change series or integrals. The model version
// is included so stored runs never match a changed model.
func Fingerprint(req Request) (string, error) {
	concs, grid, err := Validate(req)
	if err != nil {
		return "", err
	}
	return canon.Hash(canon.DomainRequest, map[string]any{
		"model":          speciation.ModelVersion,
		"concentrations": concs,
		"ph_min":         grid.Min(),
		"ph_max":         grid.Max(),
		"points":         grid.Len(),
	})
}
