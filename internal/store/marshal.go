package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/canon"
)

// marshalRequest converts a request to canonical JSON TEXT for storage.
func marshalRequest(req batch.Request) (string, error) {
	data, err := canon.Marshal(map[string]any{
		"concentrations": req.Concentrations,
		"ph_min":         req.PHMin,
		"ph_max":         req.PHMax,
		"points":         req.Points,
		"plot":           req.IncludePlot,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	return string(data), nil
}

// unmarshalRequest parses request JSON TEXT.
func unmarshalRequest(data string) (batch.Request, error) {
	var req batch.Request
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return batch.Request{}, fmt.Errorf("unmarshal request: %w", err)
	}
	return req, nil
}
