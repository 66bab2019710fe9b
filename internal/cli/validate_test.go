package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidJob(t *testing.T) {
	job := writeJob(t, `
concentrations: "0.01:0.03:0.01"
ph_min: 8.6
ph_max: 10.1
points: 50
`)

	out, _, err := execute(t, "validate", job)
	require.NoError(t, err)
	assert.Contains(t, out, "job is valid: 3 concentration(s), pH 8.6..10.1, 50 points")

	out, _, err = execute(t, "--format", "json", "validate", job)
	require.NoError(t, err)
	resp := decode[ValidationResult](t, out)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []float64{0.01, 0.02, 0.03}, resp.Data.Concentrations)
	assert.Len(t, resp.Data.Fingerprint, 64)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		job  string
		code string
	}{
		{"schema", "points: 2\n", ErrCodeInvalidJob},
		{"unknown field", "pH: 9\n", ErrCodeInvalidJob},
		{"bad xlsx suffix", "output:\n  xlsx: out.csv\n", ErrCodeInvalidJob},
		{"inverted range", "ph_min: 11\nph_max: 9\n", "E104"},
		{"bad concentration", "concentrations: \"0.08,x\"\n", "E101"},
		{"oversized grid", "points: 2000000\n", "E107"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "--format", "json", "validate", writeJob(t, tt.job))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decode[any](t, out)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestValidate_RequiresPath(t *testing.T) {
	_, _, err := execute(t, "validate")
	require.Error(t, err)
}
