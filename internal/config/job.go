// Package config loads batch job files.
//
// A job file is YAML describing one batch request plus where to write its
// results:
//
//	concentrations: "0.01:0.10:0.01"
//	ph_min: 8.6
//	ph_max: 10.1
//	points: 300
//	plot: true
//	workers: 4
//	log_level: debug
//	output:
//	  db: runs.db
//	  xlsx: results.xlsx
//	  png: cumulative.png
//
// Keys that are absent keep the defaults of the original tool. Files are
// decoded strictly (unknown keys are errors) and then checked against an
// embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/borate/internal/batch"
)

//go:embed schema.cue
var schemaSource string

// ErrInvalidJob is wrapped by every decode or schema error from LoadJob.
var ErrInvalidJob = errors.New("invalid job file")

// Default request values.
const (
	DefaultConcentrations = "0.08"
	DefaultPHMin          = 8.6
	DefaultPHMax          = 10.1
	DefaultPoints         = 300
	DefaultLogLevel       = "info"
)

// Job is a batch request plus output destinations.
type Job struct {
	Concentrations string  `json:"concentrations" yaml:"concentrations"`
	PHMin          float64 `json:"ph_min" yaml:"ph_min"`
	PHMax          float64 `json:"ph_max" yaml:"ph_max"`
	Points         int     `json:"points" yaml:"points"`
	Plot           bool    `json:"plot,omitempty" yaml:"plot"`
	Workers        int     `json:"workers,omitempty" yaml:"workers"`
	LogLevel       string  `json:"log_level,omitempty" yaml:"log_level"`
	Output         Output  `json:"output" yaml:"output"`
}

// Output names result files. Empty paths are skipped.
type Output struct {
	DB   string `json:"db,omitempty" yaml:"db"`
	XLSX string `json:"xlsx,omitempty" yaml:"xlsx"`
	PNG  string `json:"png,omitempty" yaml:"png"`
}

// Default returns the job the CLI runs when given no flags.
func Default() Job {
	return Job{
		Concentrations: DefaultConcentrations,
		PHMin:          DefaultPHMin,
		PHMax:          DefaultPHMax,
		Points:         DefaultPoints,
		LogLevel:       DefaultLogLevel,
	}
}

// Request converts the job into a batch request.
func (j Job) Request() batch.Request {
	return batch.Request{
		Concentrations: j.Concentrations,
		PHMin:          j.PHMin,
		PHMax:          j.PHMax,
		Points:         j.Points,
		IncludePlot:    j.Plot || j.Output.PNG != "",
	}
}

// LoadJob reads a job file from path.
func LoadJob(path string) (*Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	defer f.Close()
	return DecodeJob(f)
}

// DecodeJob decodes job YAML over Default and validates the result.
func DecodeJob(r io.Reader) (*Job, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}

	job := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true) // Reject unknown fields
		if err := decoder.Decode(&job); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
		}
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// Validate checks the job against the embedded CUE schema. It does not
// parse concentrations or compare pH bounds; batch validation does that.
func (j Job) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling job schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Job"))
	value := def.Unify(ctx.Encode(j))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	return nil
}
