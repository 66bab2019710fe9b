package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/borate/internal/logging"
	"github.com/roach88/borate/internal/solver"
	"github.com/roach88/borate/internal/speciation"
)

// Observer receives advisory progress notifications. Progress is called
// before each concentration is evaluated, with done set to the number of
// concentrations already started. With Workers > 1 it is called from
// several goroutines.
type Observer interface {
	Progress(done, total int, concentration float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(done, total int, concentration float64)

// Progress calls f.
func (f ObserverFunc) Progress(done, total int, concentration float64) {
	f(done, total, concentration)
}

// Options configures an Evaluator.
type Options struct {
	// Workers bounds how many concentrations are evaluated concurrently.
	// Zero or one evaluates sequentially. Output does not depend on it.
	Workers int

	// Observer is optional.
	Observer Observer

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Evaluator runs batch requests. It holds no state between runs and is safe
// for concurrent use.
type Evaluator struct {
	workers  int
	observer Observer
	logger   *slog.Logger
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(opts Options) *Evaluator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{workers: workers, observer: opts.Observer, logger: logger}
}

// Validate parses and checks a request without evaluating it. It returns the
// sorted concentrations and the pH grid, or an *InputError.
func Validate(req Request) ([]float64, Grid, error) {
	concs, err := ParseConcentrations(req.Concentrations)
	if err != nil {
		return nil, Grid{}, err
	}
	grid, err := NewGrid(req.PHMin, req.PHMax, req.Points)
	if err != nil {
		return nil, Grid{}, err
	}
	return concs, grid, nil
}

// Run evaluates req: for every concentration and pH sample it solves for the
// free monomer, derives the species fractions, and integrates each k_i over
// the pH grid.
//
// Input problems are returned as *InputError before any work starts. A panic
// during evaluation is recovered and returned as *InternalError. Cancelling
// ctx stops the run between concentrations and returns ctx.Err().
func (e *Evaluator) Run(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, newInternalError(r)
		}
	}()

	concs, grid, err := Validate(req)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("batch starting",
		"concentrations", len(concs),
		"ph_min", req.PHMin, "ph_max", req.PHMax, "points", req.Points,
		"workers", e.workers)

	series := make([]Series, len(concs))
	integrals := make([]IntegralRow, len(concs))

	if e.workers == 1 {
		for i, c := range concs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			e.progress(i, len(concs), c)
			series[i], integrals[i] = e.evaluate(c, grid)
		}
	} else {
		var started atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i, c := range concs {
			i, c := i, c
			g.Go(func() (gerr error) {
				defer func() {
					if r := recover(); r != nil {
						gerr = newInternalError(r)
					}
				}()
				if err := gctx.Err(); err != nil {
					return err
				}
				e.progress(int(started.Add(1))-1, len(concs), c)
				series[i], integrals[i] = e.evaluate(c, grid)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	res = &Result{
		Request:        req,
		Concentrations: concs,
		Grid:           grid,
		Series:         series,
		Integrals:      integrals,
	}
	for _, s := range series {
		res.Degraded += s.DegradedCount()
	}
	if req.IncludePlot {
		res.Display = NewDisplayCurve(concs[len(concs)-1], req.PHMin, req.PHMax)
	}
	e.logger.Debug("batch finished", "series", len(series), "degraded", res.Degraded)
	return res, nil
}

func (e *Evaluator) progress(done, total int, c float64) {
	e.logger.Debug("concentration started", "concentration", c, "index", done)
	if e.observer != nil {
		e.observer.Progress(done, total, c)
	}
}

// evaluate sweeps the grid for one concentration.
func (e *Evaluator) evaluate(c float64, grid Grid) (Series, IntegralRow) {
	s := Series{Concentration: c, Rows: make([]Row, grid.Len())}
	for j, y := range grid.Activity {
		sol := solver.Solve(c, y)
		f := speciation.SpeciesFractions(sol.X, y, c)
		s.Rows[j] = Row{PH: grid.PH[j], X: sol.X, K: f.K, Y: f.Y, Degraded: sol.Degraded}
		if sol.Degraded {
			e.logger.Log(context.Background(), logging.LevelTrace, "degraded root",
				"concentration", c, "ph", grid.PH[j], "x", sol.X,
				"expansions", sol.Expansions, "iterations", sol.Iterations)
		}
	}

	row := IntegralRow{
		Concentration: c,
		PHMin:         grid.Min(),
		PHMax:         grid.Max(),
		Points:        grid.Len(),
	}
	for i := range row.Integrals {
		row.Integrals[i] = grid.Trapezoid(s.Column(i + 1))
	}

	if n := s.DegradedCount(); n > 0 {
		e.logger.Warn("degraded free-monomer solutions",
			"concentration", c, "points", n, "of", grid.Len())
	}
	return s, row
}

func newInternalError(r any) *InternalError {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	return &InternalError{Err: err, Stack: debug.Stack()}
}
