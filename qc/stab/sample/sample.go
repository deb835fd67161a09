// Package sample runs a parsed stabilizer-circuit program for many
// independent shots and collects the per-shot outputs: a worker pool
// over shots, one tableau/recorder/coord-tracker/RNG per shot, no state
// shared across goroutines, first-error capture.
package sample

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/clifford-labs/stabsim/internal/logger"
	"github.com/clifford-labs/stabsim/internal/rng"
	"github.com/clifford-labs/stabsim/qc/stab/executor"
	"github.com/clifford-labs/stabsim/qc/stab/ir"
	"github.com/rs/zerolog"
)

// Options configures a Runner.
type Options struct {
	Shots   int
	Seed    int64
	Workers int // 0 => runtime.NumCPU()
	Verbose bool
}

// Runner executes a fixed instruction tree for Options.Shots independent
// shots, each with its own tableau/recorder/coords/RNG owned exclusively
// by the shot's goroutine; parallelism is shot-level only.
type Runner struct {
	instrs  []ir.Instr
	shots   int
	seed    int64
	workers int
	log     logger.Logger
}

// NewRunner builds a Runner for the given instruction tree.
func NewRunner(instrs []ir.Instr, opts Options) *Runner {
	shots := opts.Shots
	if shots <= 0 {
		shots = 1024
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > shots {
		workers = shots
	}

	log := logger.NewLogger(logger.LoggerOptions{Debug: opts.Verbose})
	if opts.Verbose {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}

	return &Runner{
		instrs:  instrs,
		shots:   shots,
		seed:    opts.Seed,
		workers: workers,
		log:     *log,
	}
}

// Result is one shot's labeled output, tagged with its shot index.
type Result struct {
	Shot   int
	Output executor.Output
}

// RunAll executes every shot in parallel across a static partition of
// Runner.Workers goroutines and returns the results ordered by shot
// index. A worker whose shot fails stops running its remaining shots;
// the other workers finish theirs, and RunAll then returns a nil slice
// and the first error captured.
func (r *Runner) RunAll() ([]Result, error) {
	runID := uuid.New().String()
	start := time.Now()

	r.log.Info().
		Str("run_id", runID).
		Int("shots", r.shots).
		Int("workers", r.workers).
		Msg("sample: starting run")

	per := r.shots / r.workers
	extra := r.shots % r.workers

	results := make([]Result, r.shots)
	var mu sync.Mutex
	errCh := make(chan error, r.workers)

	var wg sync.WaitGroup
	shot := 0
	for w := 0; w < r.workers; w++ {
		cnt := per
		if w < extra {
			cnt++
		}
		begin := shot
		shot += cnt

		wg.Add(1)
		go func(begin, count int) {
			defer wg.Done()
			for i := 0; i < count; i++ {
				s := begin + i
				out, err := executor.Run(r.instrs, rng.ForShot(r.seed, s))
				if err != nil {
					select {
					case errCh <- fmt.Errorf("shot %d failed: %w", s, err):
					default:
					}
					return
				}
				mu.Lock()
				results[s] = Result{Shot: s, Output: out}
				mu.Unlock()
			}
		}(begin, cnt)
	}

	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		r.log.Warn().Str("run_id", runID).Err(err).Msg("sample: run finished with errors")
		return nil, err
	}

	r.log.Info().
		Str("run_id", runID).
		Int("shots", r.shots).
		Dur("elapsed", time.Since(start)).
		Msg("sample: run finished successfully")

	return results, nil
}

// RunSerial executes every shot one after another on the calling
// goroutine. Simpler and non-concurrent, useful for tests and for
// programs with side effects implementers want to observe in order.
func (r *Runner) RunSerial() ([]Result, error) {
	results := make([]Result, 0, r.shots)
	for s := 0; s < r.shots; s++ {
		out, err := executor.Run(r.instrs, rng.ForShot(r.seed, s))
		if err != nil {
			return results, fmt.Errorf("shot %d failed: %w", s, err)
		}
		results = append(results, Result{Shot: s, Output: out})
	}
	return results, nil
}

// MeasurementHistogram reduces RunAll's results to a histogram keyed by
// the shot's measurement bit-string (most-significant-first), as the
// CLI's default output summary.
func MeasurementHistogram(results []Result) map[string]int {
	hist := make(map[string]int, len(results))
	for _, res := range results {
		hist[bitString(res.Output.Measurements)]++
	}
	return hist
}

func bitString(bits []bool) string {
	out := make([]byte, len(bits))
	for i, b := range bits {
		if b {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}
