// Package stabbench differentially benchmarks the stabilizer tableau
// engine against the state-vector oracle for small Clifford circuits,
// timing and comparing both backends the way a plugin benchmark suite
// would, trimmed to a single comparison scenario: do the two
// independent engines agree on the measurement distribution.
package stabbench

import (
	"fmt"
	"runtime"
	"time"

	"github.com/clifford-labs/stabsim/qc/stab/ir"
	"github.com/clifford-labs/stabsim/qc/stab/oracle"
	"github.com/clifford-labs/stabsim/qc/stab/sample"
)

// Limits bounds what CompareAgainstOracle will attempt, guarding
// against runaway benchmark circuits.
type Limits struct {
	MaxQubits int
	MaxShots  int
}

// DefaultLimits keeps cross-checks cheap: the oracle path allocates a
// full 2^n state vector, so n must stay small.
var DefaultLimits = Limits{MaxQubits: 12, MaxShots: 20000}

// Result reports one comparison run's timings and whether the two
// engines' histograms agreed within tolerance.
type Result struct {
	Qubits          int           `json:"qubits"`
	Shots           int           `json:"shots"`
	TableauDuration time.Duration `json:"tableau_duration"`
	OracleDuration  time.Duration `json:"oracle_duration"`
	Agreement       bool          `json:"agreement"`
	MaxDelta        float64       `json:"max_delta"`
	Error           string        `json:"error,omitempty"`
}

// CompareAgainstOracle runs instrs through both the stabilizer sample
// runner and the oracle's state-vector backend for shots shots, and
// reports whether their per-outcome frequencies agree within tol.
// Programs with more than limits.MaxQubits qubits are rejected before
// either engine runs; shots above limits.MaxShots are clamped to it.
// Programs using noise channels, rec/coords features, or other
// instructions the oracle cannot compile are run on the tableau engine
// and then rejected by the oracle compile step, surfaced as a non-nil
// error.
func CompareAgainstOracle(instrs []ir.Instr, shots int, tol float64, limits Limits) (Result, error) {
	n := ir.MaxQubit(instrs)
	if n == 0 {
		n = 1
	}
	if n > limits.MaxQubits {
		return Result{}, fmt.Errorf("stabbench: %d qubits exceeds oracle limit %d", n, limits.MaxQubits)
	}
	if shots > limits.MaxShots {
		shots = limits.MaxShots
	}

	res := Result{Qubits: n, Shots: shots}

	tStart := time.Now()
	runner := sample.NewRunner(instrs, sample.Options{Shots: shots, Workers: runtime.NumCPU()})
	tabResults, err := runner.RunAll()
	res.TableauDuration = time.Since(tStart)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	tabHist := sample.MeasurementHistogram(tabResults)

	oStart := time.Now()
	oracleHist, err := oracle.RunHistogram(instrs, shots)
	res.OracleDuration = time.Since(oStart)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}

	maxDelta := 0.0
	keys := make(map[string]struct{}, len(tabHist)+len(oracleHist))
	for k := range tabHist {
		keys[k] = struct{}{}
	}
	for k := range oracleHist {
		keys[k] = struct{}{}
	}
	for k := range keys {
		pt := float64(tabHist[k]) / float64(shots)
		po := float64(oracleHist[k]) / float64(shots)
		delta := pt - po
		if delta < 0 {
			delta = -delta
		}
		if delta > maxDelta {
			maxDelta = delta
		}
	}

	res.MaxDelta = maxDelta
	res.Agreement = maxDelta <= tol
	return res, nil
}
