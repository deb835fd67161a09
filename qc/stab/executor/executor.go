// Package executor drives a parsed stabilizer-circuit instruction tree
// against a tableau, recorder, and coordinate tracker, producing one
// shot's worth of measurement bits, detector bits, and observable bits.
//
// A single Run is strictly single-threaded and deterministic for a fixed
// instruction list and RNG. Repeat blocks share the enclosing tableau,
// recorder, and coordinate tracker across iterations rather than forking
// state: a naive per-iteration sub-executor would lose exactly the
// state later iterations must observe.
package executor

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/clifford-labs/stabsim/internal/logger"
	"github.com/clifford-labs/stabsim/qc/stab/coords"
	"github.com/clifford-labs/stabsim/qc/stab/ir"
	"github.com/clifford-labs/stabsim/qc/stab/noise"
	"github.com/clifford-labs/stabsim/qc/stab/recorder"
	"github.com/clifford-labs/stabsim/qc/stab/tableau"
)

// SemanticError reports an executor-level failure: an unsupported
// instruction, a wrong target kind, an odd pair-gate arity, or an
// out-of-range recorder offset. It echoes the instruction name and its
// arguments so callers can surface a precise diagnostic.
type SemanticError struct {
	Instr  string
	Args   []float64
	Detail string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("executor: %s%v: %s", e.Instr, e.Args, e.Detail)
}

func semErr(instr ir.Instr, format string, args ...interface{}) error {
	return &SemanticError{Instr: instr.Name, Args: instr.Args, Detail: fmt.Sprintf(format, args...)}
}

// DetectorBit is one DETECTOR annotation's result, carrying its
// offset-adjusted coordinate vector alongside the XOR bit.
type DetectorBit struct {
	Bit    bool
	Coords []float64
}

// ObservableBit is one OBSERVABLE_INCLUDE annotation's result.
type ObservableBit struct {
	Index int
	Bit   bool
}

// Output is the full per-shot bundle: the measurement stream in
// instruction order, the derived detector stream, and the derived
// observable stream.
type Output struct {
	Measurements []bool
	Detectors    []DetectorBit
	Observables  []ObservableBit
}

// Executor holds the mutable state shared across one run's instruction
// tree, including nested repeat bodies.
type Executor struct {
	tab *tableau.Tableau
	rec *recorder.Recorder
	crd *coords.Tracker
	rng *rand.Rand
	log logger.Logger
	out Output
}

// Run executes instrs once against a freshly sized tableau, recorder,
// and coordinate tracker, using rng for all randomness. The tableau is
// sized by one traversal of the whole instruction tree (including repeat
// bodies) before any instruction executes.
func Run(instrs []ir.Instr, rng *rand.Rand) (Output, error) {
	n := ir.MaxQubit(instrs)
	if n == 0 {
		n = 1 // a tableau of size 0 is a degenerate but valid empty program
	}
	ex := &Executor{
		tab: tableau.New(n),
		rec: recorder.New(),
		crd: coords.New(),
		rng: rng,
		log: *logger.NewLogger(logger.LoggerOptions{Debug: false}),
	}
	if err := ex.execBlock(instrs); err != nil {
		return Output{}, err
	}
	return ex.out, nil
}

func (ex *Executor) execBlock(instrs []ir.Instr) error {
	for _, in := range instrs {
		if in.IsRepeat {
			for i := uint64(0); i < in.Count; i++ {
				if err := ex.execBlock(in.Body); err != nil {
					return err
				}
			}
			continue
		}
		if err := ex.execOp(in); err != nil {
			return err
		}
	}
	return nil
}

func (ex *Executor) execOp(in ir.Instr) error {
	name := strings.ToUpper(in.Name)
	switch name {
	case "H", "S", "S_DAG", "X", "Y", "Z":
		return ex.singleQubitGate(in, name)
	case "CX", "CNOT":
		return ex.pairGate(in, func(c, t int) { ex.tab.CX(c, t) })
	case "CZ":
		return ex.pairGate(in, func(a, b int) { ex.tab.CZ(a, b) })
	case "M":
		return ex.measure(in, measurePlain)
	case "MX":
		return ex.measure(in, measureX)
	case "MY":
		return ex.measure(in, measureY)
	case "X_ERROR":
		return ex.singleQubitNoise(in, func(q int, p float64) { noise.XError(ex.tab, ex.rng, q, p) })
	case "Z_ERROR":
		return ex.singleQubitNoise(in, func(q int, p float64) { noise.ZError(ex.tab, ex.rng, q, p) })
	case "DEPOLARIZE1":
		return ex.singleQubitNoise(in, func(q int, p float64) { noise.Depolarize1(ex.tab, ex.rng, q, p) })
	case "DEPOLARIZE2":
		return ex.pairNoise(in, func(a, b int, p float64) { noise.Depolarize2(ex.tab, ex.rng, a, b, p) })
	case "QUBIT_COORDS":
		return ex.qubitCoords(in)
	case "SHIFT_COORDS":
		ex.crd.Shift(in.Args)
		return nil
	case "TICK":
		ex.crd.Tick()
		return nil
	case "DETECTOR":
		return ex.detector(in)
	case "OBSERVABLE_INCLUDE":
		return ex.observable(in)
	default:
		return semErr(in, "unsupported instruction")
	}
}

func (ex *Executor) qubits(in ir.Instr) ([]int, error) {
	qs := make([]int, 0, len(in.Targets))
	for _, t := range in.Targets {
		if t.Kind != ir.Qubit {
			return nil, semErr(in, "expected qubit target, got %s", t)
		}
		qs = append(qs, t.Index)
	}
	return qs, nil
}

func (ex *Executor) singleQubitGate(in ir.Instr, name string) error {
	qs, err := ex.qubits(in)
	if err != nil {
		return err
	}
	for _, q := range qs {
		switch name {
		case "H":
			ex.tab.H(q)
		case "S":
			ex.tab.S(q)
		case "S_DAG":
			ex.tab.SDag(q)
		case "X":
			ex.tab.X(q)
		case "Y":
			ex.tab.Y(q)
		case "Z":
			ex.tab.Z(q)
		}
	}
	return nil
}

func (ex *Executor) pairGate(in ir.Instr, apply func(a, b int)) error {
	qs, err := ex.qubits(in)
	if err != nil {
		return err
	}
	if len(qs)%2 != 0 {
		return semErr(in, "pair gate requires an even number of qubit targets, got %d", len(qs))
	}
	for i := 0; i+1 < len(qs); i += 2 {
		apply(qs[i], qs[i+1])
	}
	return nil
}

func (ex *Executor) singleQubitNoise(in ir.Instr, apply func(q int, p float64)) error {
	qs, err := ex.qubits(in)
	if err != nil {
		return err
	}
	p := 0.0
	if len(in.Args) > 0 {
		p = in.Args[0]
	}
	for _, q := range qs {
		apply(q, p)
	}
	return nil
}

func (ex *Executor) pairNoise(in ir.Instr, apply func(a, b int, p float64)) error {
	qs, err := ex.qubits(in)
	if err != nil {
		return err
	}
	if len(qs)%2 != 0 {
		return semErr(in, "pair noise channel requires an even number of qubit targets, got %d", len(qs))
	}
	p := 0.0
	if len(in.Args) > 0 {
		p = in.Args[0]
	}
	for i := 0; i+1 < len(qs); i += 2 {
		apply(qs[i], qs[i+1], p)
	}
	return nil
}

// measureKind implements one of M/MX/MY's tableau-level effect on a
// single qubit, returning the outcome bit.
type measureKind func(tab *tableau.Tableau, rng *rand.Rand, q int) (bool, error)

func measurePlain(tab *tableau.Tableau, rng *rand.Rand, q int) (bool, error) {
	bit, _, err := tab.MeasureZ(q, rng)
	return bit, err
}

// logMeasureError records an invariant violation at Error level before
// the run aborts; this path indicates an engine bug, not bad input.
func (ex *Executor) logMeasureError(q int, err error) {
	ex.log.Error().Err(err).Int("qubit", q).Msg("executor: tableau invariant violation during measurement")
}

func measureX(tab *tableau.Tableau, rng *rand.Rand, q int) (bool, error) {
	tab.H(q)
	bit, _, err := tab.MeasureZ(q, rng)
	tab.H(q)
	return bit, err
}

func measureY(tab *tableau.Tableau, rng *rand.Rand, q int) (bool, error) {
	tab.SDag(q)
	tab.H(q)
	bit, _, err := tab.MeasureZ(q, rng)
	tab.H(q)
	tab.S(q)
	return bit, err
}

func (ex *Executor) measure(in ir.Instr, kind measureKind) error {
	for _, t := range in.Targets {
		var q int
		invert := false
		switch t.Kind {
		case ir.Qubit:
			q = t.Index
		case ir.QubitInv:
			q = t.Index
			invert = true
		default:
			return semErr(in, "expected qubit target, got %s", t)
		}
		bit, err := kind(ex.tab, ex.rng, q)
		if err != nil {
			ex.logMeasureError(q, err)
			return err
		}
		if invert {
			bit = !bit
		}
		ex.rec.Push(bit)
		ex.out.Measurements = append(ex.out.Measurements, bit)
	}
	return nil
}

func (ex *Executor) qubitCoords(in ir.Instr) error {
	adjusted := ex.crd.ApplyOffset(in.Args)
	for _, t := range in.Targets {
		if t.Kind != ir.Qubit {
			return semErr(in, "expected qubit target, got %s", t)
		}
		ex.crd.SetQubitCoords(t.Index, adjusted)
	}
	return nil
}

func (ex *Executor) xorRecTargets(in ir.Instr) (bool, error) {
	var acc bool
	for _, t := range in.Targets {
		if t.Kind != ir.Rec {
			return false, semErr(in, "expected rec[] target, got %s", t)
		}
		bit, ok := ex.rec.Rec(t.Offset)
		if !ok {
			return false, semErr(in, "recorder offset %d out of range", t.Offset)
		}
		acc = acc != bit
	}
	return acc, nil
}

func (ex *Executor) detector(in ir.Instr) error {
	bit, err := ex.xorRecTargets(in)
	if err != nil {
		return err
	}
	ex.out.Detectors = append(ex.out.Detectors, DetectorBit{
		Bit:    bit,
		Coords: ex.crd.ApplyOffset(in.Args),
	})
	return nil
}

func (ex *Executor) observable(in ir.Instr) error {
	bit, err := ex.xorRecTargets(in)
	if err != nil {
		return err
	}
	idx := 0
	if len(in.Args) > 0 {
		idx = int(in.Args[0])
	}
	ex.out.Observables = append(ex.out.Observables, ObservableBit{Index: idx, Bit: bit})
	return nil
}
