// Package oracle cross-checks the stabilizer tableau engine against an
// independent state-vector simulator (itsubaki/q) for small Clifford-only
// circuits. It exists purely as a differential-testing aid: the
// state-vector path is never the production sampling engine, and it
// is restricted to circuits with no noise channels, inverted or rec[]
// targets, or coordinate/detector annotations, since those have no
// state-vector analogue worth comparing against. REPEAT blocks are
// accepted and expanded by literal iteration.
//
// The oracle drives itsubaki/q directly rather than going through a
// general multi-backend circuit/DAG/runner framework: it only ever
// plays one small Clifford program against one backend, one shot at a
// time, so that framework's plugin registry, parallel runners, and
// moment/DAG bookkeeping have nothing to do here.
package oracle

import (
	"fmt"
	"strings"

	"github.com/itsubaki/q"
	"github.com/clifford-labs/stabsim/qc/stab/ir"
)

// UnsupportedError reports an instruction the oracle backend cannot
// express as a state-vector circuit operation.
type UnsupportedError struct {
	Instr string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("oracle: unsupported instruction for cross-check: %s", e.Instr)
}

// op is one compiled gate or measurement against plain qubit indices.
type op struct {
	name   string
	qubits []int
	clbit  int // valid only when name == "M"
}

// Circuit is the flattened Clifford-only program the oracle plays
// against itsubaki/q: REPEAT blocks expanded, every target a plain
// qubit index.
type Circuit struct {
	qubits int
	clbits int
	ops    []op
}

// Qubits returns the number of qubits the circuit was sized for.
func (c Circuit) Qubits() int { return c.qubits }

// Clbits returns the number of classical (measurement) bits the
// circuit produces.
func (c Circuit) Clbits() int { return c.clbits }

// Compile flattens instrs (expanding REPEAT blocks, since the oracle
// circuit has no notion of looped execution) into a Circuit built from
// the Clifford gate subset H, X, Y, Z, S, S_DAG, CNOT, CZ, and M. Any
// other instruction, or any qubit target of kind other than a plain
// qubit, returns UnsupportedError.
func Compile(instrs []ir.Instr) (Circuit, error) {
	n := ir.MaxQubit(instrs)
	if n == 0 {
		n = 1
	}
	c := Circuit{qubits: n}

	clbit := 0
	if err := compileBlock(&c, instrs, &clbit); err != nil {
		return Circuit{}, err
	}
	c.clbits = clbit
	return c, nil
}

func compileBlock(c *Circuit, instrs []ir.Instr, clbit *int) error {
	for _, in := range instrs {
		if in.IsRepeat {
			for i := uint64(0); i < in.Count; i++ {
				if err := compileBlock(c, in.Body, clbit); err != nil {
					return err
				}
			}
			continue
		}
		if err := compileOp(c, in, clbit); err != nil {
			return err
		}
	}
	return nil
}

func compileOp(c *Circuit, in ir.Instr, clbit *int) error {
	qs, err := plainQubits(in)
	if err != nil {
		return err
	}
	name := strings.ToUpper(in.Name)
	switch name {
	case "H", "X", "Y", "Z", "S", "S_DAG":
		for _, qi := range qs {
			c.ops = append(c.ops, op{name: name, qubits: []int{qi}})
		}
	case "CX", "CNOT":
		if len(qs)%2 != 0 {
			return &UnsupportedError{Instr: in.Name}
		}
		for i := 0; i+1 < len(qs); i += 2 {
			c.ops = append(c.ops, op{name: "CNOT", qubits: []int{qs[i], qs[i+1]}})
		}
	case "CZ":
		if len(qs)%2 != 0 {
			return &UnsupportedError{Instr: in.Name}
		}
		for i := 0; i+1 < len(qs); i += 2 {
			c.ops = append(c.ops, op{name: "CZ", qubits: []int{qs[i], qs[i+1]}})
		}
	case "M":
		for _, qi := range qs {
			c.ops = append(c.ops, op{name: "M", qubits: []int{qi}, clbit: *clbit})
			*clbit++
		}
	default:
		return &UnsupportedError{Instr: in.Name}
	}
	return nil
}

func plainQubits(in ir.Instr) ([]int, error) {
	qs := make([]int, 0, len(in.Targets))
	for _, t := range in.Targets {
		if t.Kind != ir.Qubit {
			return nil, &UnsupportedError{Instr: in.Name}
		}
		qs = append(qs, t.Index)
	}
	return qs, nil
}

// RunHistogram compiles instrs and samples it for shots runs on the
// itsubaki/q state-vector simulator, returning a histogram keyed by the
// measured classical bit-string in the order the M instructions
// appeared. Each shot builds a fresh simulator, since itsubaki/q's
// Measure collapses the state vector it acts on.
func RunHistogram(instrs []ir.Instr, shots int) (map[string]int, error) {
	c, err := Compile(instrs)
	if err != nil {
		return nil, err
	}

	hist := make(map[string]int)
	for s := 0; s < shots; s++ {
		bits, err := runOnce(c)
		if err != nil {
			return nil, err
		}
		hist[bits]++
	}
	return hist, nil
}

// runOnce plays c exactly once on a fresh itsubaki/q simulator,
// returning the measured classical bit-string.
func runOnce(c Circuit) (string, error) {
	sim := q.New()
	qs := sim.ZeroWith(c.Qubits())
	cbits := make([]byte, c.Clbits())
	for i := range cbits {
		cbits[i] = '0'
	}

	for i, o := range c.ops {
		for _, qi := range o.qubits {
			if qi < 0 || qi >= len(qs) {
				return "", fmt.Errorf("oracle: invalid qubit index %d for gate %s (op %d)", qi, o.name, i)
			}
		}

		switch o.name {
		case "H":
			sim.H(qs[o.qubits[0]])
		case "X":
			sim.X(qs[o.qubits[0]])
		case "Y":
			sim.Y(qs[o.qubits[0]])
		case "Z":
			sim.Z(qs[o.qubits[0]])
		case "S":
			sim.S(qs[o.qubits[0]])
		case "S_DAG":
			// S† = S^3; itsubaki/q exposes no dagger method directly.
			sim.S(qs[o.qubits[0]])
			sim.S(qs[o.qubits[0]])
			sim.S(qs[o.qubits[0]])
		case "CNOT":
			sim.CNOT(qs[o.qubits[0]], qs[o.qubits[1]])
		case "CZ":
			sim.CZ(qs[o.qubits[0]], qs[o.qubits[1]])
		case "M":
			if o.clbit < 0 || o.clbit >= len(cbits) {
				return "", fmt.Errorf("oracle: invalid classical bit index %d for M (op %d)", o.clbit, i)
			}
			m := sim.Measure(qs[o.qubits[0]])
			if m.IsOne() {
				cbits[o.clbit] = '1'
			} else {
				cbits[o.clbit] = '0'
			}
		default:
			return "", fmt.Errorf("oracle: unsupported gate %s (op %d) encountered in runOnce", o.name, i)
		}
	}
	return string(cbits), nil
}
