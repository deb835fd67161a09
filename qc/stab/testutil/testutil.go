// Package testutil centralizes shared test configuration and common
// stabilizer-program fixtures for use across this module's test suites.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/clifford-labs/stabsim/qc/stab/ir"
	"github.com/clifford-labs/stabsim/qc/stab/parser"
	"github.com/stretchr/testify/require"
)

// Test timeouts.
const (
	DefaultTestTimeout = 10 * time.Second
	LongTestTimeout    = 30 * time.Second
	BenchmarkTimeout   = 60 * time.Second
)

// Shot-count and tolerance presets for statistical assertions.
const (
	SmallShots     = 200
	DefaultShots   = 2000
	LargeShots     = 20000
	BenchmarkShots = 50000

	DefaultTolerance = 0.05
	StrictTolerance  = 0.02
)

// TestConfig bundles a shot count and tolerance for a statistical test
// scenario.
type TestConfig struct {
	Shots     int
	Seed      int64
	Tolerance float64
}

// QuickConfig and StandardConfig are ready-made quick/standard tiers.
var (
	QuickConfig    = TestConfig{Shots: SmallShots, Tolerance: DefaultTolerance}
	StandardConfig = TestConfig{Shots: DefaultShots, Tolerance: DefaultTolerance}
)

// BellPairProgram returns a parsed two-qubit Bell-pair program.
func BellPairProgram(t *testing.T) []ir.Instr {
	t.Helper()
	instrs, err := parser.Parse("H 0\nCNOT 0 1\nM 0 1\n")
	require.NoError(t, err, "failed to parse Bell pair program")
	return instrs
}

// GHZProgram returns a parsed n-qubit GHZ-state program (n >= 2).
func GHZProgram(t *testing.T, n int) []ir.Instr {
	t.Helper()
	require.GreaterOrEqual(t, n, 2, "GHZ program needs at least 2 qubits")

	var sb []byte
	sb = append(sb, "H 0\n"...)
	for q := 1; q < n; q++ {
		sb = append(sb, []byte(measureCNOTLine(q-1, q))...)
	}
	sb = append(sb, "M"...)
	for q := 0; q < n; q++ {
		sb = append(sb, []byte(" "+itoa(q))...)
	}
	sb = append(sb, '\n')

	instrs, err := parser.Parse(string(sb))
	require.NoError(t, err, "failed to parse GHZ program")
	return instrs
}

func measureCNOTLine(c, t int) string {
	return "CNOT " + itoa(c) + " " + itoa(t) + "\n"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// RepeatedMeasureProgram returns a program that measures qubit 0 after a
// fresh Hadamard on each of count repeat iterations, the canonical
// "repeat blocks share state" fixture.
func RepeatedMeasureProgram(t *testing.T, count int) []ir.Instr {
	t.Helper()
	program := "REPEAT " + itoa(count) + " {\nH 0\nM 0\n}\n"
	instrs, err := parser.Parse(program)
	require.NoError(t, err, "failed to parse repeated-measure program")
	return instrs
}

// AssertHistogramDistribution checks observed histogram frequencies
// against expected probabilities within an absolute tolerance.
func AssertHistogramDistribution(t *testing.T, hist map[string]int, expected map[string]float64, totalShots int, tolerance float64) {
	t.Helper()
	for state, expectedProb := range expected {
		actualCount := hist[state]
		actualProb := float64(actualCount) / float64(totalShots)
		if expectedProb == 0 {
			require.Equal(t, 0, actualCount, "state %s should have 0 count", state)
		} else {
			require.InDelta(t, expectedProb, actualProb, tolerance,
				"state %s probability mismatch: expected %.3f, got %.3f", state, expectedProb, actualProb)
		}
	}
}

// WithTimeout creates a context with timeout for test operations.
func WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// SkipIfShort skips the test if running with -short flag.
func SkipIfShort(t *testing.T, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skipf("skipping test in short mode: %s", reason)
	}
}

// SkipIfCI skips the test if running in CI.
func SkipIfCI(t *testing.T, reason string) {
	t.Helper()
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		t.Skipf("skipping test in CI: %s", reason)
	}
}
