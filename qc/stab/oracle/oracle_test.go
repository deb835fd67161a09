package oracle

import (
	"testing"

	"github.com/clifford-labs/stabsim/qc/stab/parser"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsNoiseInstructions(t *testing.T) {
	instrs, err := parser.Parse("X_ERROR(0.1) 0\nM 0\n")
	require.NoError(t, err)
	_, err = Compile(instrs)
	require.Error(t, err)
	var ue *UnsupportedError
	require.ErrorAs(t, err, &ue)
}

func TestCompileRejectsRecTargets(t *testing.T) {
	instrs, err := parser.Parse("M 0\nDETECTOR rec[-1]\n")
	require.NoError(t, err)
	_, err = Compile(instrs)
	require.Error(t, err)
}

func TestCompileExpandsRepeatBlocks(t *testing.T) {
	instrs, err := parser.Parse("REPEAT 3 {\nH 0\nM 0\n}\n")
	require.NoError(t, err)
	c, err := Compile(instrs)
	require.NoError(t, err)
	require.Equal(t, 3, c.Clbits())
}

func TestRunHistogramBellPairHasNoCrossTerms(t *testing.T) {
	instrs, err := parser.Parse("H 0\nCNOT 0 1\nM 0 1\n")
	require.NoError(t, err)

	hist, err := RunHistogram(instrs, 2000)
	require.NoError(t, err)

	require.Zero(t, hist["01"])
	require.Zero(t, hist["10"])
	require.Greater(t, hist["00"], 0)
	require.Greater(t, hist["11"], 0)
}

func TestRunHistogramDeterministicZeroState(t *testing.T) {
	instrs, err := parser.Parse("M 0\n")
	require.NoError(t, err)

	hist, err := RunHistogram(instrs, 200)
	require.NoError(t, err)
	require.Equal(t, 200, hist["0"])
}

func TestRunHistogramXThenMeasureIsDeterministicOne(t *testing.T) {
	instrs, err := parser.Parse("X 0\nM 0\n")
	require.NoError(t, err)

	hist, err := RunHistogram(instrs, 200)
	require.NoError(t, err)
	require.Equal(t, 200, hist["1"])
}

func TestRunHistogramSAndSDagAfterHYieldsBothOutcomes(t *testing.T) {
	// H 0; S 0; S_DAG 0; M 0 -- the two S gates cancel, leaving H 0 then
	// measure: still a 50/50 distribution, but this exercises the S/S_DAG
	// decomposition path against the oracle's independent backend.
	instrs, err := parser.Parse("H 0\nS 0\nS_DAG 0\nM 0\n")
	require.NoError(t, err)

	hist, err := RunHistogram(instrs, 4000)
	require.NoError(t, err)
	require.Greater(t, hist["0"], 0)
	require.Greater(t, hist["1"], 0)
}
