package parser

import (
	"testing"

	"github.com/clifford-labs/stabsim/qc/stab/ir"
	"github.com/stretchr/testify/require"
)

func TestParsesSimpleGate(t *testing.T) {
	instrs, err := Parse("H 0\n")
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	require.Equal(t, "H", instrs[0].Name)
	require.Equal(t, []ir.Target{ir.QubitTarget(0)}, instrs[0].Targets)
}

func TestCaseInsensitiveNameCanonicalisation(t *testing.T) {
	instrs, err := Parse("h 0\nDeTeCtOr rec[-1]\n")
	require.NoError(t, err)
	require.Equal(t, "H", instrs[0].Name)
	require.Equal(t, "DETECTOR", instrs[1].Name)
}

func TestParsesArgsAndMultipleTargets(t *testing.T) {
	instrs, err := Parse("X_ERROR(0.25) 0 1 2\n")
	require.NoError(t, err)
	require.Equal(t, []float64{0.25}, instrs[0].Args)
	require.Equal(t, []ir.Target{ir.QubitTarget(0), ir.QubitTarget(1), ir.QubitTarget(2)}, instrs[0].Targets)
}

func TestParsesInvertedQubitTarget(t *testing.T) {
	instrs, err := Parse("M !0\n")
	require.NoError(t, err)
	require.Equal(t, []ir.Target{ir.QubitInvTarget(0)}, instrs[0].Targets)
}

func TestParsesRecTarget(t *testing.T) {
	instrs, err := Parse("DETECTOR rec[-2] rec[-1]\n")
	require.NoError(t, err)
	require.Equal(t, []ir.Target{ir.RecTarget(-2), ir.RecTarget(-1)}, instrs[0].Targets)
}

func TestRejectsNonNegativeRec(t *testing.T) {
	_, err := Parse("DETECTOR rec[0]\n")
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

func TestRejectsPositiveRec(t *testing.T) {
	_, err := Parse("DETECTOR rec[1]\n")
	require.Error(t, err)
}

func TestIgnoresCommentsAndBlankLines(t *testing.T) {
	instrs, err := Parse("# a comment\n\nH 0 # trailing comment\n")
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	require.Equal(t, "H", instrs[0].Name)
}

func TestParsesRepeatBlock(t *testing.T) {
	instrs, err := Parse("REPEAT 2 {\nH 0\n}\n")
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	require.True(t, instrs[0].IsRepeat)
	require.Equal(t, uint64(2), instrs[0].Count)
	require.Len(t, instrs[0].Body, 1)
}

func TestParsesNestedRepeatBlocks(t *testing.T) {
	instrs, err := Parse("REPEAT 2 {\nREPEAT 3 {\nH 0\n}\n}\n")
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	require.True(t, instrs[0].Body[0].IsRepeat)
	require.Equal(t, uint64(3), instrs[0].Body[0].Count)
}

func TestRejectsRepeatZero(t *testing.T) {
	_, err := Parse("REPEAT 0 {\nH 0\n}\n")
	require.Error(t, err)
}

func TestRejectsUnmatchedCloseBrace(t *testing.T) {
	_, err := Parse("}\n")
	require.Error(t, err)
}

func TestRejectsUnterminatedBlock(t *testing.T) {
	_, err := Parse("REPEAT 2 {\nH 0\n")
	require.Error(t, err)
}

func TestRejectsNonRepeatBlockOpener(t *testing.T) {
	_, err := Parse("H 0 {\n}\n")
	require.Error(t, err)
}

func TestSyntaxErrorIncludesLineNumber(t *testing.T) {
	_, err := Parse("H 0\nDETECTOR rec[0]\n")
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 2, se.Line)
}
