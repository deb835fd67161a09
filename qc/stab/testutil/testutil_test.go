package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGHZProgramBuildsExpectedSource(t *testing.T) {
	instrs := GHZProgram(t, 3)
	require.Len(t, instrs, 4)
	require.Equal(t, "H", instrs[0].Name)
	require.Equal(t, "CNOT", instrs[1].Name)
	require.Equal(t, "CNOT", instrs[2].Name)
	require.Equal(t, "M", instrs[3].Name)
}

func TestRepeatedMeasureProgramHasRequestedCount(t *testing.T) {
	instrs := RepeatedMeasureProgram(t, 5)
	require.Len(t, instrs, 1)
	require.True(t, instrs[0].IsRepeat)
	require.Equal(t, uint64(5), instrs[0].Count)
}

func TestBellPairProgramParsesCleanly(t *testing.T) {
	instrs := BellPairProgram(t)
	require.Len(t, instrs, 3)
}
