package noise

import (
	"math/rand"
	"testing"

	"github.com/clifford-labs/stabsim/qc/stab/tableau"
	"github.com/stretchr/testify/require"
)

func TestXErrorZeroIsNoOp(t *testing.T) {
	tb := tableau.New(1)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		XError(tb, rng, 0, 0)
	}
	bit, wasRandom, err := tb.MeasureZ(0, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.False(t, wasRandom)
	require.False(t, bit)
}

func TestXErrorOneMatchesExplicitX(t *testing.T) {
	withNoise := tableau.New(1)
	rng := rand.New(rand.NewSource(1))
	XError(withNoise, rng, 0, 1)

	explicit := tableau.New(1)
	explicit.X(0)

	bit1, _, err := withNoise.MeasureZ(0, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	bit2, _, err := explicit.MeasureZ(0, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.Equal(t, bit2, bit1)
}

func TestDepolarize2ChoicesAreCanonicalLexicographicOrder(t *testing.T) {
	require.Len(t, depolarize2Choices, 15)
	prev := pauliPair{0, 0}
	first := true
	for _, c := range depolarize2Choices {
		require.False(t, c.a == 0 && c.b == 0)
		if !first {
			require.True(t, c.a > prev.a || (c.a == prev.a && c.b > prev.b))
		}
		prev = c
		first = false
	}
}
