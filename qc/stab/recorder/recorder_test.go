package recorder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecOffsetsAddressMostRecentFirst(t *testing.T) {
	r := New()
	r.Push(false)
	r.Push(true)

	bit, ok := r.Rec(-1)
	require.True(t, ok)
	require.True(t, bit)

	bit, ok = r.Rec(-2)
	require.True(t, ok)
	require.False(t, bit)
}

func TestRecRejectsNonNegativeAndOutOfRange(t *testing.T) {
	r := New()
	r.Push(true)

	_, ok := r.Rec(0)
	require.False(t, ok)

	_, ok = r.Rec(1)
	require.False(t, ok)

	_, ok = r.Rec(-2)
	require.False(t, ok)
}

func TestRecAddressingMatchesPushIndex(t *testing.T) {
	r := New()
	for i := 0; i < 5; i++ {
		r.Push(i%2 == 0)
	}
	for k := 1; k <= r.Len(); k++ {
		bit, ok := r.Rec(-k)
		require.True(t, ok)
		want := (r.Len()-k)%2 == 0
		require.Equal(t, want, bit)
	}
}

func TestExtendAppendsInOrder(t *testing.T) {
	a := New()
	a.Push(true)
	b := New()
	b.Push(false)
	b.Push(true)

	a.Extend(b)
	require.Equal(t, []bool{true, false, true}, a.Bits())
}
