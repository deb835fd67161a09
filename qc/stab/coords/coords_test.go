package coords

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftAccumulatesAndZeroPads(t *testing.T) {
	c := New()
	c.Shift([]float64{1, 2})
	c.Shift([]float64{1, 2, 3})
	got := c.ApplyOffset([]float64{0, 0, 0})
	require.Equal(t, []float64{2, 4, 3}, got)
}

func TestApplyOffsetZeroPadsShortVector(t *testing.T) {
	c := New()
	c.Shift([]float64{1, 2})
	got := c.ApplyOffset([]float64{3})
	require.Equal(t, []float64{4, 2}, got)
}

func TestDetectorCoordsScenario(t *testing.T) {
	// SHIFT_COORDS(1,2); DETECTOR(3,4) -> (4.0, 6.0), per spec scenario 5.
	c := New()
	c.Shift([]float64{1, 2})
	got := c.ApplyOffset([]float64{3, 4})
	require.Equal(t, []float64{4, 6}, got)
}

func TestQubitCoordsStoredAndTick(t *testing.T) {
	c := New()
	c.SetQubitCoords(0, c.ApplyOffset([]float64{1, 2}))
	v, ok := c.QubitCoords(0)
	require.True(t, ok)
	require.Equal(t, []float64{1, 2}, v)

	_, ok = c.QubitCoords(1)
	require.False(t, ok)

	require.Equal(t, int64(0), c.TickCount())
	c.Tick()
	c.Tick()
	require.Equal(t, int64(2), c.TickCount())
}
