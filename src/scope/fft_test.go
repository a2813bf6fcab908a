package scope

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitReverse(t *testing.T) {
	assert.Equal(t, 0, bitReverse(0, 8))
	assert.Equal(t, 4, bitReverse(1, 8))
	assert.Equal(t, 2, bitReverse(2, 8))
	assert.Equal(t, 6, bitReverse(3, 8))
	assert.Equal(t, 1, bitReverse(4, 8))
	assert.Equal(t, 5, bitReverse(5, 8))
	assert.Equal(t, 3, bitReverse(6, 8))
	assert.Equal(t, 7, bitReverse(7, 8))
}

func TestFFT(t *testing.T) {
	x := []float64{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25}
	cx := make([]complex128, len(x))
	for i, v := range x {
		cx[i] = complex(v, 0)
	}
	newFFT(8, false).calc(cx)
	expected := []float64{
		4,
		-(1 + math.Sqrt(2)/2),
		0,
		-(1 - math.Sqrt(2)/2),
		0,
		-(1 - math.Sqrt(2)/2),
		0,
		-(1 + math.Sqrt(2)/2),
	}
	for i, want := range expected {
		assert.InDelta(t, want, real(cx[i]), 0.0001, "bin %d", i)
	}
}

func TestFFTInverseRoundTrip(t *testing.T) {
	x := []complex128{1, 2, 3, 4, 5, 6, 7, 8}
	orig := make([]complex128, len(x))
	copy(orig, x)
	newFFT(8, false).calc(x)
	newFFT(8, true).calc(x)
	for i := range x {
		assert.InDelta(t, real(orig[i]), real(x[i]), 0.0001)
		assert.InDelta(t, imag(orig[i]), imag(x[i]), 0.0001)
	}
}

func TestAnalyticEnvelopeOfSine(t *testing.T) {
	// envelope of a pure sine is its amplitude, away from the window edges
	n := 1024
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 50 * float64(i) / 1000)
	}
	a := analytic(x)
	for i := n / 8; i < n-n/8; i++ {
		assert.InDelta(t, 1.0, cmplx.Abs(a[i]), 0.05, "sample %d", i)
	}
}

func TestNextPow2(t *testing.T) {
	assert.Equal(t, 1, nextPow2(1))
	assert.Equal(t, 1024, nextPow2(1000))
	assert.Equal(t, 1024, nextPow2(1024))
	assert.Equal(t, 2048, nextPow2(1025))
}
