package scope

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitMessage(axis TimeAxis, freq float64) []float64 {
	return Generate(SignalParams{Kind: KindSine, Amplitude: 1, Frequency: freq}, axis)
}

func TestModulateAM(t *testing.T) {
	axis := oneSecondAxis()
	message := unitMessage(axis, 1)
	out := Modulate(10, message, axis, SchemeAM, 0.5)
	require.Len(t, out, 1000)
	for _, i := range []int{0, 17, 500, 999} {
		want := (1 + 0.5*message[i]) * math.Sin(2*math.Pi*10*axis.At(i))
		assert.InDelta(t, want, out[i], 1e-12)
	}
}

func TestModulatePM(t *testing.T) {
	axis := oneSecondAxis()
	message := unitMessage(axis, 1)
	out := Modulate(10, message, axis, SchemePM, 2)
	for _, i := range []int{0, 123, 999} {
		want := math.Sin(2*math.Pi*10*axis.At(i) + 2*message[i])
		assert.InDelta(t, want, out[i], 1e-12)
	}
}

func TestModulateASKSuppressesOffState(t *testing.T) {
	axis := oneSecondAxis()
	message := Generate(SignalParams{Kind: KindSquare, Amplitude: 1, Frequency: 1}, axis)
	out := Modulate(10, message, axis, SchemeASK, 0)
	for i := range out {
		if message[i] > 0 {
			assert.InDelta(t, math.Sin(2*math.Pi*10*axis.At(i)), out[i], 1e-12)
		} else {
			assert.Equal(t, 0.0, out[i], "sample %d", i)
		}
	}
}

func TestModulateFSKSwitchesFrequency(t *testing.T) {
	axis := oneSecondAxis()
	message := Generate(SignalParams{Kind: KindSquare, Amplitude: 1, Frequency: 1}, axis)
	out := Modulate(10, message, axis, SchemeFSK, 0)
	for i := range out {
		f := 10.0
		if message[i] > 0 {
			f = 15.0 // default 1.5 mark ratio
		}
		assert.InDelta(t, math.Sin(2*math.Pi*f*axis.At(i)), out[i], 1e-12, "sample %d", i)
	}
}

func TestModulatePSKFlipsPhase(t *testing.T) {
	axis := oneSecondAxis()
	message := Generate(SignalParams{Kind: KindSquare, Amplitude: 1, Frequency: 1}, axis)
	out := Modulate(10, message, axis, SchemePSK, 0)
	for i := range out {
		carrier := math.Sin(2 * math.Pi * 10 * axis.At(i))
		if message[i] > 0 {
			assert.InDelta(t, carrier, out[i], 1e-12)
		} else {
			assert.InDelta(t, -carrier, out[i], 1e-12)
		}
	}
}

func TestModulateIndexIgnoredForKeyedSchemes(t *testing.T) {
	// ASK and PSK accept any index without numeric effect
	axis := oneSecondAxis()
	message := unitMessage(axis, 1)
	for _, scheme := range []string{SchemeASK, SchemePSK} {
		a := Modulate(10, message, axis, scheme, 0)
		b := Modulate(10, message, axis, scheme, 5)
		assert.Equal(t, a, b, "scheme %s", scheme)
	}
}

func TestModulateFMInstantaneousFrequency(t *testing.T) {
	// with a constant message the FM output is a pure tone at fc + index*m
	axis := oneSecondAxis()
	message := make([]float64, axis.Len())
	for i := range message {
		message[i] = 1
	}
	out := Modulate(10, message, axis, SchemeFM, 5)
	for _, i := range []int{0, 250, 999} {
		tt := axis.At(i)
		// phase accumulates via cumulative sum, one dt ahead of the
		// continuous integral
		want := math.Sin(2*math.Pi*10*tt + 2*math.Pi*5*(tt+axis.Dt()))
		assert.InDelta(t, want, out[i], 1e-9)
	}
}

func TestModulateUnknownSchemeZero(t *testing.T) {
	axis := oneSecondAxis()
	message := unitMessage(axis, 1)
	out := Modulate(10, message, axis, "qam", 1)
	require.Len(t, out, 1000)
	for _, v := range out {
		require.Equal(t, 0.0, v)
	}
}
