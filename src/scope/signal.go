package scope

import (
	"fmt"
	"math"
	"math/rand"
)

const tau = 2.0 * math.Pi

// Signal kinds. Unknown kinds generate silence rather than an error so an
// invalid selection can never take down a running session.
const (
	KindSine         = "sine"
	KindSquare       = "square"
	KindTriangle     = "triangle"
	KindClock        = "clock"
	KindBinaryRandom = "binary-random"
	KindCustomBinary = "custom-binary"
	KindCarrier      = "carrier"
)

// SignalParams describes one baseband or carrier waveform.
type SignalParams struct {
	Kind        string
	Amplitude   float64
	Frequency   float64
	Offset      float64
	Duty        float64    // clock only, (0,1)
	Bits        string     // custom-binary only, "0"/"1" characters
	BitDuration float64    // custom-binary only, seconds per bit
	Rand        *rand.Rand // binary-random only; nil falls back to a fixed seed
}

func (p SignalParams) validate() error {
	switch p.Kind {
	case KindSine, KindSquare, KindTriangle, KindClock, KindCarrier:
		if p.Frequency <= 0 {
			return fmt.Errorf("%w: frequency must be positive, got %v", ErrInvalidParameter, p.Frequency)
		}
	}
	if p.Kind == KindClock && (p.Duty <= 0 || p.Duty >= 1) {
		return fmt.Errorf("%w: duty must be in (0,1), got %v", ErrInvalidParameter, p.Duty)
	}
	if p.Kind == KindCustomBinary {
		if p.Bits == "" {
			return fmt.Errorf("%w: custom bits must not be empty", ErrInvalidParameter)
		}
		for i := 0; i < len(p.Bits); i++ {
			if p.Bits[i] != '0' && p.Bits[i] != '1' {
				return fmt.Errorf("%w: custom bits must contain only 0/1, got %q", ErrInvalidParameter, p.Bits)
			}
		}
		if p.BitDuration <= 0 {
			return fmt.Errorf("%w: bit duration must be positive, got %v", ErrInvalidParameter, p.BitDuration)
		}
	}
	return nil
}

func positiveMod(a, b float64) float64 {
	for a < 0 {
		a += b
	}
	return math.Mod(a, b)
}

// Generate renders one waveform over the axis. It is a total function:
// every kind, including an unrecognized one, yields a buffer of exactly
// axis.Len() samples.
func Generate(p SignalParams, axis TimeAxis) []float64 {
	out := make([]float64, axis.Len())
	switch p.Kind {
	case KindSine, KindCarrier:
		for i := range out {
			out[i] = p.Amplitude*math.Sin(tau*p.Frequency*axis.At(i)) + p.Offset
		}
	case KindSquare:
		squareWave(out, p, axis, 0.5)
	case KindClock:
		squareWave(out, p, axis, p.Duty)
	case KindTriangle:
		for i := range out {
			ph := positiveMod(p.Frequency*axis.At(i), 1)
			v := ph*4 - 1
			if ph >= 0.5 {
				v = 3 - ph*4
			}
			out[i] = p.Amplitude*v + p.Offset
		}
	case KindBinaryRandom:
		rng := p.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(1))
		}
		for i := range out {
			bit := 0.0
			if rng.Float64() > 0.5 {
				bit = 1.0
			}
			out[i] = p.Amplitude*bit + p.Offset
		}
	case KindCustomBinary:
		customBinary(out, p, axis)
	}
	return out
}

// squareWave fills out with a pulse train that is high for the first duty
// fraction of each period.
func squareWave(out []float64, p SignalParams, axis TimeAxis, duty float64) {
	for i := range out {
		ph := positiveMod(p.Frequency*axis.At(i), 1)
		v := 1.0
		if ph >= duty {
			v = -1.0
		}
		out[i] = p.Amplitude*v + p.Offset
	}
}

// customBinary holds each bit flat for round(bitDuration*sampleRate)
// samples, in bit-string order. The output is clamped to the axis length;
// samples beyond the encoded bit count stay at zero.
func customBinary(out []float64, p SignalParams, axis TimeAxis) {
	samplesPerBit := int(math.Round(p.BitDuration * axis.SampleRate))
	if samplesPerBit < 1 {
		samplesPerBit = 1
	}
	for i := range out {
		bit := i / samplesPerBit
		if bit >= len(p.Bits) {
			out[i] = p.Offset
			continue
		}
		v := 0.0
		if p.Bits[bit] == '1' {
			v = p.Amplitude
		}
		out[i] = v + p.Offset
	}
}
