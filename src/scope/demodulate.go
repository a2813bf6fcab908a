package scope

import (
	"math"
	"math/cmplx"
)

// analytic computes the analytic signal of x via an FFT Hilbert transform.
// x is zero-padded to the next power of two and the result truncated back.
func analytic(x []float64) []complex128 {
	n := len(x)
	m := nextPow2(n)
	buf := make([]complex128, m)
	for i, v := range x {
		buf[i] = complex(v, 0)
	}
	newFFT(m, false).calc(buf)
	// one-sided spectrum: keep DC and Nyquist, double the positive bins,
	// zero the negative ones
	for i := 1; i < m/2; i++ {
		buf[i] *= 2
	}
	for i := m/2 + 1; i < m; i++ {
		buf[i] = 0
	}
	newFFT(m, true).calc(buf)
	return buf[:n]
}

func envelope(x []float64) []float64 {
	a := analytic(x)
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// unwrappedPhase returns the instantaneous phase of x with the artificial
// 2π jumps removed.
func unwrappedPhase(x []float64) []float64 {
	a := analytic(x)
	out := make([]float64, len(a))
	offset := 0.0
	for i, v := range a {
		ph := cmplx.Phase(v)
		if i > 0 {
			d := ph + offset - out[i-1]
			for d > math.Pi {
				offset -= tau
				d -= tau
			}
			for d < -math.Pi {
				offset += tau
				d += tau
			}
		}
		out[i] = ph + offset
	}
	return out
}

func mean(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// Demodulate approximately recovers the message from a modulated buffer.
// It is the bit-for-bit counterpart of Modulate: same sin carrier, same
// keying thresholds.
//
// The FM estimate is a discrete derivative of the unwrapped phase, so its
// output is one sample shorter than the input. Every other scheme preserves
// length. An unrecognized scheme returns the input unchanged.
func Demodulate(modulated []float64, axis TimeAxis, scheme string, carrierFreq float64) []float64 {
	switch scheme {
	case SchemeAM:
		env := envelope(modulated)
		m := mean(env)
		for i := range env {
			env[i] -= m
		}
		return env
	case SchemeFM:
		ph := unwrappedPhase(modulated)
		out := make([]float64, len(ph)-1)
		for i := range out {
			out[i] = (ph[i+1]-ph[i])/(tau*axis.Dt()) - carrierFreq
		}
		// the Hilbert transform rings at the window edge; patch the first
		// estimate from its neighbor
		if len(out) > 1 {
			out[0] = out[1]
		}
		return out
	case SchemePM:
		ph := unwrappedPhase(modulated)
		for i := range ph {
			ph[i] -= tau * carrierFreq * axis.At(i)
		}
		return ph
	case SchemeASK:
		env := envelope(modulated)
		for i := range env {
			env[i] = threshold(env[i] > 0.5)
		}
		return env
	case SchemePSK:
		// coherent detection: multiply by the reference carrier and average
		// over one carrier period
		prod := make([]float64, len(modulated))
		for i := range prod {
			prod[i] = modulated[i] * math.Sin(tau*carrierFreq*axis.At(i))
		}
		smooth := movingAverage(prod, int(math.Round(axis.SampleRate/carrierFreq)))
		for i := range smooth {
			smooth[i] = threshold(smooth[i] > 0)
		}
		return smooth
	case SchemeFSK:
		// instantaneous frequency, decided against the midpoint between the
		// space frequency and the default mark frequency
		ph := unwrappedPhase(modulated)
		out := make([]float64, len(modulated))
		decision := carrierFreq * (1 + defaultFSKRatio) / 2
		for i := 1; i < len(ph); i++ {
			inst := (ph[i] - ph[i-1]) / (tau * axis.Dt())
			out[i] = threshold(inst > decision)
		}
		if len(out) > 1 {
			out[0] = out[1]
		}
		return out
	}
	return modulated
}

func threshold(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func movingAverage(x []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(x))
	sum := 0.0
	for i := range x {
		sum += x[i]
		if i >= window {
			sum -= x[i-window]
		}
		n := window
		if i+1 < window {
			n = i + 1
		}
		out[i] = sum / float64(n)
	}
	return out
}
