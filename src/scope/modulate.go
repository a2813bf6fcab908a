package scope

import "math"

// Modulation schemes. Unknown schemes modulate to silence.
const (
	SchemeAM  = "am"
	SchemeFM  = "fm"
	SchemePM  = "pm"
	SchemeASK = "ask"
	SchemeFSK = "fsk"
	SchemePSK = "psk"
)

// defaultFSKRatio is the mark/space frequency ratio used when a channel
// does not configure one.
const defaultFSKRatio = 1.5

// Modulate mixes the message onto a unit sin(2π·fc·t) carrier. The index
// controls modulation depth for AM/FM/PM and the mark frequency ratio for
// FSK; ASK and PSK accept it without effect.
//
// FM applies the phase term 2π·index·∫m dt, so the instantaneous frequency
// deviates from the carrier by exactly index·m(t) Hz. FSK switches frequency
// per sample with no continuous-phase guarantee across symbol boundaries.
func Modulate(carrierFreq float64, message []float64, axis TimeAxis, scheme string, index float64) []float64 {
	out := make([]float64, len(message))
	switch scheme {
	case SchemeAM:
		for i := range out {
			out[i] = (1 + index*message[i]) * math.Sin(tau*carrierFreq*axis.At(i))
		}
	case SchemeFM:
		integral := 0.0
		dt := axis.Dt()
		for i := range out {
			integral += message[i] * dt
			out[i] = math.Sin(tau*carrierFreq*axis.At(i) + tau*index*integral)
		}
	case SchemePM:
		for i := range out {
			out[i] = math.Sin(tau*carrierFreq*axis.At(i) + index*message[i])
		}
	case SchemeASK:
		// on/off keying: the off state is fully suppressed
		for i := range out {
			if message[i] > 0 {
				out[i] = math.Sin(tau * carrierFreq * axis.At(i))
			}
		}
	case SchemeFSK:
		ratio := index
		if ratio <= 0 {
			ratio = defaultFSKRatio
		}
		for i := range out {
			f := carrierFreq
			if message[i] > 0 {
				f = carrierFreq * ratio
			}
			out[i] = math.Sin(tau * f * axis.At(i))
		}
	case SchemePSK:
		for i := range out {
			s := math.Sin(tau * carrierFreq * axis.At(i))
			if message[i] <= 0 {
				s = -s
			}
			out[i] = s
		}
	}
	return out
}
