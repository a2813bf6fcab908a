package scope

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when channel or session configuration is
// rejected. It only occurs before streaming starts; streaming never fails.
var ErrInvalidParameter = errors.New("invalid parameter")

// TimeAxis is an equally spaced time grid t[i] = Start + i/SampleRate.
// It is a value type and never mutated; the streaming session regenerates
// the axis with a shifted Start every tick.
type TimeAxis struct {
	Start      float64
	Duration   float64
	SampleRate float64
}

// NewTimeAxis validates duration and sample rate.
func NewTimeAxis(start, duration, sampleRate float64) (TimeAxis, error) {
	if duration <= 0 {
		return TimeAxis{}, fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidParameter, duration)
	}
	if sampleRate <= 0 {
		return TimeAxis{}, fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidParameter, sampleRate)
	}
	return TimeAxis{Start: start, Duration: duration, SampleRate: sampleRate}, nil
}

// Len is the number of samples on the axis.
func (a TimeAxis) Len() int {
	return int(math.Round(a.Duration * a.SampleRate))
}

// Dt is the spacing between consecutive samples.
func (a TimeAxis) Dt() float64 {
	return 1.0 / a.SampleRate
}

// At returns the time value of sample i.
func (a TimeAxis) At(i int) float64 {
	return a.Start + float64(i)/a.SampleRate
}

// Times materializes the whole grid.
func (a TimeAxis) Times() []float64 {
	t := make([]float64, a.Len())
	for i := range t {
		t[i] = a.At(i)
	}
	return t
}
