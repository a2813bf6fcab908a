package scope

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Channel roles.
const (
	RoleMessage     = "message"
	RoleCarrier     = "carrier"
	RoleModulated   = "modulated"
	RoleDemodulated = "demodulated"
)

// Fixed channel-index-to-color mapping for channels 1-3.
var channelColors = []string{"yellow", "cyan", "magenta"}

// ----- Channel Params ----- //

type channelParams struct {
	enabled     bool
	role        string
	kind        string
	scheme      string
	amplitude   float64
	frequency   float64
	offset      float64
	modIndex    float64
	duty        float64
	bits        string
	bitDuration float64
}

func newChannelParams() *channelParams {
	return &channelParams{
		enabled:     true,
		role:        RoleMessage,
		kind:        KindSine,
		scheme:      SchemeAM,
		amplitude:   1,
		frequency:   1,
		offset:      0,
		modIndex:    1,
		duty:        0.5,
		bits:        "1010",
		bitDuration: 0.25,
	}
}

func (c *channelParams) set(key string, value string) error {
	switch key {
	case "enabled":
		c.enabled = value == "true"
	case "role":
		c.role = value
	case "kind":
		c.kind = value
	case "scheme":
		c.scheme = value
	case "amplitude":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		c.amplitude = value
	case "frequency":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		c.frequency = value
	case "offset":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		c.offset = value
	case "mod_index":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		c.modIndex = value
	case "duty":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		c.duty = value
	case "bits":
		c.bits = value
	case "bit_duration":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		c.bitDuration = value
	}
	return nil
}

func (c *channelParams) validate() error {
	switch c.role {
	case RoleMessage:
		return c.signalParams(nil).validate()
	case RoleCarrier, RoleModulated, RoleDemodulated:
		return nil
	}
	return fmt.Errorf("%w: unknown role %q", ErrInvalidParameter, c.role)
}

func (c *channelParams) signalParams(rng *rand.Rand) SignalParams {
	return SignalParams{
		Kind:        c.kind,
		Amplitude:   c.amplitude,
		Frequency:   c.frequency,
		Offset:      c.offset,
		Duty:        c.duty,
		Bits:        c.bits,
		BitDuration: c.bitDuration,
		Rand:        rng,
	}
}

// ----- Trace ----- //

// Trace is one channel's contribution to a render frame.
type Trace struct {
	Axis        TimeAxis
	Samples     []float64
	DisplayName string
	Color       string
	Visible     bool
}

// ----- Channel ----- //

// Channel binds one generator/modulator/demodulator invocation to a named,
// colored, enable-flagged output. Channels are created once per session and
// only ever disabled, never destroyed.
type Channel struct {
	id     int // 1-based
	params *channelParams
	rng    *rand.Rand
}

func newChannel(id int, seed int64) *Channel {
	return &Channel{
		id:     id,
		params: newChannelParams(),
		rng:    rand.New(rand.NewSource(seed + int64(id))),
	}
}

func (c *Channel) color() string {
	return channelColors[(c.id-1)%len(channelColors)]
}

func (c *Channel) zeroTrace(axis TimeAxis, name string, visible bool) Trace {
	return Trace{
		Axis:        axis,
		Samples:     make([]float64, axis.Len()),
		DisplayName: name,
		Color:       c.color(),
		Visible:     visible,
	}
}

// render computes the channel's trace for one frame. The message buffer is
// the session-wide baseband signal shared by all modulated and demodulated
// channels. A panic inside the signal chain is contained to this channel:
// the frame continues with a zero trace.
func (c *Channel) render(g globalParams, axis TimeAxis, message []float64) (trace Trace) {
	p := c.params
	name := fmt.Sprintf("CH%d: %s", c.id, p.role)
	if !p.enabled {
		return c.zeroTrace(axis, name, false)
	}
	defer func() {
		if r := recover(); r != nil {
			trace = c.zeroTrace(axis, name, true)
		}
	}()
	var samples []float64
	switch p.role {
	case RoleMessage:
		samples = Generate(p.signalParams(c.rng), axis)
		name = fmt.Sprintf("CH%d: %s", c.id, p.kind)
	case RoleCarrier:
		carrier := p.signalParams(nil)
		carrier.Kind = KindCarrier
		carrier.Frequency = g.carrierFreq
		samples = Generate(carrier, axis)
		name = fmt.Sprintf("CH%d: carrier", c.id)
	case RoleModulated:
		samples = Modulate(g.carrierFreq, message, axis, p.scheme, p.modIndex)
		for i := range samples {
			samples[i] = p.amplitude*samples[i] + p.offset
		}
		name = fmt.Sprintf("CH%d: %s modulated", c.id, p.scheme)
	case RoleDemodulated:
		mod := Modulate(g.carrierFreq, message, axis, p.scheme, p.modIndex)
		samples = Demodulate(mod, axis, p.scheme, g.carrierFreq)
		// FM estimates are one sample short of the axis; repeat the last
		// value so every trace in the frame shares the same grid
		for len(samples) < axis.Len() && len(samples) > 0 {
			samples = append(samples, samples[len(samples)-1])
		}
		name = fmt.Sprintf("CH%d: %s demodulated", c.id, p.scheme)
	default:
		return c.zeroTrace(axis, name, true)
	}
	return Trace{
		Axis:        axis,
		Samples:     samples,
		DisplayName: name,
		Color:       c.color(),
		Visible:     true,
	}
}
