package scope

import (
	"github.com/hajimehoshi/oto"
)

const monitorBufferSize = 4096

// Monitor plays one channel's rendered trace through the soundcard, so a
// signal can be heard while it is displayed.
type Monitor struct {
	context *oto.Context
	player  *oto.Player
	channel int // 1-based
}

func NewMonitor(sampleRate int, channel int) (*Monitor, error) {
	c, err := oto.NewContext(sampleRate, 1, 2, monitorBufferSize)
	if err != nil {
		return nil, err
	}
	return &Monitor{
		context: c,
		player:  c.NewPlayer(),
		channel: channel,
	}, nil
}

// PlayFrame writes the selected channel's samples as 16-bit PCM. Hidden
// traces and out-of-range channels are skipped silently.
func (m *Monitor) PlayFrame(frame Frame) error {
	if m.channel < 1 || m.channel > len(frame.Traces) {
		return nil
	}
	trace := frame.Traces[m.channel-1]
	if !trace.Visible {
		return nil
	}
	buf := make([]byte, len(trace.Samples)*2)
	for i, v := range trace.Samples {
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		const max = 32767
		b := int16(v * max)
		buf[2*i] = byte(b)
		buf[2*i+1] = byte(b >> 8)
	}
	_, err := m.player.Write(buf)
	return err
}

func (m *Monitor) Close() error {
	if err := m.player.Close(); err != nil {
		return err
	}
	return m.context.Close()
}
