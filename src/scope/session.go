package scope

import (
	"context"
	"fmt"
	"math/cmplx"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	stateRunning = "running"
	stateFrozen  = "frozen"
)

// tickInterval paces the streaming loop. Mode changes are observed at the
// top of the next tick, so control latency is bounded by one interval.
const tickInterval = 50 * time.Millisecond

type globalParams struct {
	carrierFreq    float64
	messageFreq    float64
	sampleRate     float64
	windowDuration float64
}

// Frame is one fully assembled render of every channel. Frames are handed
// to the display boundary whole, never partially.
type Frame struct {
	Axis   TimeAxis
	Traces []Trace
}

type sessionState struct {
	sync.Mutex
	mode      string
	anchor    time.Time
	global    globalParams
	channels  []*Channel
	lastFrame *Frame
}

// ----- Session ----- //

// Session is the live time-window state machine. While running it advances
// a wall-clock-anchored one-second window every tick and recomputes every
// enabled channel; while frozen it re-emits the retained last frame without
// recomputation. Parameter updates arrive through CommandCh and take effect
// atomically at the next tick boundary.
type Session struct {
	CommandCh chan []string
	state     *sessionState
	frames    chan Frame
	logger    *log.Logger
}

// NewSession validates the configuration and builds the channel set.
// Invalid parameters fail here, before the streaming loop starts.
func NewSession(cfg Config, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	channels := make([]*Channel, len(cfg.Channels))
	for i, cc := range cfg.Channels {
		ch := newChannel(i+1, cfg.Seed)
		cc.apply(ch.params)
		if err := ch.params.validate(); err != nil {
			return nil, fmt.Errorf("channel %d: %w", i+1, err)
		}
		channels[i] = ch
	}
	s := &Session{
		CommandCh: make(chan []string, 256),
		state: &sessionState{
			mode:   stateRunning,
			anchor: time.Now(),
			global: globalParams{
				carrierFreq:    cfg.CarrierFreq,
				messageFreq:    cfg.MessageFreq,
				sampleRate:     cfg.SampleRate,
				windowDuration: cfg.WindowDuration,
			},
			channels: channels,
		},
		frames: make(chan Frame, 4),
		logger: logger,
	}
	go s.processCommands()
	return s, nil
}

// Frames exposes the stream of render frames. Slow consumers drop frames
// rather than stalling the tick loop.
func (s *Session) Frames() <-chan Frame {
	return s.frames
}

// Close stops command processing. Start must be canceled separately via
// its context.
func (s *Session) Close() error {
	close(s.CommandCh)
	return nil
}

// Start blocks, driving the tick loop until the context is canceled.
func (s *Session) Start(ctx context.Context) error {
	t := time.NewTicker(tickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("streaming loop interrupted")
			return nil
		case now := <-t.C:
			s.tick(now)
		}
	}
}

// Run resumes the window. A no-op while already running, so repeated Run
// actions do not re-anchor the clock.
func (s *Session) Run() {
	s.state.Lock()
	defer s.state.Unlock()
	if s.state.mode == stateRunning {
		return
	}
	s.state.mode = stateRunning
	s.state.anchor = time.Now()
	s.logger.Debug("session running")
}

// Freeze retains the last computed frame; ticks re-display it verbatim.
func (s *Session) Freeze() {
	s.state.Lock()
	defer s.state.Unlock()
	s.state.mode = stateFrozen
	s.logger.Debug("session frozen")
}

// Reset discards accumulated time history and restarts the window at zero.
// It is a transient action: the session is always running afterwards.
func (s *Session) Reset() {
	s.state.Lock()
	defer s.state.Unlock()
	s.state.mode = stateRunning
	s.state.anchor = time.Now()
	s.state.lastFrame = nil
	s.logger.Debug("session reset")
}

// tick computes and emits one frame. Generation, modulation/demodulation
// and frame assembly complete before the frame is handed out. Channels are
// rendered in parallel; each render is pure, so merging by index is
// deterministic regardless of completion order.
func (s *Session) tick(now time.Time) Frame {
	s.state.Lock()
	if s.state.mode == stateFrozen && s.state.lastFrame != nil {
		frame := *s.state.lastFrame
		s.state.Unlock()
		s.emit(frame)
		return frame
	}
	g := s.state.global
	elapsed := now.Sub(s.state.anchor).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	axis := TimeAxis{Start: elapsed, Duration: g.windowDuration, SampleRate: g.sampleRate}
	// the single shared baseband message, fanned out to every modulated
	// and demodulated channel
	message := Generate(SignalParams{Kind: KindSine, Amplitude: 1, Frequency: g.messageFreq}, axis)
	traces := make([]Trace, len(s.state.channels))
	var eg errgroup.Group
	for i, ch := range s.state.channels {
		i, ch := i, ch
		eg.Go(func() error {
			traces[i] = ch.render(g, axis, message)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		s.logger.Error("channel render failed", "err", err)
	}
	frame := Frame{Axis: axis, Traces: traces}
	s.state.lastFrame = &frame
	s.state.Unlock()
	s.emit(frame)
	return frame
}

func (s *Session) emit(frame Frame) {
	select {
	case s.frames <- frame:
	default:
	}
}

// Spectrum returns the Hann-windowed magnitude spectrum of a channel's last
// trace, or nil if no frame has been rendered yet.
func (s *Session) Spectrum(ch int) []float64 {
	s.state.Lock()
	defer s.state.Unlock()
	if s.state.lastFrame == nil || ch < 1 || ch > len(s.state.lastFrame.Traces) {
		return nil
	}
	samples := s.state.lastFrame.Traces[ch-1].Samples
	m := nextPow2(len(samples))
	buf := make([]float64, m)
	copy(buf, samples)
	hann(buf)
	cx := make([]complex128, m)
	for i, v := range buf {
		cx[i] = complex(v, 0)
	}
	newFFT(m, false).calc(cx)
	out := make([]float64, m/2)
	for i := range out {
		out[i] = cmplx.Abs(cx[i]) * 2 / float64(m)
	}
	return out
}

// ----- Commands ----- //

func (s *Session) processCommands() {
	for command := range s.CommandCh {
		if err := s.update(command); err != nil {
			s.logger.Warn("command rejected", "command", command, "err", err)
		}
	}
	s.logger.Debug("command processing ended")
}

func (s *Session) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	switch command[0] {
	case "run":
		s.Run()
	case "freeze":
		s.Freeze()
	case "reset":
		s.Reset()
	case "set":
		command = command[1:]
		if len(command) == 0 {
			return fmt.Errorf("set: missing target")
		}
		switch command[0] {
		case "global":
			if len(command) != 3 {
				return fmt.Errorf("set global: expected key-value pair, got %v", command[1:])
			}
			return s.setGlobal(command[1], command[2])
		case "ch":
			if len(command) != 4 {
				return fmt.Errorf("set ch: expected index and key-value pair, got %v", command[1:])
			}
			idx, err := strconv.ParseInt(command[1], 10, 64)
			if err != nil {
				return err
			}
			return s.setChannel(int(idx), command[2], command[3])
		default:
			return fmt.Errorf("set: unknown target %q", command[0])
		}
	default:
		return fmt.Errorf("unknown command %q", command[0])
	}
	return nil
}

func (s *Session) setGlobal(key, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, key, v)
	}
	s.state.Lock()
	defer s.state.Unlock()
	switch key {
	case "carrier_freq":
		s.state.global.carrierFreq = v
	case "message_freq":
		s.state.global.messageFreq = v
	case "sample_rate":
		s.state.global.sampleRate = v
	case "window_duration":
		s.state.global.windowDuration = v
	default:
		return fmt.Errorf("%w: unknown global key %q", ErrInvalidParameter, key)
	}
	return nil
}

// setChannel applies one key-value update, rejecting it whole if the
// resulting parameter set would be invalid.
func (s *Session) setChannel(idx int, key, value string) error {
	s.state.Lock()
	defer s.state.Unlock()
	if idx < 1 || idx > len(s.state.channels) {
		return fmt.Errorf("%w: no channel %d", ErrInvalidParameter, idx)
	}
	p := *s.state.channels[idx-1].params
	if err := p.set(key, value); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	*s.state.channels[idx-1].params = p
	return nil
}
