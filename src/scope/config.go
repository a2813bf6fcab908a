package scope

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChannelConfig is the YAML shape of one channel. Pointer fields
// distinguish "not set" from an explicit zero.
type ChannelConfig struct {
	Enabled     *bool    `yaml:"enabled"`
	Role        string   `yaml:"role"`
	Kind        string   `yaml:"kind"`
	Scheme      string   `yaml:"scheme"`
	Amplitude   *float64 `yaml:"amplitude"`
	Frequency   *float64 `yaml:"frequency"`
	Offset      float64  `yaml:"offset"`
	ModIndex    *float64 `yaml:"modIndex"`
	Duty        *float64 `yaml:"duty"`
	Bits        string   `yaml:"bits"`
	BitDuration *float64 `yaml:"bitDuration"`
}

func (cc ChannelConfig) apply(p *channelParams) {
	if cc.Enabled != nil {
		p.enabled = *cc.Enabled
	}
	if cc.Role != "" {
		p.role = cc.Role
	}
	if cc.Kind != "" {
		p.kind = cc.Kind
	}
	if cc.Scheme != "" {
		p.scheme = cc.Scheme
	}
	if cc.Amplitude != nil {
		p.amplitude = *cc.Amplitude
	}
	if cc.Frequency != nil {
		p.frequency = *cc.Frequency
	}
	p.offset = cc.Offset
	if cc.ModIndex != nil {
		p.modIndex = *cc.ModIndex
	}
	if cc.Duty != nil {
		p.duty = *cc.Duty
	}
	if cc.Bits != "" {
		p.bits = cc.Bits
	}
	if cc.BitDuration != nil {
		p.bitDuration = *cc.BitDuration
	}
}

// Config holds the session-wide parameters and the channel set.
type Config struct {
	CarrierFreq    float64         `yaml:"carrierFreq"`
	MessageFreq    float64         `yaml:"messageFreq"`
	SampleRate     float64         `yaml:"sampleRate"`
	WindowDuration float64         `yaml:"windowDuration"`
	Seed           int64           `yaml:"seed"`
	Channels       []ChannelConfig `yaml:"channels"`
}

// DefaultConfig is a three-channel scope: the baseband message, its AM
// modulation and the AM demodulation, on a one-second 1 kHz window.
func DefaultConfig() Config {
	return Config{
		CarrierFreq:    10,
		MessageFreq:    1,
		SampleRate:     1000,
		WindowDuration: 1,
		Seed:           1,
		Channels: []ChannelConfig{
			{Role: RoleMessage, Kind: KindSine},
			{Role: RoleModulated, Scheme: SchemeAM},
			{Role: RoleDemodulated, Scheme: SchemeAM},
		},
	}
}

// LoadConfig reads a YAML config, filling unset global values from the
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	cfg.Channels = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(cfg.Channels) == 0 {
		cfg.Channels = DefaultConfig().Channels
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.CarrierFreq <= 0 {
		return fmt.Errorf("%w: carrier frequency must be positive, got %v", ErrInvalidParameter, c.CarrierFreq)
	}
	if c.MessageFreq <= 0 {
		return fmt.Errorf("%w: message frequency must be positive, got %v", ErrInvalidParameter, c.MessageFreq)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidParameter, c.SampleRate)
	}
	if c.WindowDuration <= 0 {
		return fmt.Errorf("%w: window duration must be positive, got %v", ErrInvalidParameter, c.WindowDuration)
	}
	return nil
}
