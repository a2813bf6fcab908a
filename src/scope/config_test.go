package scope

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.validate())
	s, err := NewSession(cfg, nil)
	require.NoError(t, err)
	s.Close()
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CarrierFreq = 0
	assert.ErrorIs(t, cfg.validate(), ErrInvalidParameter)

	cfg = DefaultConfig()
	cfg.SampleRate = -1
	assert.ErrorIs(t, cfg.validate(), ErrInvalidParameter)

	cfg = DefaultConfig()
	cfg.WindowDuration = 0
	assert.ErrorIs(t, cfg.validate(), ErrInvalidParameter)
}

func TestNewSessionRejectsInvalidChannel(t *testing.T) {
	cfg := DefaultConfig()
	bits := "10a1"
	duration := 0.25
	cfg.Channels = []ChannelConfig{
		{Role: RoleMessage, Kind: KindCustomBinary, Bits: bits, BitDuration: &duration},
	}
	_, err := NewSession(cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scope.yaml")
	data := `
carrierFreq: 20
channels:
  - role: message
    kind: custom-binary
    bits: "110"
    bitDuration: 0.2
  - role: modulated
    scheme: fsk
    modIndex: 2
  - role: demodulated
    scheme: fsk
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.CarrierFreq)
	// unset globals keep their defaults
	assert.Equal(t, 1000.0, cfg.SampleRate)
	assert.Equal(t, 1.0, cfg.WindowDuration)
	require.Len(t, cfg.Channels, 3)
	assert.Equal(t, "110", cfg.Channels[0].Bits)
	require.NotNil(t, cfg.Channels[0].BitDuration)
	assert.Equal(t, 0.2, *cfg.Channels[0].BitDuration)
	require.NotNil(t, cfg.Channels[2].Enabled)
	assert.False(t, *cfg.Channels[2].Enabled)

	s, err := NewSession(cfg, nil)
	require.NoError(t, err)
	defer s.Close()
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestChannelConfigApply(t *testing.T) {
	p := newChannelParams()
	amp := 0.0
	cc := ChannelConfig{Kind: KindTriangle, Amplitude: &amp, Offset: 0.5}
	cc.apply(p)
	assert.Equal(t, KindTriangle, p.kind)
	assert.Equal(t, 0.0, p.amplitude) // explicit zero wins over the default
	assert.Equal(t, 0.5, p.offset)
	assert.True(t, p.enabled)              // untouched
	assert.Equal(t, SchemeAM, p.scheme)    // untouched
	assert.Equal(t, 1.0, p.frequency)      // untouched
}
