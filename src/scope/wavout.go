package scope

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ExportWAV writes samples as a 16-bit mono WAV file. Values outside
// [-1, 1] are clipped.
func ExportWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, v := range samples {
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		buf.Data[i] = int(v * 32767)
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportFrame snapshots every visible trace of one frame into dir as
// ch<N>.wav. This is a single-frame export, not a history recording.
func ExportFrame(dir string, frame Frame) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	rate := int(frame.Axis.SampleRate)
	for i, trace := range frame.Traces {
		if !trace.Visible {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("ch%d.wav", i+1))
		if err := ExportWAV(path, trace.Samples, rate); err != nil {
			return err
		}
	}
	return nil
}
