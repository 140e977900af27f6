package capture

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dmitrijs2005/matchbox/internal/common"
)

// Device is an audio input. Open fails with common.ErrorDeviceUnavailable
// when the input cannot be used.
type Device interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileDevice streams a prerecorded file.
type FileDevice struct {
	Path string
}

func (d FileDevice) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorDeviceUnavailable, err)
	}
	return f, nil
}

// ToneDevice synthesizes an endless 8-bit PCM sine wave.
type ToneDevice struct {
	Frequency  float64 // Hz, 440 when zero
	SampleRate int     // samples per second, 8000 when zero
}

func (d ToneDevice) Open(_ context.Context) (io.ReadCloser, error) {
	freq, rate := d.Frequency, d.SampleRate
	if freq == 0 {
		freq = 440
	}
	if rate == 0 {
		rate = 8000
	}
	return &tone{step: 2 * math.Pi * freq / float64(rate)}, nil
}

type tone struct {
	step  float64
	phase float64
}

func (t *tone) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(128 + 127*math.Sin(t.phase))
		t.phase = math.Mod(t.phase+t.step, 2*math.Pi)
	}
	return len(p), nil
}

func (t *tone) Close() error { return nil }
