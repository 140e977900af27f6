// Package capture records audio clips asynchronously. A Recorder pulls one
// chunk per timeslice from its Device in a background goroutine until
// Stop, then finalizes the accumulated bytes into a content-addressed Clip.
package capture

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/common"
	"github.com/dmitrijs2005/matchbox/internal/cryptox"
	"github.com/dmitrijs2005/matchbox/internal/logging"
)

const (
	DefaultChunkSize = 4096
	DefaultTimeslice = 20 * time.Millisecond
)

// Clip is a finalized recording.
type Clip struct {
	Data   []byte
	Digest []byte
}

func (c Clip) DigestHex() string { return hex.EncodeToString(c.Digest) }

// Result is delivered exactly once per recording.
type Result struct {
	Clip Clip
	Err  error
}

type Recorder struct {
	device    Device
	chunkSize int
	timeslice time.Duration
	logger    logging.Logger

	mu     sync.Mutex
	active *session
}

type session struct {
	cancel   context.CancelFunc
	result   chan Result
	captured atomic.Int64
}

type Option func(*Recorder)

func WithChunkSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

func WithTimeslice(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.timeslice = d
		}
	}
}

func NewRecorder(device Device, logger logging.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		device:    device,
		chunkSize: DefaultChunkSize,
		timeslice: DefaultTimeslice,
		logger:    logger.With("module", "capture"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start opens the device and begins accumulating chunks. The recording ends
// on Stop or when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return fmt.Errorf("%w: already recording", common.ErrorInvalidState)
	}

	src, err := r.device.Open(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrorDeviceUnavailable) {
			err = fmt.Errorf("%w: %v", common.ErrorDeviceUnavailable, err)
		}
		return err
	}

	rctx, cancel := context.WithCancel(ctx)
	s := &session{cancel: cancel, result: make(chan Result, 1)}
	r.active = s

	go r.record(rctx, src, s)

	r.logger.Debug(ctx, "recording started")
	return nil
}

// Stop ends the current recording. The returned channel yields the
// finalized clip once the capture goroutine has drained.
func (r *Recorder) Stop() (<-chan Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return nil, fmt.Errorf("%w: not recording", common.ErrorInvalidState)
	}

	s := r.active
	r.active = nil
	s.cancel()
	return s.result, nil
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Captured reports how many bytes the current recording holds so far.
func (r *Recorder) Captured() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return 0
	}
	return r.active.captured.Load()
}

func (r *Recorder) record(ctx context.Context, src io.ReadCloser, s *session) {
	defer src.Close()

	var (
		buf     bytes.Buffer
		chunk   = make([]byte, r.chunkSize)
		drained bool
		readErr error
	)

	ticker := time.NewTicker(r.timeslice)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if drained {
				continue
			}
			n, err := src.Read(chunk)
			buf.Write(chunk[:n])
			s.captured.Add(int64(n))
			if errors.Is(err, io.EOF) {
				drained = true
			} else if err != nil {
				readErr = err
				break loop
			}
		}
	}

	s.result <- finalize(buf.Bytes(), readErr)
	close(s.result)
}

func finalize(data []byte, readErr error) Result {
	if readErr != nil {
		return Result{Err: fmt.Errorf("%w: read failed: %v", common.ErrorDeviceUnavailable, readErr)}
	}
	if len(data) == 0 {
		return Result{Err: fmt.Errorf("%w: nothing was recorded", common.ErrorValidation)}
	}
	return Result{Clip: Clip{Data: data, Digest: cryptox.PayloadDigest(data)}}
}
