package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	mu    sync.Mutex
	calls []time.Time
	ids   []string
	err   error
}

func (f *fakeExpirer) ExpireSweep(_ context.Context, now time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return f.ids, f.err
}

func (f *fakeExpirer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type countingObserver struct {
	mu    sync.Mutex
	total int
	runs  int
}

func (o *countingObserver) ObserveSweep(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs++
	o.total += n
}

func TestSweepOnce(t *testing.T) {
	fixed := time.UnixMilli(5000)
	exp := &fakeExpirer{ids: []string{"r1", "r2"}}
	obs := &countingObserver{}

	s := New(exp, time.Second, func() time.Time { return fixed }, obs, logging.Nop{})

	assert.Equal(t, []string{"r1", "r2"}, s.SweepOnce(context.Background()))
	assert.Equal(t, []time.Time{fixed}, exp.calls)
	assert.Equal(t, 1, obs.runs)
	assert.Equal(t, 2, obs.total)
}

func TestSweepOnce_ErrorIsNotObserved(t *testing.T) {
	exp := &fakeExpirer{err: errors.New("persist failed")}
	obs := &countingObserver{}

	s := New(exp, time.Second, nil, obs, logging.Nop{})

	assert.Nil(t, s.SweepOnce(context.Background()))
	assert.Zero(t, obs.runs)
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	exp := &fakeExpirer{}
	s := New(exp, 5*time.Millisecond, nil, nil, logging.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return exp.count() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
