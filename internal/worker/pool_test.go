package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type funcJob struct {
	id string
	fn func(ctx context.Context) error
}

func (j *funcJob) ID() string                        { return j.id }
func (j *funcJob) Execute(ctx context.Context) error { return j.fn(ctx) }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(3, 10, quietLogger())
	d.Run()
	defer d.Stop()

	const n = 20
	var wg sync.WaitGroup
	var ran atomic.Int32
	wg.Add(n)
	for i := 0; i < n; i++ {
		job := &funcJob{id: fmt.Sprintf("job-%d", i), fn: func(context.Context) error {
			defer wg.Done()
			ran.Add(1)
			return nil
		}}
		// The queue holds 10; retry until there is room
		for {
			err := d.SubmitJob(job)
			if err == nil {
				break
			}
			require.ErrorIs(t, err, ErrQueueFull)
			time.Sleep(time.Millisecond)
		}
	}

	waitOrFail(t, &wg)
	assert.Equal(t, int32(n), ran.Load())
}

func TestFailingJobDoesNotStopWorker(t *testing.T) {
	d := NewDispatcher(1, 4, quietLogger())
	d.Run()
	defer d.Stop()

	var wg sync.WaitGroup
	wg.Add(2)
	require.NoError(t, d.SubmitJob(&funcJob{id: "bad", fn: func(context.Context) error {
		defer wg.Done()
		return errors.New("boom")
	}}))
	require.NoError(t, d.SubmitJob(&funcJob{id: "good", fn: func(context.Context) error {
		defer wg.Done()
		return nil
	}}))
	waitOrFail(t, &wg)
}

func TestSubmitJobQueueFull(t *testing.T) {
	// Not running, so nothing drains the queue
	d := NewDispatcher(1, 1, quietLogger())
	noop := func(context.Context) error { return nil }

	require.NoError(t, d.SubmitJob(&funcJob{id: "first", fn: noop}))
	assert.ErrorIs(t, d.SubmitJob(&funcJob{id: "second", fn: noop}), ErrQueueFull)
	d.Stop()
}

func TestStopCancelsRunningJobs(t *testing.T) {
	d := NewDispatcher(1, 1, quietLogger())
	d.Run()

	started := make(chan struct{})
	var cancelled atomic.Bool
	require.NoError(t, d.SubmitJob(&funcJob{id: "long", fn: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}}))
	<-started

	d.Stop()
	assert.True(t, cancelled.Load())
	assert.ErrorIs(t, d.SubmitJob(&funcJob{id: "late", fn: func(context.Context) error { return nil }}), ErrStopped)

	// Stopping twice is harmless
	d.Stop()
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for jobs")
	}
}
