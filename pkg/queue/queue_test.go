package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handled atomic.Int32

type countingJob struct {
	Bump int32 `json:"bump"`
}

func (j *countingJob) Handle() error {
	handled.Add(j.Bump)
	return nil
}

func TestDispatchAndProcess(t *testing.T) {
	handled.Store(0)
	SetDriver(NewMemoryDriver())
	Register("*queue.countingJob", func() Job { return &countingJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	require.NoError(t, Dispatch(&countingJob{Bump: 3}))

	assert.Eventually(t, func() bool {
		return handled.Load() == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnregisteredJobIsSkipped(t *testing.T) {
	d := NewMemoryDriver()
	require.NoError(t, d.Push([]byte(`{"type":"nope","payload":{}}`)))

	// process directly, must not panic
	raw, err := d.Pop(context.Background())
	require.NoError(t, err)
	defaultManager.process(raw)
}

func TestMemoryDriverPopHonoursContext(t *testing.T) {
	d := NewMemoryDriver()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := d.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
