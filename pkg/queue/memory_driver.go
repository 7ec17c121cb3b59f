package queue

import "context"

// MemoryDriver is a channel-backed in-process queue. It is the default driver
// and the one used in tests. Jobs are lost on restart.
type MemoryDriver struct {
	jobs chan []byte
}

// NewMemoryDriver creates a memory driver with a buffer of 1000 jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{jobs: make(chan []byte, 1000)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	d.jobs <- payload
	return nil
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.jobs:
		return payload, nil
	}
}
