package server

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	p := newWorkerPool(4, 16)

	var n atomic.Int64
	for i := 0; i < 100; i++ {
		p.Submit(func() { n.Add(1) })
	}

	require.True(t, p.Shutdown(time.Second), "pool should drain within grace")
	assert.Equal(t, int64(100), n.Load())
}

func TestWorkerPoolCallerRunsWhenSaturated(t *testing.T) {
	p := newWorkerPool(1, 1)

	release := make(chan struct{})
	p.Submit(func() { <-release }) // occupies the only worker
	p.Submit(func() { <-release }) // fills the queue

	// The pool is saturated: this task must run synchronously on the
	// submitting goroutine, before Submit returns.
	ran := false
	p.Submit(func() { ran = true })
	assert.True(t, ran, "saturated Submit should run the task inline")

	close(release)
	require.True(t, p.Shutdown(time.Second))
}

func TestWorkerPoolShutdownTimeout(t *testing.T) {
	p := newWorkerPool(1, 1)

	release := make(chan struct{})
	p.Submit(func() { <-release })

	assert.False(t, p.Shutdown(20*time.Millisecond), "blocked worker should trip the grace period")

	close(release)
	assert.True(t, p.Shutdown(time.Second), "second Shutdown only waits")
}
