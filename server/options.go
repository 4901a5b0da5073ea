package server

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultWorkers is the default worker pool size.
	DefaultWorkers = 50

	// DefaultQueueSize is the default pending-connection queue length.
	DefaultQueueSize = 1000

	// DefaultShutdownTimeout is the default grace period for in-flight
	// connections during shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// maxLineBytes bounds a single command line coming off the wire.
	maxLineBytes = 1 << 20 // 1 MB
)

// Option configures server behavior.
type Option func(*Server)

// WithLogger sets the logger for server operations. Defaults to zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithShutdownTimeout sets the grace period in-flight connections get
// before being force-closed on shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdown = d
		}
	}
}

// WithWorkers sets the worker pool size (maximum concurrent connections).
func WithWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithQueueSize sets the pending-connection queue length. When the queue is
// full, a new connection is handled synchronously on the acceptor, which
// pauses further accepts until it finishes.
func WithQueueSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.queueSize = n
		}
	}
}
