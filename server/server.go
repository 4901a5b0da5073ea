// Package server implements the TCP front end of the store: a listener, a
// bounded worker pool with caller-runs backpressure, per-connection command
// loops, and graceful shutdown with a bounded grace period.
package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/lrustore"
	"github.com/unkn0wn-root/lrustore/protocol"
)

const welcomeLine = "+Welcome to lrustore. Type HELP for commands.\r\n"

// Server accepts TCP connections and drives the command protocol against a
// shared Cache. Safe for concurrent use; Serve may be called once.
type Server struct {
	addr      string
	cache     *lrustore.Cache
	handler   *protocol.Handler
	log       *zap.Logger
	shutdown  time.Duration
	workers   int
	queueSize int

	running      atomic.Bool
	connections  atomic.Int64
	requests     atomic.Int64
	acceptorDone chan struct{}
	pool         *workerPool

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
}

// Stats are the server's aggregate counters.
type Stats struct {
	Connections int64
	Requests    int64
}

// New builds a Server for addr over cache and handler.
func New(addr string, cache *lrustore.Cache, handler *protocol.Handler, opts ...Option) *Server {
	s := &Server{
		addr:      addr,
		cache:     cache,
		handler:   handler,
		log:       zap.NewNop(),
		shutdown:  DefaultShutdownTimeout,
		workers:   DefaultWorkers,
		queueSize: DefaultQueueSize,
		conns:     make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the listener address. Useful when addr was ":0".
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Stats returns the aggregate connection and request counters.
func (s *Server) Stats() Stats {
	return Stats{
		Connections: s.connections.Load(),
		Requests:    s.requests.Load(),
	}
}

// Serve listens on the configured address and blocks until the context is
// canceled or the accept loop fails. Returns ctx.Err() when the context is
// canceled; use Stop for explicit shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	s.pool = newWorkerPool(s.workers, s.queueSize)
	s.acceptorDone = make(chan struct{})

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		close(s.acceptorDone)
		s.pool.Shutdown(0)
		s.running.Store(false)
		return err
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.log.Info("server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("workers", s.workers),
		zap.Int("queue", s.queueSize))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.acceptLoop(ln)
	}()

	select {
	case err := <-errCh:
		s.running.Store(false)
		return err
	case <-ctx.Done():
		if stopErr := s.Stop(); stopErr != nil {
			s.log.Error("stop after context cancellation failed", zap.Error(stopErr))
		}
		<-errCh
		return ctx.Err()
	}
}

// acceptLoop accepts sockets until the listener closes. Transient accept
// errors are logged and tolerated while the server is running.
func (s *Server) acceptLoop(ln net.Listener) error {
	defer close(s.acceptorDone)

	for s.running.Load() {
		conn, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn("accept error", zap.Error(err))
			continue
		}

		s.connections.Add(1)
		s.trackConn(conn)
		s.pool.Submit(func() { s.handleConn(conn) })
	}
	return nil
}

// handleConn runs one connection's read-dispatch-write loop. A protocol
// error answers on this connection only; an I/O error ends this loop only.
// The socket is always closed on exit.
func (s *Server) handleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	defer func() {
		s.untrackConn(conn)
		_ = conn.Close()
		s.log.Debug("client disconnected", zap.String("remote", remote))
	}()

	s.log.Debug("client connected", zap.String("remote", remote))

	if _, err := conn.Write([]byte(welcomeLine)); err != nil {
		return
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()
		s.requests.Add(1)

		trimmed := strings.TrimSpace(line)
		if strings.EqualFold(trimmed, "QUIT") || strings.EqualFold(trimmed, "EXIT") {
			_, _ = conn.Write(protocol.AppendStatus(nil, "OK bye"))
			return
		}

		start := time.Now()
		resp := s.handler.Handle(line)
		if _, err := conn.Write(resp); err != nil {
			s.log.Debug("write failed", zap.String("remote", remote), zap.Error(err))
			return
		}

		s.log.Debug("command handled",
			zap.String("remote", remote),
			zap.String("command", truncate(trimmed, 50)),
			zap.Duration("latency", time.Since(start)))
	}

	if err := scanner.Err(); err != nil {
		s.log.Debug("read failed", zap.String("remote", remote), zap.Error(err))
	}
}

// Stop closes the listener, waits up to the configured grace period for
// in-flight connections, force-closes stragglers, and reports aggregate
// counters. Returns immediately if the server is not running.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.log.Info("shutting down", zap.Duration("grace", s.shutdown))

	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}
	<-s.acceptorDone

	if !s.pool.Shutdown(s.shutdown) {
		n := s.closeConns()
		s.log.Warn("grace period expired, force-closed lingering connections", zap.Int("count", n))
		// Closed sockets fail their pending reads; give the loops a moment.
		s.pool.Shutdown(time.Second)
	}

	st := s.cache.Stats()
	s.log.Info("server stopped",
		zap.Int64("total_connections", s.connections.Load()),
		zap.Int64("total_requests", s.requests.Load()),
		zap.Int("cache_size", st.Size),
		zap.Int("cache_capacity", st.Capacity),
		zap.Float64("index_load", st.LoadFactor))
	return nil
}

func (s *Server) trackConn(c net.Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrackConn(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

// closeConns force-closes every tracked connection and returns the count.
func (s *Server) closeConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
	}
	return len(s.conns)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
