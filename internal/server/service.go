package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/slatelisp/nrepld/internal/observability"
	"github.com/slatelisp/nrepld/internal/protocol/bencode"
	"github.com/slatelisp/nrepld/internal/protocol/nrepl"
)

// Service is the protocol runtime: one listener, one shared registry,
// one handler goroutine per connection.
type Service struct {
	cfg ServiceConfig

	registry   *Registry
	dispatcher *Dispatcher

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}

	clientCount atomic.Int64
	started     time.Time
}

// NewService builds a service with default configuration.
func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

// NewServiceWithConfig builds a service with explicit configuration.
func NewServiceWithConfig(cfg ServiceConfig) *Service {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = DefaultServiceConfig().ListenAddr
	}
	if cfg.Limits == (bencode.Limits{}) {
		cfg.Limits = bencode.DefaultLimits()
	}
	registry := NewRegistry()
	return &Service{
		cfg:        cfg,
		registry:   registry,
		dispatcher: NewDispatcher(registry, nil),
		conns:      make(map[net.Conn]struct{}),
		started:    time.Now(),
	}
}

// Registry returns the session registry boundary owner.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Run blocks serving the configured listeners until signal shutdown.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("session listener up")

	adminErr := make(chan error, 1)
	if addr := strings.TrimSpace(s.cfg.AdminListenAddr); addr != "" {
		go func() {
			adminErr <- s.serveAdmin(ctx, addr)
		}()
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(ctx, ln)
	}()
	select {
	case err := <-serveErr:
		return err
	case err := <-adminErr:
		if err != nil {
			return err
		}
		return <-serveErr
	}
}

// Serve accepts protocol connections on an existing listener until ctx
// is canceled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	go func() {
		<-ctx.Done()
		s.closeAllConns()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.trackConn(conn)
		go s.handleConn(conn)
	}
}

// handleConn drives one connection's read/interpret/dispatch/reply
// cycle. Interpretation failures are answered and the loop continues;
// decode failures are answered and the connection closes, since the
// stream position is no longer trustworthy.
func (s *Service) handleConn(conn net.Conn) {
	defer conn.Close()
	defer s.untrackConn(conn)

	connID := ulid.Make().String()
	remote := conn.RemoteAddr().String()
	active := s.clientCount.Add(1)
	observability.RecordConnectionOpened()
	log.Info().
		Str("conn_id", connID).
		Str("remote", remote).
		Int64("active_clients", active).
		Msg("client connected")
	defer func() {
		remaining := s.clientCount.Add(-1)
		observability.RecordConnectionClosed()
		log.Info().
			Str("conn_id", connID).
			Str("remote", remote).
			Int64("active_clients", remaining).
			Msg("client disconnected")
	}()

	reader := bufio.NewReader(conn)
	for {
		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		value, err := bencode.ReadValue(reader, s.cfg.Limits)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				log.Warn().Str("conn_id", connID).Msg("read timeout")
				return
			}
			log.Warn().Str("conn_id", connID).Err(err).Msg("request decode failed")
			s.writeReject(conn, connID, nrepl.Reject("", err))
			return
		}

		req, err := nrepl.Interpret(value)
		if err != nil {
			log.Warn().Str("conn_id", connID).Err(err).Msg("request rejected")
			if !s.writeReject(conn, connID, nrepl.Reject(nrepl.EchoID(value), err)) {
				return
			}
			continue
		}

		start := time.Now()
		resp, err := s.dispatcher.Dispatch(req)
		if err != nil {
			log.Error().Str("conn_id", connID).Err(err).Msg("dispatch failed")
			return
		}
		payload, err := nrepl.EncodeResponse(resp)
		if err != nil {
			log.Error().Str("conn_id", connID).Err(err).Msg("encode reply failed")
			return
		}
		if !s.write(conn, connID, payload) {
			return
		}
		observability.RecordSessionRequest(req.Op(), time.Since(start))
		log.Debug().
			Str("conn_id", connID).
			Str("op", req.Op()).
			Dur("duration", time.Since(start)).
			Msg("request served")
	}
}

// writeReject answers a failed request. The return mirrors write.
func (s *Service) writeReject(conn net.Conn, connID string, rej nrepl.Rejection) bool {
	observability.RecordRejection(rej.Token)
	payload, err := nrepl.EncodeResponse(rej)
	if err != nil {
		log.Error().Str("conn_id", connID).Err(err).Msg("encode rejection failed")
		return false
	}
	return s.write(conn, connID, payload)
}

func (s *Service) write(conn net.Conn, connID string, payload []byte) bool {
	if s.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	if _, err := conn.Write(payload); err != nil {
		log.Warn().Str("conn_id", connID).Err(err).Msg("write reply failed")
		return false
	}
	return true
}

// Connection-tracking add operation for coordinated shutdown.
func (s *Service) trackConn(conn net.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.conns[conn] = struct{}{}
}

// Connection-tracking remove operation after connection teardown.
func (s *Service) untrackConn(conn net.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, conn)
}

// Shutdown helper that closes and drains tracked active connections.
func (s *Service) closeAllConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
		delete(s.conns, conn)
	}
}
