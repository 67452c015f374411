package server

import (
	"context"
	stderrs "errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/Station-Manager/errors"

	"github.com/Station-Manager/root/config"
	"github.com/Station-Manager/root/logging"
	"github.com/Station-Manager/root/stream"
)

// Server is the HTTP service hosted by the lifecycle coordinator. It is
// inert until Start and safe to Stop whether or not Start ever ran.
type Server struct {
	cfgService *config.Service
	log        logging.Logger

	mu           sync.Mutex
	httpSrv      *http.Server
	listener     net.Listener
	startedAt    time.Time
	started      bool
	drainTimeout time.Duration

	stopOnce sync.Once
}

// New returns an unstarted server drawing its configuration from cfgService.
func New(cfgService *config.Service, factory logging.Factory) *Server {
	return &Server{
		cfgService: cfgService,
		log:        factory.Get("server"),
	}
}

// Start resolves the server configuration from the snapshot stream, binds
// the listener and begins serving in the background. A port held by
// another process yields an *AddrInUseError. ctx bounds only the
// configuration wait and bind, not the serving itself.
func (s *Server) Start(ctx context.Context) error {
	const op errors.Op = "server.Start"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New(op).Msg(errMsgAlreadyStarted)
	}

	cfg, err := stream.First(ctx, config.At[Config](s.cfgService, "server"))
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgResolveConfig)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if stderrs.Is(err, syscall.EADDRINUSE) {
			return &AddrInUseError{Port: cfg.Port, Err: err}
		}
		return errors.New(op).Err(err).Msg(errMsgListenFailed)
	}

	s.listener = listener
	s.startedAt = time.Now()
	s.drainTimeout = time.Duration(cfg.ShutdownTimeoutMS) * time.Millisecond
	s.httpSrv = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeoutMS) * time.Millisecond,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutMS) * time.Millisecond,
	}
	s.started = true

	go func() {
		if err := s.httpSrv.Serve(listener); err != nil && !stderrs.Is(err, http.ErrServerClosed) {
			s.log.ErrorWith().Err(err).Msg("http server terminated")
		}
	}()

	s.log.InfoWith().Str("addr", listener.Addr().String()).Msg("http server listening")
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return emptyString
	}
	return s.listener.Addr().String()
}

// Stop drains in-flight requests and releases the listener. It is
// idempotent and a no-op when the server never started.
func (s *Server) Stop(ctx context.Context) error {
	const op errors.Op = "server.Stop"
	if s == nil {
		return nil
	}

	var stopErr error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpSrv
		timeout := s.drainTimeout
		s.mu.Unlock()
		if srv == nil {
			return
		}
		if timeout <= 0 {
			timeout = time.Duration(DefaultShutdownTimeoutMS) * time.Millisecond
		}

		drainCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := srv.Shutdown(drainCtx); err != nil {
			stopErr = errors.New(op).Err(err).Msg("Graceful shutdown did not complete.")
			_ = srv.Close()
			return
		}
		s.log.InfoWith().Msg("http server stopped")
	})
	return stopErr
}
