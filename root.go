package root

import (
	"context"
	stderrs "errors"
	"fmt"
	"sync"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/Station-Manager/root/config"
	"github.com/Station-Manager/root/logging"
	"github.com/Station-Manager/root/server"
	"github.com/Station-Manager/root/stream"
)

// coreServer is the HTTP server the Root hosts.
type coreServer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Root ties the hosted services to a single lifecycle. Start is one-shot;
// Shutdown runs its teardown exactly once no matter how many callers or
// failure paths reach it.
type Root struct {
	env     config.Env
	updates stream.Stream[config.Snapshot]

	logSvc *logging.Service
	cfgSvc *config.Service
	server coreServer
	log    logging.Logger

	mu    sync.Mutex
	state State

	shutdownDone    atomic.Bool
	shutdownTimeout time.Duration
	onShutdown      func(reason error)

	// loggingSub owns the reactive logging reconfiguration pipeline.
	loggingSub stream.Subscription
}

// Option configures a Root at construction time.
type Option func(*Root)

// WithOnShutdown registers fn to run at the end of Shutdown, after the
// hosted services have stopped. reason is nil on an orderly shutdown.
func WithOnShutdown(fn func(reason error)) Option {
	return func(r *Root) { r.onShutdown = fn }
}

// WithShutdownTimeout bounds the orderly teardown of the hosted services.
func WithShutdownTimeout(d time.Duration) Option {
	return func(r *Root) { r.shutdownTimeout = d }
}

// New wires the hosted services onto the configuration snapshot stream.
// Nothing is started; call Start.
func New(updates stream.Stream[config.Snapshot], env config.Env, opts ...Option) *Root {
	logSvc := logging.NewService(env.WorkingDir)
	cfgSvc := config.New(updates, env, logSvc)

	r := &Root{
		env:             env,
		updates:         updates,
		logSvc:          logSvc,
		cfgSvc:          cfgSvc,
		server:          server.New(cfgSvc, logSvc),
		log:             logSvc.Get("root"),
		state:           StateCreated,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle phase.
func (r *Root) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Logger returns the Root's own named logger.
func (r *Root) Logger() logging.Logger { return r.log }

// Logging returns the factory vending named loggers backed by the Root's
// live logging configuration.
func (r *Root) Logging() logging.Factory { return r.logSvc }

// Start sets up reactive logging reconfiguration and starts the server.
// It blocks until the first configuration snapshot has been applied. On
// failure the Root shuts itself down and the startup error is returned.
func (r *Root) Start(ctx context.Context) error {
	const op smerrors.Op = "root.Start"
	if r == nil {
		return smerrors.New(op).Msg(errMsgNilRoot)
	}

	r.mu.Lock()
	if r.state != StateCreated {
		r.mu.Unlock()
		return smerrors.New(op).Msg(errMsgAlreadyStarted)
	}
	r.state = StateStarting
	r.mu.Unlock()

	r.log.DebugWith().Msg("starting root")

	if err := r.setupLogging(ctx); err != nil {
		return r.failStartup(err)
	}

	// A reconfiguration error may already have triggered the shutdown
	// while the first-value await was returning.
	if r.shutdownDone.Load() {
		return smerrors.New(op).Msg(errMsgShutDownEarly)
	}

	if err := r.server.Start(ctx); err != nil {
		return r.failStartup(err)
	}

	r.mu.Lock()
	r.state = StateRunning
	r.mu.Unlock()

	r.log.InfoWith().Str("instance", r.env.InstanceName).Msg("root started")
	return nil
}

// failStartup marks the Root failed, tears everything down and re-raises
// the startup error. A port-in-use failure is rewritten first so the
// caller and the fatal log both carry the operator-facing diagnostic.
func (r *Root) failStartup(err error) error {
	err = rewriteReason(err)
	r.mu.Lock()
	r.state = StateFailed
	r.mu.Unlock()
	_ = r.Shutdown(err)
	return err
}

// rewriteReason turns the low-level bind failure into an operator-facing
// diagnostic. Other reasons pass through untouched.
func rewriteReason(reason error) error {
	var addrErr *server.AddrInUseError
	if stderrs.As(reason, &addrErr) {
		return fmt.Errorf("Port %d is already in use. Another instance may be running!", addrErr.Port)
	}
	return reason
}

// Shutdown stops the hosted services in reverse start order. With a
// non-nil reason the shutdown is treated as fatal: the reason gets logged
// at fatal severity first so it still reaches the sinks. Teardown is best
// effort; every step runs and the step errors come back combined. Repeat
// calls return nil immediately.
func (r *Root) Shutdown(reason error) error {
	if r == nil {
		return nil
	}
	if !r.shutdownDone.CompareAndSwap(false, true) {
		return nil
	}

	r.log.DebugWith().Msg("shutting root down")

	if reason != nil {
		reason = rewriteReason(reason)
		r.log.FatalWith().Err(reason).Msg(reason.Error())
	}

	r.transition(StateStopping)

	ctx, cancel := context.WithTimeout(context.Background(), r.shutdownTimeout)
	defer cancel()

	var errs []error

	if err := r.server.Stop(ctx); err != nil {
		r.log.ErrorWith().Err(err).Msg("server stop failed")
		errs = append(errs, err)
	}

	if r.loggingSub != nil {
		r.loggingSub.Unsubscribe()
	}

	if err := r.logSvc.Stop(ctx); err != nil {
		errs = append(errs, err)
	}

	r.transition(StateStopped)

	if r.onShutdown != nil {
		r.onShutdown(reason)
	}
	return multierr.Combine(errs...)
}

// transition moves to s unless startup already marked the Root failed.
func (r *Root) transition(s State) {
	r.mu.Lock()
	if r.state != StateFailed {
		r.state = s
	}
	r.mu.Unlock()
}
