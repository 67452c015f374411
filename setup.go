package root

import (
	"context"
	"fmt"
	"io"
	"os"

	smerrors "github.com/Station-Manager/errors"

	"github.com/Station-Manager/root/config"
	"github.com/Station-Manager/root/logging"
	"github.com/Station-Manager/root/stream"
)

// stderr is where logging setup failures are reported. The logger itself
// may be the broken part, so this path never goes through it.
var stderr io.Writer = os.Stderr

// setupLogging wires the reactive logging reconfiguration pipeline:
// every snapshot's logging sub-tree is decoded and applied to the logging
// service for as long as the Root lives. The call blocks until the first
// snapshot has been applied, so callers know logging is live when it
// returns. A failing upgrade terminates the pipeline; after startup that
// shuts the Root down with the failure as the reason.
func (r *Root) setupLogging(ctx context.Context) error {
	const op smerrors.Op = "root.setupLogging"

	upgrades := stream.MapErr(
		config.At[logging.Config](r.cfgSvc, "logging"),
		func(cfg logging.Config) (logging.Config, error) {
			if err := r.logSvc.Upgrade(&cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		},
	)

	observed := stream.TapError(upgrades, func(err error) {
		_, _ = fmt.Fprintf(stderr, "Configuring logger failed: %v\n", err)
	})

	// Multicast with replay-of-one: the first-value await below and the
	// error watcher must both observe the same pipeline.
	multicast := stream.Publish(observed)
	conn := multicast.Connect()

	if _, err := stream.First(ctx, multicast); err != nil {
		conn.Unsubscribe()
		return smerrors.New(op).Err(err).Msg("Initial logging configuration could not be applied.")
	}

	watcher := multicast.Subscribe(stream.Observer[logging.Config]{
		Error: func(err error) {
			_ = r.Shutdown(err)
		},
	})
	// The upstream connection is torn down as part of the watcher, after
	// the watcher's own teardown, so the error path outlives the pipeline.
	watcher.Add(conn)
	r.loggingSub = watcher
	return nil
}
