// Command rootd hosts the application server. It reads a configuration
// file, republishes it (and every later change) onto the snapshot stream
// the Root consumes, and runs until a signal or a fatal failure.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	root "github.com/Station-Manager/root"
	"github.com/Station-Manager/root/config"
	"github.com/Station-Manager/root/stream"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rootd",
		Short:         "Application server host",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	var cfgFile string
	var instance string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server and run until a signal or fatal failure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfgFile, instance)
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "rootd.yaml", "path to the configuration file")
	cmd.Flags().StringVar(&instance, "instance", "rootd", "instance name reported in logs and status")
	return cmd
}

func run(ctx context.Context, cfgFile, instance string) error {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %q: %w", cfgFile, err)
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	// onShutdown fires exactly once per lifecycle, so a buffer of one is
	// enough even when a signal and a fatal failure race.
	done := make(chan error, 1)

	updates := stream.NewReplaySubject[config.Snapshot]()
	r := root.New(updates,
		config.Env{WorkingDir: workingDir, InstanceName: instance},
		root.WithOnShutdown(func(reason error) { done <- reason }),
	)

	v.OnConfigChange(func(_ fsnotify.Event) {
		updates.Publish(config.Snapshot(v.AllSettings()))
	})
	v.WatchConfig()
	updates.Publish(config.Snapshot(v.AllSettings()))

	if err := r.Start(ctx); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case s := <-sig:
		r.Logger().InfoWith().Str("signal", s.String()).Msg("signal received, shutting down")
		return r.Shutdown(nil)
	case reason := <-done:
		return reason
	case <-ctx.Done():
		return r.Shutdown(nil)
	}
}
