package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Station-Manager/root/config"
	"github.com/Station-Manager/root/logging"
	"github.com/Station-Manager/root/stream"
)

// freePort grabs an ephemeral port and releases it for the test to use.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func newTestServer(t *testing.T, snap config.Snapshot) *Server {
	t.Helper()
	updates := stream.NewReplaySubject[config.Snapshot]()
	if snap != nil {
		updates.Publish(snap)
	}
	logSvc := logging.NewService(t.TempDir())
	cfgSvc := config.New(updates, config.Env{InstanceName: "test-instance"}, logSvc)
	return New(cfgSvc, logSvc)
}

func TestServer_StartAndServe(t *testing.T) {
	port := freePort(t)
	srv := newTestServer(t, config.Snapshot{
		"server": map[string]any{"host": "127.0.0.1", "port": port},
	})

	require.NoError(t, srv.Start(context.Background()))
	defer func() { _ = srv.Stop(context.Background()) }()

	base := "http://" + srv.Addr()

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(base + "/status")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"instance":"test-instance"`)
}

func TestServer_PortInUse(t *testing.T) {
	holder, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = holder.Close() }()
	port := holder.Addr().(*net.TCPAddr).Port

	srv := newTestServer(t, config.Snapshot{
		"server": map[string]any{"host": "127.0.0.1", "port": port},
	})

	err = srv.Start(context.Background())
	require.Error(t, err)

	var addrErr *AddrInUseError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, port, addrErr.Port)
}

func TestServer_StopWithoutStart(t *testing.T) {
	srv := newTestServer(t, nil)
	assert.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, srv.Stop(context.Background()))
}

func TestServer_DoubleStart(t *testing.T) {
	port := freePort(t)
	srv := newTestServer(t, config.Snapshot{
		"server": map[string]any{"host": "127.0.0.1", "port": port},
	})

	require.NoError(t, srv.Start(context.Background()))
	defer func() { _ = srv.Stop(context.Background()) }()

	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), errMsgAlreadyStarted)
}

func TestServer_InvalidConfig(t *testing.T) {
	srv := newTestServer(t, config.Snapshot{
		"server": map[string]any{"host": "127.0.0.1", "port": 70000},
	})

	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), errMsgResolveConfig)
}

func TestServer_StartBlocksUntilConfig(t *testing.T) {
	srv := newTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := srv.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), context.DeadlineExceeded.Error())
}
