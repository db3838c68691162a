package mcp

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-fnol-router/internal/config"
)

func TestServer_Run_StdioCancelled(t *testing.T) {
	server := newTestServer(t, t.TempDir())
	server.stdin = &bytes.Buffer{}
	server.stdout = &bytes.Buffer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, server.Run(ctx))
}

func TestServer_Run_UnsupportedMode(t *testing.T) {
	server := newTestServer(t, t.TempDir())
	server.config.Mode = "grpc"

	assert.ErrorContains(t, server.Run(context.Background()), `unsupported mode: "grpc"`)
}

func TestServer_Run_ServerMode(t *testing.T) {
	server := newTestServer(t, t.TempDir())
	server.config.Mode = config.ModeServer
	server.config.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- server.Run(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", server.config.Address())
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_Run_ServerModeAddressInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	server := newTestServer(t, t.TempDir())
	server.config.Mode = config.ModeServer
	server.config.Port = listener.Addr().(*net.TCPAddr).Port

	err = server.Run(context.Background())
	assert.ErrorContains(t, err, "failed to serve http")
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}
