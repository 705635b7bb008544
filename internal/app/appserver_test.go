package app

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcvelit/http/internal/core/response"
	"github.com/arcvelit/http/internal/shared/config"
	"github.com/arcvelit/http/internal/shared/logger"
	"github.com/arcvelit/http/internal/shared/types"
)

// syncBuffer is a log sink shared by many connection goroutines.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func testConfig() *types.Config {
	cfg := config.Default()
	cfg.BindAll = false
	cfg.Port = 0
	cfg.GracePeriod = 500 * time.Millisecond
	return cfg
}

func get(t *testing.T, port int) []byte {
	t.Helper()
	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	raw, err := io.ReadAll(conn)
	require.NoError(t, err)
	return raw
}

func TestAppServer_RunServesUntilCancelled(t *testing.T) {
	s := New(testConfig())
	port, err := s.Start()
	require.NoError(t, err)
	assert.Equal(t, port, s.ListenerInfo().Port)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	assert.Equal(t, response.Page().Bytes(), get(t, port))
	assert.Equal(t, response.Page().Bytes(), get(t, port))

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	_, err = net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second)
	assert.Error(t, err, "listener should be closed after shutdown")
}

func TestAppServer_StopEndsRun(t *testing.T) {
	cfg := testConfig()
	cfg.StatsInterval = 20 * time.Millisecond
	s := New(cfg)
	_, err := s.Start()
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	s.Stop()
	s.Stop()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestAppServer_StatsLoopLogs(t *testing.T) {
	var logs syncBuffer
	require.NoError(t, logger.InitWithWriter(types.LogConf{Level: "info"}, &logs))
	t.Cleanup(func() { logger.InitWithWriter(types.LogConf{Level: "info"}, io.Discard) })

	cfg := testConfig()
	cfg.StatsInterval = 20 * time.Millisecond
	s := New(cfg)
	port, err := s.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	get(t, port)
	require.Eventually(t, func() bool { return s.Stats().Served == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		out := logs.String()
		return strings.Contains(out, "Traffic stats") && strings.Contains(out, "served=1")
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	<-errCh
}

func TestAppServer_StartFailsOnBusyPort(t *testing.T) {
	first := New(testConfig())
	port, err := first.Start()
	require.NoError(t, err)
	defer first.Stop()

	cfg := testConfig()
	cfg.Port = port
	_, err = New(cfg).Start()
	assert.Error(t, err)
}
