package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(handler http.Handler) *Server {
	return New(handler, Options{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServe_GracefulShutdown(t *testing.T) {
	api := newTestAPI(t)
	srv := newTestServer(api.handler)

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("store", record("store"))
	srv.OnShutdown("cache", record("cache"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"cache", "store"}, order)
}

func TestServe_ShutdownErrorsAreJoined(t *testing.T) {
	srv := newTestServer(http.NotFoundHandler())

	errCache := errors.New("cache close failed")
	errStore := errors.New("store close failed")
	srv.OnShutdown("store", func(context.Context) error { return errStore })
	srv.OnShutdown("cache", func(context.Context) error { return errCache })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	require.Error(t, err)
	assert.ErrorIs(t, err, errCache)
	assert.ErrorIs(t, err, errStore)
}

func TestNew_Addr(t *testing.T) {
	srv := newTestServer(http.NotFoundHandler())
	assert.Equal(t, ":0", srv.Addr())

	srv = New(http.NotFoundHandler(), Options{Port: 8080}, slog.Default())
	assert.Equal(t, ":8080", srv.Addr())
}
