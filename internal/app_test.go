package internal

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotr/internal/providers"
	"spotr/internal/services"
	"spotr/internal/testutil"
)

func TestApp_BootLoadsSessionAfterRestore(t *testing.T) {
	f := newFixture(t)
	f.scheduler.onRestore = func() {
		f.backend.Put(services.CityKey, `"Varna"`)
	}

	app := f.app()
	app.Boot(context.Background())

	assert.Equal(t, []string{"restore", "init"}, f.scheduler.Calls())
	assert.Equal(t, "Varna", f.state.Snapshot().UserCity)
}

func TestApp_BootSurvivesRestoreError(t *testing.T) {
	f := newFixture(t)
	f.scheduler.restoreErr = errors.New("corrupt snapshot")

	f.app().Boot(context.Background())

	assert.Equal(t, []string{"restore", "init"}, f.scheduler.Calls())
	assert.Equal(t, "Sofia", f.state.Snapshot().UserCity)
	assert.Equal(t, 1, f.logger.Count("error"))
}

func TestApp_ShutdownPersists(t *testing.T) {
	f := newFixture(t)
	app := f.app()

	require.NoError(t, app.Shutdown(context.Background()))
	assert.Equal(t, []string{"stop", "persist"}, f.scheduler.Calls())
}

func TestApp_ShutdownReturnsPersistError(t *testing.T) {
	f := newFixture(t)
	f.scheduler.persistErr = errors.New("disk full")

	err := f.app().Shutdown(context.Background())
	assert.EqualError(t, err, "disk full")
}

func TestApp_ShutdownFlushesWhenDrainTimesOut(t *testing.T) {
	f := newFixture(t)
	f.scheduler.persistErr = errors.New("disk full")
	app := f.app()

	entered := make(chan struct{})
	release := make(chan struct{})
	app.WebServer.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.WebServer.Serve(ln)
	t.Cleanup(func() { close(release) })

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err == nil {
			resp.Body.Close()
		}
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = app.Shutdown(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, []string{"stop", "persist"}, f.scheduler.Calls())
	assert.Equal(t, 1, f.logger.Count("error"))
}

func TestApp_Handler(t *testing.T) {
	f := newFixture(t)
	handler := f.app().WebServer.Handler

	tests := []struct {
		target string
		status int
	}{
		{"/health", http.StatusOK},
		{"/spots", http.StatusOK},
		{"/media/feed", http.StatusOK},
		{"/metrics", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestApp_MetricsEndpointWhenEnabled(t *testing.T) {
	f := newFixture(t)
	f.conf.Metrics.Enabled = true

	rr := httptest.NewRecorder()
	f.app().WebServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestApp_RequestMetricsUseRoutePatterns(t *testing.T) {
	f := newFixture(t)
	metrics := testutil.NewMockMetrics()
	handler := f.appWithMetrics(metrics).WebServer.Handler

	for _, target := range []string{"/spots", "/wp-login.php", "/spots?city=Sofia", "/a/b/c/123", "/health"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, map[string]int{"/spots": 2, providers.UnmatchedEndpoint: 2}, metrics.Endpoints)
}
