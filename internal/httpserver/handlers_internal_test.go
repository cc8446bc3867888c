package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/demikl/tarnfui/internal/infra/appstate"
)

var errTransitions = errors.New("no active days")

type fakeAppState struct {
	state   appstate.State
	healthy bool
	ready   bool
}

func (f *fakeAppState) GetState() appstate.State { return f.state }
func (f *fakeAppState) IsHealthy() bool          { return f.healthy }
func (f *fakeAppState) IsReady() bool            { return f.ready }
func (f *fakeAppState) GetUptime() time.Duration { return 90 * time.Second }
func (f *fakeAppState) GetStartTime() time.Time  { return time.Date(2026, 8, 26, 6, 0, 0, 0, time.UTC) }

type fakeSchedule struct {
	active        bool
	startup       time.Time
	shutdown      time.Time
	transitionErr error
}

func (f *fakeSchedule) ShouldBeActiveNow() bool { return f.active }

func (f *fakeSchedule) NextTransitions() (time.Time, time.Time, error) {
	return f.startup, f.shutdown, f.transitionErr
}

func newTestServer(appState appstater, schedule scheduleStatus) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(logger, appState, schedule, "0")
}

func TestHandleHealthz(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(&fakeAppState{healthy: true}, &fakeSchedule{})
		rec := httptest.NewRecorder()

		srv.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/-/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unhealthy", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(&fakeAppState{healthy: false}, &fakeSchedule{})
		rec := httptest.NewRecorder()

		srv.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/-/healthz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandleReadyz(t *testing.T) {
	t.Parallel()

	t.Run("ready", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(&fakeAppState{ready: true}, &fakeSchedule{})
		rec := httptest.NewRecorder()

		srv.handleReadyz(rec, httptest.NewRequest(http.MethodGet, "/-/readyz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(&fakeAppState{ready: false}, &fakeSchedule{})
		rec := httptest.NewRecorder()

		srv.handleReadyz(rec, httptest.NewRequest(http.MethodGet, "/-/readyz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()

	t.Run("includes window decision and transitions", func(t *testing.T) {
		t.Parallel()

		startup := time.Date(2026, 8, 27, 7, 0, 0, 0, time.UTC)
		shutdown := time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC)
		srv := newTestServer(
			&fakeAppState{state: appstate.StateRunning, healthy: true, ready: true},
			&fakeSchedule{active: true, startup: startup, shutdown: shutdown},
		)
		rec := httptest.NewRecorder()

		srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/-/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response statusResponse

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.Equal(t, string(appstate.StateRunning), response.State)
		require.True(t, response.ShouldBeActive)
		require.InDelta(t, 90.0, response.UptimeSec, 0.001)
		require.NotNil(t, response.NextStartup)
		require.Equal(t, startup, response.NextStartup.UTC())
		require.NotNil(t, response.NextShutdown)
		require.Equal(t, shutdown, response.NextShutdown.UTC())
	})

	t.Run("omits transitions on computation failure", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(
			&fakeAppState{state: appstate.StateRunning},
			&fakeSchedule{transitionErr: errTransitions},
		)
		rec := httptest.NewRecorder()

		srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/-/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var response statusResponse

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		require.Nil(t, response.NextStartup)
		require.Nil(t, response.NextShutdown)
	})
}
