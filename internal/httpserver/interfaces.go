package httpserver

import (
	"time"

	"github.com/demikl/tarnfui/internal/infra/appstate"
)

// appstater is an internal interface for application state management.
type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
}

// scheduleStatus exposes the scheduler's current window decision for the
// status endpoint.
type scheduleStatus interface {
	ShouldBeActiveNow() bool
	NextTransitions() (startup, shutdown time.Time, err error)
}
