package httpserver

import (
	"encoding/json"
	"net/http"
	"time"
)

type statusResponse struct {
	State          string     `json:"state"`
	Uptime         string     `json:"uptime"`
	StartTime      time.Time  `json:"startTime"`
	UptimeSec      float64    `json:"uptimeSeconds"`
	ShouldBeActive bool       `json:"shouldBeActive"`
	NextStartup    *time.Time `json:"nextStartup,omitempty"`
	NextShutdown   *time.Time `json:"nextShutdown,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	if !s.appState.IsHealthy() {
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.appState.IsReady() {
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uptime := s.appState.GetUptime()

	response := statusResponse{
		State:          string(s.appState.GetState()),
		Uptime:         uptime.String(),
		StartTime:      s.appState.GetStartTime(),
		UptimeSec:      uptime.Seconds(),
		ShouldBeActive: s.schedule.ShouldBeActiveNow(),
	}

	startup, shutdown, err := s.schedule.NextTransitions()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to compute next transitions", "reason", err)
	} else {
		response.NextStartup = &startup
		response.NextShutdown = &shutdown
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.ErrorContext(ctx, "failed to encode status response", "reason", err)
	}
}
