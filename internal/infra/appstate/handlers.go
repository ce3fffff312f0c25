package appstate

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/specctl/internal/infra/pinger"
)

type statusResponse struct {
	State      string                        `json:"state"`
	Uptime     string                        `json:"uptime"`
	StartTime  time.Time                     `json:"startTime"`
	UptimeSec  float64                       `json:"uptimeSeconds"`
	Components map[string]*pinger.Statistics `json:"components,omitempty"`
}

type probeResponse struct {
	Status     string                        `json:"status"`
	Components map[string]*pinger.Statistics `json:"components,omitempty"`
}

// HandleHealthz serves the liveness probe.
func HandleHealthz(
	logger *slog.Logger,
	appState healthChecker,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logger.With("traceID", middleware.GetReqID(ctx))

		ok := appState.IsHealthy()
		writeProbe(w, logger, r, ok, appState.AllStats())
		logger.DebugContext(ctx, "health check", "passed", ok)
	}
}

// HandleReadyz serves the readiness probe.
func HandleReadyz(
	logger *slog.Logger,
	appState readyChecker,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logger.With("traceID", middleware.GetReqID(ctx))

		ok := appState.IsReady()
		writeProbe(w, logger, r, ok, appState.AllStats())
		logger.DebugContext(ctx, "readiness check", "passed", ok)
	}
}

func HandleStatus(
	logger *slog.Logger,
	appState statusGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logger.With("traceID", middleware.GetReqID(ctx))

		uptime := appState.Uptime()

		writeJSON(w, logger, r, http.StatusOK, statusResponse{
			State:      string(appState.State()),
			Uptime:     uptime.String(),
			StartTime:  appState.StartTime(),
			UptimeSec:  uptime.Seconds(),
			Components: appState.AllStats(),
		})
	}
}

func writeProbe(
	w http.ResponseWriter,
	logger *slog.Logger,
	r *http.Request,
	ok bool,
	stats map[string]*pinger.Statistics,
) {
	resp := probeResponse{Status: "ok", Components: stats}
	code := http.StatusOK

	if !ok {
		resp.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, logger, r, code, resp)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorContext(r.Context(), "failed to encode response", "reason", err)
	}
}
