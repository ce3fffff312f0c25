package appstate

import (
	"time"

	"github.com/skillcoder/specctl/internal/infra/pinger"
)

type statsProvider interface {
	AllStats() map[string]*pinger.Statistics
}

// pingerServer is the pinger service the state owns.
type pingerServer interface {
	statsProvider
	Register(p pinger.Pinger) error
}

type healthChecker interface {
	statsProvider
	IsHealthy() bool
}

type readyChecker interface {
	statsProvider
	IsReady() bool
}

type statusGetter interface {
	statsProvider
	State() State
	Uptime() time.Duration
	StartTime() time.Time
}

var (
	_ healthChecker = (*AppState)(nil)
	_ readyChecker  = (*AppState)(nil)
	_ statusGetter  = (*AppState)(nil)
)
