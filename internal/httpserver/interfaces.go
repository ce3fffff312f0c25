package httpserver

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/skillcoder/specctl/internal/infra/appstate"
	"github.com/skillcoder/specctl/internal/infra/pinger"
	"github.com/skillcoder/specctl/internal/logic/compose"
	"github.com/skillcoder/specctl/internal/logic/model"
)

// appstater is an internal interface for application state management
type appstater interface {
	State() appstate.State
	IsHealthy() bool
	IsReady() bool
	Uptime() time.Duration
	StartTime() time.Time
	AllStats() map[string]*pinger.Statistics
}

type translator interface {
	TranslateObjects(ctx context.Context, objs []runtime.Object) (*model.Model, error)
}

type composer interface {
	Convert(ctx context.Context, project compose.Project) []compose.Manifest
}
