package translator

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/skillcoder/specctl/internal/logic/model"
)

// Source is the port for object retrieval.
// Implementations are provided by adapters in the inbound and outbound layers.
type Source interface {
	ListObjectsQuery(ctx context.Context) ([]runtime.Object, error)
}

// Emitter serializes a translated model into some target format.
type Emitter interface {
	Name() string
	EmitCommand(ctx context.Context, m *model.Model) error
}

// Engine is the association engine seen from the use case.
type Engine interface {
	Translate(ctx context.Context, objs []runtime.Object) (*model.Model, error)
}

// Recorder receives translation metrics.
type Recorder interface {
	RecordObject(kind string)
	RecordDiagnostic(category string)
	RecordTranslation(result string, duration time.Duration)
}

// Schedule resolves the next activation of a cron expression.
type Schedule interface {
	NextAfter(spec, tz string, after time.Time) (time.Time, error)
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter packages.
type notFound interface {
	IsNotFound()
}
