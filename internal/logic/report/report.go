// Package report collects diagnostics raised while a translation runs.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillcoder/specctl/internal/logic/model"
)

// Reporter logs each diagnostic as a warning and keeps it for the model.
// It is not safe for concurrent use; one Reporter serves one run.
type Reporter struct {
	logger *slog.Logger
	items  []model.Diagnostic
}

func New(logger *slog.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Add records a diagnostic about ref.
func (r *Reporter) Add(
	ctx context.Context,
	category model.Category,
	ref model.ObjectRef,
	format string,
	args ...any,
) {
	d := model.Diagnostic{
		Category: category,
		Object:   ref,
		Message:  fmt.Sprintf(format, args...),
	}

	r.items = append(r.items, d)

	r.logger.WarnContext(ctx, d.Message,
		"category", string(category),
		"kind", ref.Kind,
		"namespace", ref.Namespace,
		"name", ref.Name,
	)
}

// Diagnostics returns everything recorded so far.
func (r *Reporter) Diagnostics() []model.Diagnostic {
	return r.items
}

// Count returns how many diagnostics of category were recorded.
func (r *Reporter) Count(category model.Category) int {
	n := 0

	for _, d := range r.items {
		if d.Category == category {
			n++
		}
	}

	return n
}
