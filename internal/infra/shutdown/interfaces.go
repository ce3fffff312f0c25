package shutdown

import "context"

// Shutdowner is a component stopped during graceful shutdown.
type Shutdowner interface {
	Name() string
	Shutdown(ctx context.Context) error
}
