package app

import "context"

// component is a long running part of the serve mode.
type component interface {
	Name() string
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	Shutdown(ctx context.Context) error
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter packages.
type notFound interface {
	IsNotFound()
}
