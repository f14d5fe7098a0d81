package dispatch

import "context"

// Module is a self-contained event logging feature. Setup registers its
// gateway handlers and starts any background workers; Teardown stops
// them and flushes in-flight state.
type Module interface {
	// Name identifies the module in logs
	Name() string

	// Setup registers handlers and starts workers
	Setup(ctx context.Context) error

	// Teardown stops workers and flushes state
	Teardown(ctx context.Context) error
}
