package interfaces

import "context"

// SchedulerInterface drives snapshot persistence over the process lifetime:
// a restore before serving, periodic saves while serving and a final save on
// shutdown.
type SchedulerInterface interface {
	// Init starts the periodic save loop.
	Init()
	// Stop halts the loop without saving.
	Stop()
	Restore(ctx context.Context) error
	Persist(ctx context.Context) error
}
