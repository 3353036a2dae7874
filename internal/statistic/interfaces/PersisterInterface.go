package interfaces

import "context"

// PersisterInterface moves the service's store snapshot to a durable backend
// and back.
type PersisterInterface interface {
	Persist(ctx context.Context) error
	Restore(ctx context.Context) error
	Close()
}
