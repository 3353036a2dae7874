package interfaces

import (
	"context"

	"sitestats/internal/models"
)

// ArchiveInterface queries records kept by a persistence backend that holds
// them individually.
type ArchiveInterface interface {
	Find(ctx context.Context, fr models.FetchRequest) ([]*models.StatsRecord, error)
}
