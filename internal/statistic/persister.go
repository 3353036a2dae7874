package statistic

import (
	"sitestats/internal/providers"
	"sitestats/internal/services"
	"sitestats/internal/statistic/interfaces"
	"sitestats/internal/structures"
)

// NewPersister picks the snapshot backend named by persistence.driver.
func NewPersister(conf *structures.Config, compressor interfaces.CompressorInterface, service services.StatsServiceInterface, logger providers.Logger) (interfaces.PersisterInterface, error) {
	if conf.Persistence.Driver == "mongo" {
		logger.Infof(providers.TypeApp, "Persistence: mongo archive")
		archive, err := NewMongoArchive(conf, service, logger)
		if err != nil {
			return nil, err
		}
		return archive, nil
	}
	logger.Infof(providers.TypeApp, "Persistence: file %s", conf.Persistence.FilePath)
	return NewFileManager(conf, compressor, service, logger), nil
}

// NewArchive exposes the record-level query of the persister, nil when the
// backend keeps only whole snapshots.
func NewArchive(persister interfaces.PersisterInterface) interfaces.ArchiveInterface {
	if a, ok := persister.(interfaces.ArchiveInterface); ok {
		return a
	}
	return nil
}
