package statistic

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"sitestats/internal/models"
	"sitestats/internal/providers"
	"sitestats/internal/services"
	"sitestats/internal/statistic/interfaces"
	"sitestats/internal/structures"
)

type FileManager struct {
	filePath   string
	service    services.StatsServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(conf *structures.Config, compressor interfaces.CompressorInterface, service services.StatsServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		filePath:   conf.Persistence.FilePath,
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

func (f *FileManager) Persist(_ context.Context) error {
	return f.SaveToFile(f.filePath)
}

func (f *FileManager) Restore(_ context.Context) error {
	return f.LoadFromFile(f.filePath)
}

func (f *FileManager) SaveToFile(fileName string) error {
	storage, err := f.service.GetSnapshot()
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores every site found in the snapshot file. A missing file
// is a fresh start, not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if storage.Version > models.StorageVersion {
		return fmt.Errorf("snapshot version %d is newer than supported %d", storage.Version, models.StorageVersion)
	}
	return restoreStorage(f.service, f.logger, &storage)
}

// restoreStorage hands every decodable site to the service. A site whose
// records fail to decode is skipped and logged.
func restoreStorage(service services.StatsServiceInterface, logger providers.Logger, storage *models.Storage) error {
	for blogID, persisted := range storage.Blogs {
		records := make([]*models.StatsRecord, 0, len(persisted))
		var failed error
		for _, p := range persisted {
			r, err := p.Record()
			if err != nil {
				failed = err
				break
			}
			records = append(records, r)
		}
		if failed != nil {
			logger.Errorf(providers.TypeApp, "Skipping site %s on restore: %s", blogID, failed)
			continue
		}
		service.PutBlogRecords(blogID, records)
		logger.Infof(providers.TypeApp, "Restored %d records for site %s", len(records), blogID)
	}
	return nil
}
