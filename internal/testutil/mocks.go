package testutil

import (
	"context"
	"sitestats/internal/models"
	"sitestats/internal/providers"
	"sitestats/internal/remote"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockStatsService implements services.StatsServiceInterface.
type MockStatsService struct {
	mu         sync.Mutex
	SyncCalls  []SyncCall
	SyncErr    error
	ReadResult any
	ReadOK     bool
	ReadCalls  int
	ResetCalls []string
	Blogs      []string
	Records    int
	Rev        uint64
	Snapshot   *models.Storage
	PutCalls   map[string][]*models.StatsRecord
}

type SyncCall struct {
	BlogID string
	DTO    remote.StatsRecordValueConvertible
}

func (m *MockStatsService) Sync(blogID string, dto remote.StatsRecordValueConvertible, _ time.Time) (*models.StatsRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncCalls = append(m.SyncCalls, SyncCall{BlogID: blogID, DTO: dto})
	if m.SyncErr != nil {
		return nil, m.SyncErr
	}
	return models.NewStatsRecord(blogID, dto.RecordType()), nil
}

func (m *MockStatsService) Read(_ string, _ remote.Facet, _ time.Time, _ models.StatsRecordPeriodType) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls++
	return m.ReadResult, m.ReadOK
}

func (m *MockStatsService) Reset(blogID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls = append(m.ResetCalls, blogID)
	for _, b := range m.Blogs {
		if b == blogID {
			return true
		}
	}
	return false
}

func (m *MockStatsService) Revision(_ string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Rev
}

func (m *MockStatsService) Location() *time.Location { return time.UTC }

func (m *MockStatsService) GetBlogs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Blogs
}

func (m *MockStatsService) RecordsCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Records
}

func (m *MockStatsService) SyncStats() (int64, int64) { return 0, 0 }

func (m *MockStatsService) GetSnapshot() (*models.Storage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snapshot != nil {
		return m.Snapshot, nil
	}
	return &models.Storage{
		Version: models.StorageVersion,
		Blogs:   make(map[string][]*models.RecordPersistence),
	}, nil
}

func (m *MockStatsService) PutBlogRecords(blogID string, records []*models.StatsRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutCalls == nil {
		m.PutCalls = make(map[string][]*models.StatsRecord)
	}
	m.PutCalls[blogID] = records
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                  sync.Mutex
	PersistenceObserved int
	Syncs               map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_, _ string, _ int)              {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(_ string)                            {}
func (m *MockMetrics) IncCacheMisses(_ string)                          {}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceObserved++
}

func (m *MockMetrics) IncSyncTotal(facet string, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Syncs == nil {
		m.Syncs = make(map[string]int)
	}
	m.Syncs[facet+":"+result]++
}

// MockPersister implements interfaces.PersisterInterface.
type MockPersister struct {
	mu           sync.Mutex
	PersistCalls int
	RestoreCalls int
	PersistErr   error
	RestoreErr   error
}

func (m *MockPersister) Persist(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls++
	return m.PersistErr
}

func (m *MockPersister) Restore(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCalls++
	return m.RestoreErr
}

func (m *MockPersister) Close() {}
