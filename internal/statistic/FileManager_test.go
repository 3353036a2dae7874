package statistic

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestats/internal/models"
	"sitestats/internal/remote"
	"sitestats/internal/services"
	"sitestats/internal/structures"
	"sitestats/internal/testutil"
)

var testDay = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func testConfig(filePath string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: 1 * time.Second,
			Driver:       "file",
		},
		Stats: structures.StatsConfig{MaxBlogs: 1000, Timezone: "UTC"},
	}
}

func newTestFileManager(path string, compressor *testutil.MockCompressor) (*FileManager, *testutil.MockStatsService, *testutil.MockLogger) {
	svc := &testutil.MockStatsService{}
	logger := &testutil.MockLogger{}
	return NewFileManager(testConfig(path), compressor, svc, logger), svc, logger
}

func searchTerms(total int64) remote.StatsSearchTermTimeIntervalData {
	return remote.StatsSearchTermTimeIntervalData{
		StatsTimeInterval:      remote.StatsTimeInterval{Period: models.PeriodDay, PeriodEndDate: testDay},
		TotalSearchTermsCount:  total,
		HiddenSearchTermsCount: 3,
		OtherSearchTermsCount:  2,
		SearchTerms:            []remote.StatsSearchTerm{{Term: "flowers", ViewsCount: 10}},
	}
}

func TestFileManager_SaveToFile_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dat")
	fm, _, _ := newTestFileManager(path, &testutil.MockCompressor{})

	require.NoError(t, fm.SaveToFile(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_PersistUsesConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitestats.dat")
	fm, _, _ := newTestFileManager(path, &testutil.MockCompressor{})

	require.NoError(t, fm.Persist(t.Context()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":1`)
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	fm, svc, _ := newTestFileManager("/nonexistent/path/file.dat", &testutil.MockCompressor{})
	assert.NoError(t, fm.Restore(t.Context()))
	assert.Empty(t, svc.PutCalls)
}

func TestFileManager_LoadFromFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))

	fm, _, _ := newTestFileManager(path, &testutil.MockCompressor{})
	err := fm.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode snapshot")
}

func TestFileManager_LoadFromFile_NewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"blogs":{}}`), 0644))

	fm, svc, _ := newTestFileManager(path, &testutil.MockCompressor{})
	err := fm.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
	assert.Empty(t, svc.PutCalls)
}

func TestFileManager_LoadFromFile_SkipsUndecodableSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.dat")
	raw := `{"version":1,"blogs":{
		"bad":[{"id":"r1","blog_id":"bad","type":"referrers","period":"day",
			"values":[{"kind":"noSuchKind","parent":-1,"value":{}}]}],
		"good":[{"id":"r2","blog_id":"good","type":"allTimeStatsInsight","period":"notApplicable",
			"values":[{"kind":"allTime","parent":-1,"value":{"postsCount":4}}]}]
	}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	fm, svc, logger := newTestFileManager(path, &testutil.MockCompressor{})
	require.NoError(t, fm.LoadFromFile(path))

	require.Contains(t, svc.PutCalls, "good")
	assert.NotContains(t, svc.PutCalls, "bad")
	require.Len(t, svc.PutCalls["good"], 1)
	assert.Equal(t, "r2", svc.PutCalls["good"][0].ID)
	assert.Equal(t, 1, logger.Count("error"))
}

func TestFileManager_CompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "err.dat")
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress failed")
		},
	}
	fm, _, _ := newTestFileManager(path, comp)

	err := fm.SaveToFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compress failed")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_DecompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dec.dat")
	require.NoError(t, os.WriteFile(path, []byte("some data"), 0644))

	comp := &testutil.MockCompressor{
		DecompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("decompress failed")
		},
	}
	fm, _, _ := newTestFileManager(path, comp)

	err := fm.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decompress failed")
}

func TestFileManager_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()
	logger := &testutil.MockLogger{}

	svc, err := services.NewStatsService(testConfig(path))
	require.NoError(t, err)
	_, err = svc.Sync("blog-1", searchTerms(20), time.Now())
	require.NoError(t, err)
	_, err = svc.Sync("blog-2", searchTerms(7), time.Now())
	require.NoError(t, err)
	require.NoError(t, NewFileManager(testConfig(path), comp, svc, logger).SaveToFile(path))

	restored, err := services.NewStatsService(testConfig(path))
	require.NoError(t, err)
	require.NoError(t, NewFileManager(testConfig(path), comp, restored, logger).LoadFromFile(path))

	assert.ElementsMatch(t, []string{"blog-1", "blog-2"}, restored.GetBlogs())
	assert.Equal(t, svc.RecordsCount(), restored.RecordsCount())

	f, ok := remote.LookupFacet("searchTerms")
	require.True(t, ok)
	dto, ok := restored.Read("blog-1", f, testDay, models.PeriodDay)
	require.True(t, ok)
	got := dto.(*remote.StatsSearchTermTimeIntervalData)
	assert.Equal(t, int64(20), got.TotalSearchTermsCount)
	assert.Equal(t, int64(3), got.HiddenSearchTermsCount)
	require.Len(t, got.SearchTerms, 1)
	assert.Equal(t, "flowers", got.SearchTerms[0].Term)
}

func TestFileManager_Close(t *testing.T) {
	comp := &testutil.MockCompressor{}
	fm, _, _ := newTestFileManager(filepath.Join(t.TempDir(), "x.dat"), comp)
	fm.Close()
	assert.True(t, comp.Closed)
}

func TestRestoreStorage_NullRecordSkipsSite(t *testing.T) {
	svc := &testutil.MockStatsService{}
	logger := &testutil.MockLogger{}
	storage := &models.Storage{
		Version: models.StorageVersion,
		Blogs: map[string][]*models.RecordPersistence{
			"broken": {nil},
			"empty":  {},
		},
	}

	require.NotPanics(t, func() {
		require.NoError(t, restoreStorage(svc, logger, storage))
	})
	assert.NotContains(t, svc.PutCalls, "broken")
	assert.Contains(t, svc.PutCalls, "empty")
	assert.Equal(t, 1, logger.Count("error"))
}

func TestFileManager_LoadFromFile_NullRecordEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "null.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"blogs":{"b":[null]}}`), 0644))

	fm, svc, logger := newTestFileManager(path, &testutil.MockCompressor{})
	require.NoError(t, fm.LoadFromFile(path))
	assert.Empty(t, svc.PutCalls)
	assert.Equal(t, 1, logger.Count("error"))
}
