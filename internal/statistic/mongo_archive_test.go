package statistic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"sitestats/internal/models"
	"sitestats/internal/structures"
	"sitestats/internal/testutil"
)

func referrersRecord(t *testing.T, blogID string) *models.RecordPersistence {
	t.Helper()
	r := models.NewStatsRecord(blogID, models.Referrers)
	day := testDay
	r.Date = &day
	r.AddValues(&models.ReferrerStatsRecordValue{Label: "google.com", ViewsCount: 12})
	p, err := models.NewRecordPersistence(r)
	require.NoError(t, err)
	return p
}

func archivedDoc(t *testing.T, p *models.RecordPersistence) bson.D {
	t.Helper()
	doc, err := newArchivedRecord(p, time.Now())
	require.NoError(t, err)
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func TestArchivedRecord_Roundtrip(t *testing.T) {
	p := referrersRecord(t, "blog-1")

	doc, err := newArchivedRecord(p, time.Now())
	require.NoError(t, err)
	assert.Equal(t, p.ID, doc.ID)
	assert.Equal(t, "blog-1", doc.BlogID)
	assert.Equal(t, "referrers", doc.Type)
	assert.Equal(t, "day", doc.Period)
	require.NotNil(t, doc.Date)
	assert.True(t, doc.Date.Equal(testDay))

	back, err := doc.persistence()
	require.NoError(t, err)
	r, err := back.Record()
	require.NoError(t, err)
	require.Len(t, r.Values(), 1)
	ref := r.Values()[0].(*models.ReferrerStatsRecordValue)
	assert.Equal(t, "google.com", ref.Label)
	assert.Equal(t, int64(12), ref.ViewsCount)
}

func TestArchivedRecord_FieldsMatchFetchFilter(t *testing.T) {
	d := archivedDoc(t, referrersRecord(t, "blog-1"))
	keys := make(map[string]bool, len(d))
	for _, e := range d {
		keys[e.Key] = true
	}

	fr := models.FetchRequestFor(models.Referrers, testDay).ForBlog("blog-1").ForPeriod(models.PeriodDay)
	for key := range fr.BSON() {
		assert.True(t, keys[key], "archived document lacks %q", key)
	}
	assert.True(t, keys["_id"])
	assert.True(t, keys["payload"])
}

func TestArchivedRecord_BadPayload(t *testing.T) {
	doc := &archivedRecord{ID: "x", Payload: []byte("{")}
	_, err := doc.persistence()
	assert.Error(t, err)
}

func TestNewMongoArchive_BadURI(t *testing.T) {
	conf := &structures.Config{Persistence: structures.Persistence{
		Driver: "mongo",
		Mongo:  structures.MongoConfig{URI: "notmongo://nowhere", Database: "db", Collection: "c", Timeout: time.Second},
	}}
	_, err := NewMongoArchive(conf, &testutil.MockStatsService{}, &testutil.MockLogger{})
	assert.Error(t, err)
}

func mockArchive(mt *mtest.T, svc *testutil.MockStatsService, logger *testutil.MockLogger) *MongoArchive {
	return &MongoArchive{
		client:  mt.Client,
		c:       mt.Coll,
		timeout: 5 * time.Second,
		service: svc,
		logger:  logger,
	}
}

func commandNames(mt *mtest.T) []string {
	var names []string
	for _, e := range mt.GetAllStartedEvents() {
		names = append(names, e.CommandName)
	}
	return names
}

func TestMongoArchive(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("persist", func(mt *mtest.T) {
		p := referrersRecord(mt.T, "blog-1")
		svc := &testutil.MockStatsService{Snapshot: &models.Storage{
			Version: models.StorageVersion,
			Blogs:   map[string][]*models.RecordPersistence{"blog-1": {p}},
		}}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		archive := mockArchive(mt, svc, &testutil.MockLogger{})
		archive.restored.Store(true)
		require.NoError(mt, archive.Persist(mt.Context()))
		assert.Equal(mt, []string{"update", "delete"}, commandNames(mt))
	})

	mt.Run("failed restore keeps archive on persist", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 50, Message: "operation exceeded time limit"}))
		logger := &testutil.MockLogger{}
		archive := mockArchive(mt, &testutil.MockStatsService{}, logger)

		require.Error(mt, archive.Restore(mt.Context()))
		require.NoError(mt, archive.Persist(mt.Context()))

		assert.NotContains(mt, commandNames(mt), "delete")
		assert.Equal(mt, 1, logger.Count("warn"))
	})

	mt.Run("persist write error", func(mt *mtest.T) {
		svc := &testutil.MockStatsService{Snapshot: &models.Storage{
			Version: models.StorageVersion,
			Blogs:   map[string][]*models.RecordPersistence{"blog-1": {referrersRecord(mt.T, "blog-1")}},
		}}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Message: "boom"}))

		err := mockArchive(mt, svc, &testutil.MockLogger{}).Persist(mt.Context())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "archive records")
	})

	mt.Run("restore", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := referrersRecord(mt.T, "blog-1")
		second := referrersRecord(mt.T, "blog-2")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, archivedDoc(mt.T, first)),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, archivedDoc(mt.T, second)),
		)

		svc := &testutil.MockStatsService{}
		archive := mockArchive(mt, svc, &testutil.MockLogger{})
		require.NoError(mt, archive.Restore(mt.Context()))
		assert.True(mt, archive.restored.Load())
		require.Len(mt, svc.PutCalls, 2)
		assert.Equal(mt, first.ID, svc.PutCalls["blog-1"][0].ID)
		assert.Equal(mt, second.ID, svc.PutCalls["blog-2"][0].ID)
	})

	mt.Run("find", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		p := referrersRecord(mt.T, "blog-1")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, archivedDoc(mt.T, p)))

		fr := models.FetchRequestFor(models.Referrers, testDay).ForBlog("blog-1")
		records, err := mockArchive(mt, &testutil.MockStatsService{}, &testutil.MockLogger{}).Find(mt.Context(), fr)
		require.NoError(mt, err)
		require.Len(mt, records, 1)
		assert.Equal(mt, p.ID, records[0].ID)
		assert.Equal(mt, models.Referrers, records[0].Type)
	})
}
