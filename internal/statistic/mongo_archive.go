package statistic

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sitestats/internal/models"
	"sitestats/internal/providers"
	"sitestats/internal/services"
	"sitestats/internal/structures"
)

// archivedRecord is one StatsRecord in the archive collection. The lookup
// fields are lifted out of the payload so FetchRequest.BSON filters apply.
type archivedRecord struct {
	ID          string     `bson:"_id"`
	BlogID      string     `bson:"blog_id"`
	Type        string     `bson:"type"`
	Period      string     `bson:"period"`
	Date        *time.Time `bson:"date,omitempty"`
	FetchedDate *time.Time `bson:"fetched_date,omitempty"`
	Payload     []byte     `bson:"payload"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func newArchivedRecord(p *models.RecordPersistence, now time.Time) (*archivedRecord, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", p.ID, err)
	}
	return &archivedRecord{
		ID:          p.ID,
		BlogID:      p.BlogID,
		Type:        p.Type.String(),
		Period:      p.Period.String(),
		Date:        p.Date,
		FetchedDate: p.FetchedDate,
		Payload:     payload,
		UpdatedAt:   now,
	}, nil
}

func (a *archivedRecord) persistence() (*models.RecordPersistence, error) {
	var p models.RecordPersistence
	if err := json.Unmarshal(a.Payload, &p); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", a.ID, err)
	}
	return &p, nil
}

// MongoArchive persists store snapshots to a MongoDB collection, one
// document per record.
type MongoArchive struct {
	client  *mongo.Client
	c       *mongo.Collection
	timeout time.Duration
	service services.StatsServiceInterface
	logger  providers.Logger
	// restored gates pruning: until the archive has been loaded, an empty
	// snapshot says nothing about which records are gone.
	restored atomic.Bool
}

func NewMongoArchive(conf *structures.Config, service services.StatsServiceInterface, logger providers.Logger) (*MongoArchive, error) {
	mc := conf.Persistence.Mongo
	timeout := mc.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mc.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Infof(providers.TypeApp, "Connected to MongoDB database %s", mc.Database)

	return &MongoArchive{
		client:  client,
		c:       client.Database(mc.Database).Collection(mc.Collection),
		timeout: timeout,
		service: service,
		logger:  logger,
	}, nil
}

// Persist upserts every record of the current snapshot and, once a Restore
// has succeeded, removes archived records that no longer exist in it.
func (m *MongoArchive) Persist(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	storage, err := m.service.GetSnapshot()
	if err != nil {
		return err
	}

	now := time.Now()
	var writes []mongo.WriteModel
	ids := make([]string, 0)
	for _, records := range storage.Blogs {
		for _, p := range records {
			doc, err := newArchivedRecord(p, now)
			if err != nil {
				return err
			}
			ids = append(ids, doc.ID)
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": doc.ID}).
				SetReplacement(doc).
				SetUpsert(true))
		}
	}

	if len(writes) > 0 {
		if _, err := m.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("archive records: %w", err)
		}
	}
	if !m.restored.Load() {
		m.logger.Warnf(providers.TypeApp, "Archive not restored yet, keeping records missing from the snapshot")
		return nil
	}
	if _, err := m.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("prune archive: %w", err)
	}
	return nil
}

// Restore loads every archived record back into the service.
func (m *MongoArchive) Restore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cur, err := m.c.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	defer cur.Close(ctx)

	storage := &models.Storage{
		Version: models.StorageVersion,
		Blogs:   make(map[string][]*models.RecordPersistence),
	}
	for cur.Next(ctx) {
		var doc archivedRecord
		if err := cur.Decode(&doc); err != nil {
			return fmt.Errorf("decode archive document: %w", err)
		}
		p, err := doc.persistence()
		if err != nil {
			m.logger.Warnf(providers.TypeApp, "Skipping archived record: %s", err)
			continue
		}
		storage.Blogs[doc.BlogID] = append(storage.Blogs[doc.BlogID], p)
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if err := restoreStorage(m.service, m.logger, storage); err != nil {
		return err
	}
	m.restored.Store(true)
	return nil
}

// Find returns the archived records matching fr, regardless of what the
// in-memory stores currently hold.
func (m *MongoArchive) Find(ctx context.Context, fr models.FetchRequest) ([]*models.StatsRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cur, err := m.c.Find(ctx, fr.BSON(), options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []archivedRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]*models.StatsRecord, 0, len(docs))
	for i := range docs {
		p, err := docs[i].persistence()
		if err != nil {
			return nil, err
		}
		r, err := p.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (m *MongoArchive) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		m.logger.Warnf(providers.TypeApp, "Mongo disconnect: %s", err)
	}
}
