package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"sitestats/internal/models"
	"sitestats/internal/remote"
	"sitestats/internal/structures"
)

var (
	ErrBlogLimit   = errors.New("site limit reached")
	ErrEmptyBlogID = errors.New("empty site id")
)

type StatsServiceInterface interface {
	// Sync replaces the stored copy of dto for the site and commits it.
	// Nothing is committed when validation fails.
	Sync(blogID string, dto remote.StatsRecordValueConvertible, fetched time.Time) (*models.StatsRecord, error)
	// Read rebuilds the facet's DTO for the site, false when nothing usable is stored.
	Read(blogID string, facet remote.Facet, day time.Time, period models.StatsRecordPeriodType) (any, bool)
	Reset(blogID string) bool
	// Revision changes on every commit to the site's store.
	Revision(blogID string) uint64
	Location() *time.Location
	GetBlogs() []string
	RecordsCount() int
	SyncStats() (synced, rejected int64)
	GetSnapshot() (*models.Storage, error)
	PutBlogRecords(blogID string, records []*models.StatsRecord)
}

type blogStore struct {
	store    *models.Store
	syncMu   sync.Mutex
	revision atomic.Uint64
}

type StatsService struct {
	mu       sync.RWMutex
	blogs    map[string]*blogStore
	maxBlogs int
	location *time.Location

	sequence atomic.Uint64
	synced   atomic.Int64
	rejected atomic.Int64
}

func (ss *StatsService) getBlog(blogID string) *blogStore {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.blogs[blogID]
}

// getOrCreateBlog returns nil when the site limit is reached.
func (ss *StatsService) getOrCreateBlog(blogID string) *blogStore {
	if b := ss.getBlog(blogID); b != nil {
		return b
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if b, ok := ss.blogs[blogID]; ok {
		return b
	}
	if ss.maxBlogs > 0 && len(ss.blogs) >= ss.maxBlogs {
		return nil
	}
	b := &blogStore{store: models.NewStore()}
	b.revision.Store(ss.sequence.Inc())
	ss.blogs[blogID] = b
	return b
}

func (ss *StatsService) Sync(blogID string, dto remote.StatsRecordValueConvertible, fetched time.Time) (*models.StatsRecord, error) {
	if blogID == "" {
		return nil, ErrEmptyBlogID
	}
	b := ss.lockBlog(blogID, ss.getOrCreateBlog)
	if b == nil {
		ss.rejected.Inc()
		return nil, ErrBlogLimit
	}
	defer b.syncMu.Unlock()

	ctx := b.store.NewContext()
	record, err := remote.Replace(ctx, blogID, dto, fetched, ss.location)
	if err != nil {
		ss.rejected.Inc()
		return nil, err
	}
	if err := ctx.Save(); err != nil {
		ctx.Rollback()
		ss.rejected.Inc()
		return nil, fmt.Errorf("sync %s for site %s: %w", dto.RecordType(), blogID, err)
	}

	b.revision.Store(ss.sequence.Inc())
	ss.synced.Inc()
	return record, nil
}

func (ss *StatsService) Read(blogID string, facet remote.Facet, day time.Time, period models.StatsRecordPeriodType) (any, bool) {
	b := ss.getBlog(blogID)
	if b == nil {
		return nil, false
	}

	fr := models.FetchRequestFor(facet.Type, day.In(ss.location)).ForBlog(blogID)
	if facet.Type.RequiresDate() {
		fr = fr.ForPeriod(period)
	}
	record := b.store.NewContext().First(fr)
	if record == nil {
		return nil, false
	}
	return facet.Rebuild(record.Values())
}

// Reset drops the site's store. It waits for an in-flight sync of the site,
// so a sync either lands before the reset or in the fresh store after it.
func (ss *StatsService) Reset(blogID string) bool {
	b := ss.lockBlog(blogID, ss.getBlog)
	if b == nil {
		return false
	}
	defer b.syncMu.Unlock()

	ss.mu.Lock()
	delete(ss.blogs, blogID)
	ss.mu.Unlock()
	return true
}

// lockBlog returns the site's current store with syncMu held, nil when get
// yields none. A store detached by a Reset while waiting is skipped.
func (ss *StatsService) lockBlog(blogID string, get func(string) *blogStore) *blogStore {
	for {
		b := get(blogID)
		if b == nil {
			return nil
		}
		b.syncMu.Lock()
		if ss.getBlog(blogID) == b {
			return b
		}
		b.syncMu.Unlock()
	}
}

func (ss *StatsService) Revision(blogID string) uint64 {
	if b := ss.getBlog(blogID); b != nil {
		return b.revision.Load()
	}
	return 0
}

func (ss *StatsService) Location() *time.Location {
	return ss.location
}

func (ss *StatsService) GetBlogs() []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	blogs := make([]string, 0, len(ss.blogs))
	for id := range ss.blogs {
		blogs = append(blogs, id)
	}
	sort.Strings(blogs)
	return blogs
}

func (ss *StatsService) RecordsCount() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	n := 0
	for _, b := range ss.blogs {
		n += b.store.Len()
	}
	return n
}

func (ss *StatsService) SyncStats() (int64, int64) {
	return ss.synced.Load(), ss.rejected.Load()
}

func (ss *StatsService) GetSnapshot() (*models.Storage, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	storage := &models.Storage{
		Version: models.StorageVersion,
		Blogs:   make(map[string][]*models.RecordPersistence, len(ss.blogs)),
	}
	for id, b := range ss.blogs {
		records := b.store.Snapshot()
		persisted := make([]*models.RecordPersistence, 0, len(records))
		for _, r := range records {
			p, err := models.NewRecordPersistence(r)
			if err != nil {
				return nil, fmt.Errorf("snapshot site %s: %w", id, err)
			}
			persisted = append(persisted, p)
		}
		storage.Blogs[id] = persisted
	}
	return storage, nil
}

// PutBlogRecords replaces a site's records with restored ones. Restores bypass
// the site limit.
func (ss *StatsService) PutBlogRecords(blogID string, records []*models.StatsRecord) {
	b := ss.lockBlog(blogID, func(id string) *blogStore {
		ss.mu.Lock()
		defer ss.mu.Unlock()
		b, ok := ss.blogs[id]
		if !ok {
			b = &blogStore{store: models.NewStore()}
			ss.blogs[id] = b
		}
		return b
	})
	defer b.syncMu.Unlock()
	b.store.Restore(records)
	b.revision.Store(ss.sequence.Inc())
}

func NewStatsService(conf *structures.Config) (StatsServiceInterface, error) {
	loc := time.Local
	if conf.Stats.Timezone != "" {
		l, err := time.LoadLocation(conf.Stats.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}
		loc = l
	}
	return &StatsService{
		blogs:    make(map[string]*blogStore),
		maxBlogs: conf.Stats.MaxBlogs,
		location: loc,
	}, nil
}
