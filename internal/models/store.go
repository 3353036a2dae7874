package models

import (
	"fmt"
	"sync"
)

// Store is the persistent container of one site's records. Changes reach it
// only through a Context, whose Save validates and commits atomically.
type Store struct {
	mu      sync.RWMutex
	records []*StatsRecord
}

func NewStore() *Store {
	return &Store{}
}

// NewContext opens a unit of work against the store.
func (s *Store) NewContext() *Context {
	return &Context{
		store:   s,
		deleted: make(map[string]struct{}),
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns the committed records in commit order.
func (s *Store) Snapshot() []*StatsRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StatsRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Restore replaces the store's content with previously persisted records.
// Records are trusted and not revalidated.
func (s *Store) Restore(records []*StatsRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]*StatsRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			s.records = append(s.records, r)
		}
	}
}

// Context is a unit of work over a Store. It is not safe for concurrent use:
// confine each context to one goroutine and hand results over by saving and
// re-fetching through another context.
type Context struct {
	store    *Store
	inserted []*StatsRecord
	deleted  map[string]struct{}
	// set while Save holds the store lock
	locked bool
}

// Insert registers a new record and its values for the next Save. A record
// that is already pending is ignored; re-inserting a committed record only
// cancels its pending delete.
func (c *Context) Insert(r *StatsRecord) {
	if r == nil {
		return
	}
	for _, ins := range c.inserted {
		if ins.ID == r.ID {
			return
		}
	}
	if c.committed(r.ID) {
		delete(c.deleted, r.ID)
		return
	}
	c.inserted = append(c.inserted, r)
}

func (c *Context) committed(id string) bool {
	if !c.locked {
		c.store.mu.RLock()
		defer c.store.mu.RUnlock()
	}
	for _, r := range c.store.records {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Delete removes a record together with its values on the next Save.
func (c *Context) Delete(r *StatsRecord) {
	if r == nil {
		return
	}
	for i, ins := range c.inserted {
		if ins == r {
			c.inserted = append(c.inserted[:i], c.inserted[i+1:]...)
			return
		}
	}
	c.deleted[r.ID] = struct{}{}
}

func (c *Context) HasChanges() bool {
	return len(c.inserted) > 0 || len(c.deleted) > 0
}

// Rollback discards all pending changes.
func (c *Context) Rollback() {
	c.inserted = nil
	c.deleted = make(map[string]struct{})
}

// Fetch returns the records matching fr as seen by this context: committed
// records minus pending deletes, plus pending inserts.
func (c *Context) Fetch(fr FetchRequest) []*StatsRecord {
	var out []*StatsRecord
	c.each(func(r *StatsRecord) {
		if fr.Matches(r) {
			out = append(out, r)
		}
	})
	return out
}

// First returns the first record matching fr, or nil.
func (c *Context) First(fr FetchRequest) *StatsRecord {
	var found *StatsRecord
	c.each(func(r *StatsRecord) {
		if found == nil && fr.Matches(r) {
			found = r
		}
	})
	return found
}

func (c *Context) Count(fr FetchRequest) int {
	n := 0
	c.each(func(r *StatsRecord) {
		if fr.Matches(r) {
			n++
		}
	})
	return n
}

// CountValues counts values of the given kind across all visible records.
func (c *Context) CountValues(kind ValueKind) int {
	n := 0
	c.each(func(r *StatsRecord) {
		for _, v := range r.values {
			if v.Kind() == kind {
				n++
			}
		}
	})
	return n
}

// Save validates every pending insert against the post-change view and
// commits all changes, or none of them if any validation fails.
func (c *Context) Save() error {
	if !c.HasChanges() {
		return nil
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.locked = true
	defer func() { c.locked = false }()

	for _, r := range c.inserted {
		if err := r.ValidateForInsert(c); err != nil {
			return fmt.Errorf("insert %s record: %w", r.Type, err)
		}
		for _, v := range r.values {
			if err := v.ValidateForInsert(c); err != nil {
				return fmt.Errorf("insert %s value of %s record: %w", v.Kind(), r.Type, err)
			}
		}
	}

	kept := make([]*StatsRecord, 0, len(c.store.records)+len(c.inserted))
	ids := make(map[string]struct{}, cap(kept))
	for _, r := range c.store.records {
		if _, gone := c.deleted[r.ID]; !gone {
			kept = append(kept, r)
			ids[r.ID] = struct{}{}
		}
	}
	// another context may have committed the same record meanwhile
	for _, r := range c.inserted {
		if _, dup := ids[r.ID]; !dup {
			kept = append(kept, r)
			ids[r.ID] = struct{}{}
		}
	}
	c.store.records = kept

	c.inserted = nil
	c.deleted = make(map[string]struct{})
	return nil
}

func (c *Context) each(fn func(r *StatsRecord)) {
	if !c.locked {
		c.store.mu.RLock()
		defer c.store.mu.RUnlock()
	}
	for _, r := range c.store.records {
		if _, gone := c.deleted[r.ID]; gone {
			continue
		}
		fn(r)
	}
	for _, r := range c.inserted {
		fn(r)
	}
}
