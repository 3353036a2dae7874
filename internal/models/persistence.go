package models

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// StorageVersion is the current snapshot envelope version.
const StorageVersion = 1

// Storage is the persistence envelope for every site's records.
type Storage struct {
	Version int                             `json:"version"`
	Blogs   map[string][]*RecordPersistence `json:"blogs"`
}

// RecordPersistence is the on-disk form of a StatsRecord.
type RecordPersistence struct {
	ID          string                `json:"id"`
	BlogID      string                `json:"blog_id"`
	Date        *time.Time            `json:"date,omitempty"`
	FetchedDate *time.Time            `json:"fetched_date,omitempty"`
	Type        StatsRecordType       `json:"type"`
	Period      StatsRecordPeriodType `json:"period"`
	Values      []ValuePersistence    `json:"values"`
}

// ValuePersistence wraps a value's payload with its kind discriminant and
// its parent index in the record's value table.
type ValuePersistence struct {
	Kind   string          `json:"kind"`
	Parent int             `json:"parent"`
	Value  json.RawMessage `json:"value"`
}

func NewRecordPersistence(r *StatsRecord) (*RecordPersistence, error) {
	p := &RecordPersistence{
		ID:          r.ID,
		BlogID:      r.BlogID,
		Date:        r.Date,
		FetchedDate: r.FetchedDate,
		Type:        r.Type,
		Period:      r.Period,
		Values:      make([]ValuePersistence, 0, len(r.values)),
	}
	for _, v := range r.values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s value: %w", v.Kind(), err)
		}
		p.Values = append(p.Values, ValuePersistence{
			Kind:   v.Kind().String(),
			Parent: v.ParentIndex(),
			Value:  raw,
		})
	}
	return p, nil
}

// CloneValue returns a detached, top-level copy of v's payload.
func CloneValue(v StatsRecordValue) (StatsRecordValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s value: %w", v.Kind(), err)
	}
	cp, err := NewValue(v.Kind())
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, cp); err != nil {
		return nil, fmt.Errorf("unmarshal %s value: %w", v.Kind(), err)
	}
	return cp, nil
}

// Record rebuilds the StatsRecord, including value variants and tree links.
func (p *RecordPersistence) Record() (*StatsRecord, error) {
	if p == nil {
		return nil, errors.New("empty record entry")
	}
	r := &StatsRecord{
		ID:          p.ID,
		BlogID:      p.BlogID,
		Date:        p.Date,
		FetchedDate: p.FetchedDate,
		Type:        p.Type,
		Period:      p.Period,
	}
	values := make([]StatsRecordValue, 0, len(p.Values))
	for i, vp := range p.Values {
		kind, err := ParseValueKind(vp.Kind)
		if err != nil {
			return nil, err
		}
		v, err := NewValue(kind)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(vp.Value, v); err != nil {
			return nil, fmt.Errorf("unmarshal %s value: %w", vp.Kind, err)
		}
		b := v.base()
		b.parentRef = 0
		if vp.Parent >= 0 && vp.Parent < len(p.Values) && vp.Parent != i {
			b.parentRef = vp.Parent + 1
		}
		values = append(values, v)
	}
	r.AddValues(values...)
	return r, nil
}
