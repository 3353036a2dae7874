package models

import (
	"time"

	"github.com/google/uuid"
)

// StatsRecord marks that data of kind Type (and, for time-series facets,
// for Date and Period) is held for a site. It owns its values.
type StatsRecord struct {
	ID          string
	BlogID      string
	Date        *time.Time
	FetchedDate *time.Time
	Type        StatsRecordType
	Period      StatsRecordPeriodType

	values []StatsRecordValue
}

// NewStatsRecord creates a detached record with a fresh id. Insight types get
// PeriodNotApplicable; time-series callers set Date and Period themselves.
func NewStatsRecord(blogID string, t StatsRecordType) *StatsRecord {
	r := &StatsRecord{
		ID:     uuid.NewString(),
		BlogID: blogID,
		Type:   t,
		Period: PeriodNotApplicable,
	}
	if t.RequiresDate() {
		r.Period = PeriodDay
	}
	return r
}

// Values returns the record's value table in insertion order.
func (r *StatsRecord) Values() []StatsRecordValue {
	return r.values
}

// AddValues appends a batch of values. Parent indexes inside the batch are
// relative to the batch, as produced by ValueTable.
func (r *StatsRecord) AddValues(values ...StatsRecordValue) {
	offset := len(r.values)
	for i, v := range values {
		b := v.base()
		b.record = r
		b.index = offset + i
		if b.parentRef > 0 {
			b.parentRef += offset
		}
		r.values = append(r.values, v)
	}
}

// Children returns the direct children of v in insertion order.
func (r *StatsRecord) Children(v StatsRecordValue) []StatsRecordValue {
	if v == nil || v.StatsRecord() != r {
		return nil
	}
	var children []StatsRecordValue
	for _, c := range r.values {
		if c.ParentIndex() == v.Index() {
			children = append(children, c)
		}
	}
	return children
}

// TopLevel returns the values that have no parent.
func (r *StatsRecord) TopLevel() []StatsRecordValue {
	var top []StatsRecordValue
	for _, v := range r.values {
		if v.ParentIndex() < 0 {
			top = append(top, v)
		}
	}
	return top
}

// ValidateForInsert checks the record's type, date and period constraints
// against the context it is being committed through.
func (r *StatsRecord) ValidateForInsert(ctx *Context) error {
	if ctx == nil {
		return NoManagedObjectContext
	}
	if !r.Type.IsValid() {
		return IncorrectRecordType
	}

	if r.Type.RequiresDate() {
		if r.Date == nil {
			return NoDate
		}
		if !r.Period.IsValid() || r.Period == PeriodNotApplicable {
			return InvalidPeriod
		}
		return nil
	}

	if ctx.Count(FetchRequestFor(r.Type, time.Time{})) != 1 {
		return SingleEntryTypeViolation
	}
	if r.Period != PeriodNotApplicable {
		return InvalidPeriod
	}
	return nil
}

func (r *StatsRecord) matchesDay(start, end time.Time) bool {
	if r.Date == nil {
		return false
	}
	return !r.Date.Before(start) && !r.Date.After(end)
}
