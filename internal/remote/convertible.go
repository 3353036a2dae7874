// Package remote holds the already-parsed REST response objects for site
// stats and their conversion to and from persisted record values.
package remote

import (
	"time"

	"sitestats/internal/models"
)

// StatsRecordValueConvertible is implemented by every remote DTO that can be
// stored as the values of a StatsRecord.
type StatsRecordValueConvertible interface {
	RecordType() models.StatsRecordType
	// StatsRecordValues maps the DTO to detached value rows, parents before
	// children, with ranked-list rollups last.
	StatsRecordValues() []models.StatsRecordValue
}

// TimeIntervalStatsRecordValueConvertible is implemented by DTOs of
// time-series facets, which are anchored to a date and period.
type TimeIntervalStatsRecordValueConvertible interface {
	StatsRecordValueConvertible
	Date() time.Time
	RecordPeriodType() models.StatsRecordPeriodType
}

// PartialRecordValueConvertible is implemented by DTOs that own only part of
// their record, such as one of the two follower views. Values for which
// Replaces reports false survive a Replace.
type PartialRecordValueConvertible interface {
	StatsRecordValueConvertible
	Replaces(v models.StatsRecordValue) bool
}

// StatsTimeInterval is embedded by time-series DTOs.
type StatsTimeInterval struct {
	Period        models.StatsRecordPeriodType `json:"period"`
	PeriodEndDate time.Time                    `json:"periodEndDate"`
}

func (t StatsTimeInterval) Date() time.Time { return t.PeriodEndDate }

func (t StatsTimeInterval) RecordPeriodType() models.StatsRecordPeriodType { return t.Period }

// Materialize creates the anchor record for dto, attaches its values and
// inserts it into ctx. Nothing is validated until ctx.Save.
func Materialize(ctx *models.Context, blogID string, dto StatsRecordValueConvertible, fetched time.Time) (*models.StatsRecord, error) {
	if ctx == nil {
		return nil, models.NoManagedObjectContext
	}
	record := newAnchor(blogID, dto, fetched, nil)
	record.AddValues(dto.StatsRecordValues()...)
	ctx.Insert(record)
	return record, nil
}

// Replace deletes the records dto supersedes and materializes dto in their
// place. For partial DTOs the values they do not own are carried over.
// Days are resolved in loc; nil keeps the DTO's own location.
func Replace(ctx *models.Context, blogID string, dto StatsRecordValueConvertible, fetched time.Time, loc *time.Location) (*models.StatsRecord, error) {
	if ctx == nil {
		return nil, models.NoManagedObjectContext
	}

	var carried []models.StatsRecordValue
	partial, isPartial := dto.(PartialRecordValueConvertible)
	for i, existing := range ctx.Fetch(SupersededRequest(blogID, dto, loc)) {
		if isPartial && i == 0 {
			for _, v := range existing.TopLevel() {
				if partial.Replaces(v) {
					continue
				}
				cp, err := models.CloneValue(v)
				if err != nil {
					return nil, err
				}
				carried = append(carried, cp)
			}
		}
		ctx.Delete(existing)
	}

	record := newAnchor(blogID, dto, fetched, loc)
	record.AddValues(carried...)
	record.AddValues(dto.StatsRecordValues()...)
	ctx.Insert(record)
	return record, nil
}

// SupersededRequest matches the records a new copy of dto replaces: same
// type, and for time-series the same day of loc's calendar and period.
func SupersededRequest(blogID string, dto StatsRecordValueConvertible, loc *time.Location) models.FetchRequest {
	if ti, ok := dto.(TimeIntervalStatsRecordValueConvertible); ok && dto.RecordType().RequiresDate() {
		return models.FetchRequestFor(dto.RecordType(), inLocation(ti.Date(), loc)).
			ForBlog(blogID).
			ForPeriod(ti.RecordPeriodType())
	}
	return models.FetchRequestFor(dto.RecordType(), time.Time{}).ForBlog(blogID)
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

func newAnchor(blogID string, dto StatsRecordValueConvertible, fetched time.Time, loc *time.Location) *models.StatsRecord {
	record := models.NewStatsRecord(blogID, dto.RecordType())
	if !fetched.IsZero() {
		record.FetchedDate = &fetched
	}
	if ti, ok := dto.(TimeIntervalStatsRecordValueConvertible); ok {
		record.Period = ti.RecordPeriodType()
		if d := ti.Date(); !d.IsZero() {
			d = inLocation(d, loc)
			record.Date = &d
		}
	} else {
		record.Period = models.PeriodNotApplicable
	}
	return record
}

// timeIntervalOf reads the date and period of the partition's anchor. It
// fails when the values are detached or the anchor carries no date.
func timeIntervalOf(p *models.ValuePartition) (StatsTimeInterval, bool) {
	if p.Record == nil || p.Record.Date == nil || p.Record.Period == models.PeriodNotApplicable {
		return StatsTimeInterval{}, false
	}
	return StatsTimeInterval{Period: p.Record.Period, PeriodEndDate: *p.Record.Date}, true
}

// rollup returns the other/total pair, failing when the row is absent.
func rollup(p *models.ValuePartition) (other, total int64, ok bool) {
	r, ok := p.Rollup()
	if !ok {
		return 0, 0, false
	}
	return r.OtherCount, r.TotalCount, true
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
