package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// FetchRequest is a predicate over StatsRecords. It is a query description
// only; Context.Fetch and the archive backends execute it.
type FetchRequest struct {
	Type StatsRecordType
	// Start and End bound Date inclusively; both nil means no date bound.
	Start *time.Time
	End   *time.Time
	// Optional narrowing, empty/nil means any.
	BlogID string
	Period *StatsRecordPeriodType
}

// FetchRequestFor builds the lookup for records of type t. Insight types
// match on type alone; time-series types additionally require Date to fall
// inside the calendar day containing day, in day's location.
func FetchRequestFor(t StatsRecordType, day time.Time) FetchRequest {
	fr := FetchRequest{Type: t}
	if !t.RequiresDate() {
		return fr
	}
	start, end := DayInterval(day)
	fr.Start = &start
	fr.End = &end
	return fr
}

// FetchRequestForNow is FetchRequestFor with the current local day.
func FetchRequestForNow(t StatsRecordType) FetchRequest {
	return FetchRequestFor(t, time.Now())
}

// DayInterval returns the first and last instants of the calendar day that
// contains t. Day length follows the calendar, so DST days are 23h or 25h.
func DayInterval(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

func (fr FetchRequest) ForBlog(blogID string) FetchRequest {
	fr.BlogID = blogID
	return fr
}

func (fr FetchRequest) ForPeriod(p StatsRecordPeriodType) FetchRequest {
	fr.Period = &p
	return fr
}

func (fr FetchRequest) Matches(r *StatsRecord) bool {
	if r == nil || r.Type != fr.Type {
		return false
	}
	if fr.BlogID != "" && r.BlogID != fr.BlogID {
		return false
	}
	if fr.Period != nil && r.Period != *fr.Period {
		return false
	}
	if fr.Start != nil && fr.End != nil {
		return r.matchesDay(*fr.Start, *fr.End)
	}
	return true
}

// BSON renders the request as a MongoDB filter over archived records.
func (fr FetchRequest) BSON() bson.M {
	filter := bson.M{"type": fr.Type.String()}
	if fr.BlogID != "" {
		filter["blog_id"] = fr.BlogID
	}
	if fr.Period != nil {
		filter["period"] = fr.Period.String()
	}
	if fr.Start != nil && fr.End != nil {
		filter["date"] = bson.M{"$gte": *fr.Start, "$lte": *fr.End}
	}
	return filter
}
