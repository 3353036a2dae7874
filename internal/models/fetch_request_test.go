package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFetchRequestFor_InsightIgnoresDate(t *testing.T) {
	r := NewStatsRecord("blog-1", AllTimeStatsInsight)

	for _, at := range []time.Time{{}, day(1999, 1, 1), day(2024, 6, 15), time.Now()} {
		fr := FetchRequestFor(AllTimeStatsInsight, at)
		assert.Nil(t, fr.Start)
		assert.Nil(t, fr.End)
		assert.True(t, fr.Matches(r))
	}
	assert.False(t, FetchRequestFor(Today, day(2024, 6, 15)).Matches(r))
}

func TestFetchRequestFor_DatedTypeMatchesCalendarDayInclusive(t *testing.T) {
	target := day(2024, 6, 15)
	fr := FetchRequestFor(Referrers, target)

	start := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	lastInstant := start.Add(24*time.Hour - time.Nanosecond)
	cases := []struct {
		at   time.Time
		want bool
	}{
		{start, true},
		{target, true},
		{lastInstant, true},
		{start.Add(-time.Nanosecond), false},
		{start.Add(24 * time.Hour), false},
		{day(2024, 6, 14), false},
	}
	for _, c := range cases {
		r := datedRecord(Referrers, c.at, PeriodDay)
		assert.Equal(t, c.want, fr.Matches(r), c.at.String())
	}
}

func TestFetchRequestFor_DatedTypeNeverMatchesUndatedRecord(t *testing.T) {
	r := NewStatsRecord("blog-1", Referrers)
	assert.False(t, FetchRequestFor(Referrers, day(2024, 6, 15)).Matches(r))
}

func TestDayInterval_FollowsLocationCalendar(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// spring forward
	start, end := DayInterval(time.Date(2024, 3, 10, 15, 0, 0, 0, ny))
	assert.Equal(t, 23*time.Hour, end.Sub(start)+time.Nanosecond)
	assert.Equal(t, 0, start.Hour())

	// fall back
	start, end = DayInterval(time.Date(2024, 11, 3, 15, 0, 0, 0, ny))
	assert.Equal(t, 25*time.Hour, end.Sub(start)+time.Nanosecond)
}

func TestFetchRequest_NarrowsByBlogAndPeriod(t *testing.T) {
	at := day(2024, 6, 15)
	weekly := datedRecord(Clicks, at, PeriodWeek)
	daily := datedRecord(Clicks, at, PeriodDay)
	other := datedRecord(Clicks, at, PeriodDay)
	other.BlogID = "blog-2"

	fr := FetchRequestFor(Clicks, at).ForBlog("blog-1").ForPeriod(PeriodDay)
	assert.True(t, fr.Matches(daily))
	assert.False(t, fr.Matches(weekly))
	assert.False(t, fr.Matches(other))
	assert.False(t, fr.Matches(nil))
}

func TestFetchRequest_ForPeriodDoesNotAlias(t *testing.T) {
	base := FetchRequestFor(Clicks, day(2024, 6, 15))
	week := base.ForPeriod(PeriodWeek)
	month := base.ForPeriod(PeriodMonth)

	assert.Nil(t, base.Period)
	assert.Equal(t, PeriodWeek, *week.Period)
	assert.Equal(t, PeriodMonth, *month.Period)
}

func TestFetchRequest_BSON(t *testing.T) {
	insight := FetchRequestFor(Today, day(2024, 6, 15)).ForBlog("blog-1").BSON()
	assert.Equal(t, bson.M{"type": "today", "blog_id": "blog-1"}, insight)

	fr := FetchRequestFor(Videos, day(2024, 6, 15)).ForPeriod(PeriodMonth)
	filter := fr.BSON()
	assert.Equal(t, "videos", filter["type"])
	assert.Equal(t, "month", filter["period"])
	assert.NotContains(t, filter, "blog_id")
	assert.Equal(t, bson.M{"$gte": *fr.Start, "$lte": *fr.End}, filter["date"])
}
