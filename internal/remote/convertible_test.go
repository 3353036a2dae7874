package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestats/internal/models"
)

func TestMaterialize_NilContext(t *testing.T) {
	_, err := Materialize(nil, "blog-1", StatsTodayInsight{}, time.Now())
	assert.Equal(t, models.NoManagedObjectContext, err)

	_, err = Replace(nil, "blog-1", StatsTodayInsight{}, time.Now(), nil)
	assert.Equal(t, models.NoManagedObjectContext, err)
}

func TestMaterialize_AnchorFields(t *testing.T) {
	fetched := time.Date(2024, 6, 16, 8, 0, 0, 0, time.UTC)
	ctx := models.NewStore().NewContext()

	insight, err := Materialize(ctx, "blog-1", StatsTodayInsight{ViewsCount: 1}, fetched)
	require.NoError(t, err)
	assert.Equal(t, models.Today, insight.Type)
	assert.Equal(t, models.PeriodNotApplicable, insight.Period)
	assert.Nil(t, insight.Date)
	assert.True(t, fetched.Equal(*insight.FetchedDate))

	series, err := Materialize(ctx, "blog-1", StatsTopVideosTimeIntervalData{StatsTimeInterval: interval(models.PeriodMonth)}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, models.PeriodMonth, series.Period)
	require.NotNil(t, series.Date)
	assert.True(t, periodEnd.Equal(*series.Date))
	assert.Nil(t, series.FetchedDate)

	assert.True(t, ctx.HasChanges())
	assert.NoError(t, ctx.Save())
}

func TestMaterialize_ZeroDateFailsOnSave(t *testing.T) {
	store := models.NewStore()
	ctx := store.NewContext()
	_, err := Materialize(ctx, "blog-1", StatsTopVideosTimeIntervalData{}, time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, ctx.Save(), models.NoDate)
}

func TestReplace_SameDayAndPeriodSupersedes(t *testing.T) {
	store := models.NewStore()
	sync := func(dto StatsRecordValueConvertible) {
		ctx := store.NewContext()
		_, err := Replace(ctx, "blog-1", dto, time.Now(), nil)
		require.NoError(t, err)
		require.NoError(t, ctx.Save())
	}

	day := StatsTopCountryTimeIntervalData{StatsTimeInterval: interval(models.PeriodDay), TotalViewsCount: 1}
	sync(day)
	day.TotalViewsCount = 2
	sync(day)
	require.Equal(t, 1, store.Len())

	// other period, other day: kept side by side
	sync(StatsTopCountryTimeIntervalData{StatsTimeInterval: interval(models.PeriodWeek)})
	sync(StatsTopCountryTimeIntervalData{StatsTimeInterval: StatsTimeInterval{Period: models.PeriodDay, PeriodEndDate: periodEnd.AddDate(0, 0, -1)}})
	assert.Equal(t, 3, store.Len())

	ctx := store.NewContext()
	latest := ctx.First(models.FetchRequestFor(models.CountryViews, periodEnd).ForPeriod(models.PeriodDay))
	require.NotNil(t, latest)
	got, ok := NewStatsTopCountryTimeIntervalData(latest.Values())
	require.True(t, ok)
	assert.Equal(t, int64(2), got.TotalViewsCount)
}

func TestReplace_InsightKeepsSingleEntry(t *testing.T) {
	store := models.NewStore()
	for i := 0; i < 3; i++ {
		ctx := store.NewContext()
		_, err := Replace(ctx, "blog-1", StatsAllTimesInsight{ViewsCount: int64(i)}, time.Now(), nil)
		require.NoError(t, err)
		require.NoError(t, ctx.Save())
	}
	assert.Equal(t, 1, store.Len())
}

func TestMaterialize_SecondInsightViolatesSingleEntry(t *testing.T) {
	store := models.NewStore()
	ctx := store.NewContext()
	_, err := Materialize(ctx, "blog-1", StatsAllTimesInsight{}, time.Now())
	require.NoError(t, err)
	require.NoError(t, ctx.Save())

	_, err = Materialize(ctx, "blog-1", StatsAllTimesInsight{}, time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, ctx.Save(), models.SingleEntryTypeViolation)
}

func TestSupersededRequest(t *testing.T) {
	insight := SupersededRequest("blog-1", StatsTodayInsight{}, nil)
	assert.Equal(t, models.Today, insight.Type)
	assert.Equal(t, "blog-1", insight.BlogID)
	assert.Nil(t, insight.Start)
	assert.Nil(t, insight.Period)

	series := SupersededRequest("blog-2", StatsTopClicksTimeIntervalData{StatsTimeInterval: interval(models.PeriodYear)}, nil)
	assert.Equal(t, models.Clicks, series.Type)
	require.NotNil(t, series.Period)
	assert.Equal(t, models.PeriodYear, *series.Period)
	require.NotNil(t, series.Start)
	assert.True(t, series.Start.Equal(periodEnd))
}

func TestSupersededRequest_ResolvesDayInLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 22:00 in New York on May 1 is already May 2 in UTC.
	dto := StatsTopClicksTimeIntervalData{StatsTimeInterval: StatsTimeInterval{
		Period:        models.PeriodDay,
		PeriodEndDate: time.Date(2024, 5, 1, 22, 0, 0, 0, ny),
	}}

	own := SupersededRequest("blog-1", dto, nil)
	require.NotNil(t, own.Start)
	assert.Equal(t, 1, own.Start.Day())

	utc := SupersededRequest("blog-1", dto, time.UTC)
	require.NotNil(t, utc.Start)
	assert.True(t, utc.Start.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
}
