package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func datedRecord(t StatsRecordType, at time.Time, p StatsRecordPeriodType) *StatsRecord {
	r := NewStatsRecord("blog-1", t)
	r.Date = &at
	r.Period = p
	return r
}

func TestNewStatsRecord_Defaults(t *testing.T) {
	insight := NewStatsRecord("blog-1", AllTimeStatsInsight)
	assert.NotEmpty(t, insight.ID)
	assert.Equal(t, "blog-1", insight.BlogID)
	assert.Equal(t, PeriodNotApplicable, insight.Period)
	assert.Nil(t, insight.Date)

	series := NewStatsRecord("blog-1", Referrers)
	assert.Equal(t, PeriodDay, series.Period)
	assert.NotEqual(t, insight.ID, series.ID)
}

func TestValidateForInsert_DatedTypesRequireDate(t *testing.T) {
	store := NewStore()
	for _, rt := range AllRecordTypes() {
		if !rt.RequiresDate() {
			continue
		}
		ctx := store.NewContext()
		r := NewStatsRecord("blog-1", rt)
		ctx.Insert(r)

		err := ctx.Save()
		assert.True(t, errors.Is(err, NoDate), "type %s: %v", rt, err)
		assert.Equal(t, 0, store.Len())
	}
}

func TestValidateForInsert_DatedTypesRejectNotApplicablePeriod(t *testing.T) {
	ctx := NewStore().NewContext()
	r := datedRecord(Clicks, day(2024, 3, 1), PeriodNotApplicable)

	assert.Equal(t, InvalidPeriod, r.ValidateForInsert(ctx))
}

func TestValidateForInsert_DatedTypesAcceptEveryRealPeriod(t *testing.T) {
	ctx := NewStore().NewContext()
	for _, p := range []StatsRecordPeriodType{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear} {
		r := datedRecord(Videos, day(2024, 3, 1), p)
		assert.NoError(t, r.ValidateForInsert(ctx), p.String())
	}
}

func TestValidateForInsert_SingleEntryTypes(t *testing.T) {
	for _, rt := range AllRecordTypes() {
		if rt.RequiresDate() {
			continue
		}
		store := NewStore()

		first := store.NewContext()
		first.Insert(NewStatsRecord("blog-1", rt))
		require.NoError(t, first.Save(), rt.String())

		second := store.NewContext()
		second.Insert(NewStatsRecord("blog-1", rt))
		err := second.Save()
		assert.True(t, errors.Is(err, SingleEntryTypeViolation), "type %s: %v", rt, err)
		assert.Equal(t, 1, store.Len())
	}
}

func TestValidateForInsert_InsightRejectsPeriod(t *testing.T) {
	ctx := NewStore().NewContext()
	r := NewStatsRecord("blog-1", Today)
	r.Period = PeriodWeek
	ctx.Insert(r)

	assert.Equal(t, InvalidPeriod, r.ValidateForInsert(ctx))
}

func TestValidateForInsert_UnknownType(t *testing.T) {
	ctx := NewStore().NewContext()
	r := NewStatsRecord("blog-1", StatsRecordType(99))

	assert.Equal(t, IncorrectRecordType, r.ValidateForInsert(ctx))
}

func TestValidateForInsert_NilContext(t *testing.T) {
	r := NewStatsRecord("blog-1", Today)
	assert.Equal(t, NoManagedObjectContext, r.ValidateForInsert(nil))
	assert.Equal(t, NoManagedObjectContext, (&TodayStatsRecordValue{}).ValidateForInsert(nil))
	assert.Equal(t, NoManagedObjectContext, (&ClicksStatsRecordValue{}).ValidateForInsert(nil))
}

func TestStatsRecord_TreeLinks(t *testing.T) {
	var tbl ValueTable
	root := tbl.Add(&ReferrerStatsRecordValue{Label: "google.com"})
	tbl.AddChild(root, &ReferrerStatsRecordValue{Label: "google.com/search"})
	tbl.AddChild(root, &ReferrerStatsRecordValue{Label: "google.com/images"})
	tbl.Add(&ReferrerStatsRecordValue{Label: "bing.com"})

	r := NewStatsRecord("blog-1", Referrers)
	r.AddValues(tbl.Values()...)

	top := r.TopLevel()
	require.Len(t, top, 2)
	assert.Equal(t, "google.com", top[0].(*ReferrerStatsRecordValue).Label)
	assert.Equal(t, "bing.com", top[1].(*ReferrerStatsRecordValue).Label)

	children := r.Children(top[0])
	require.Len(t, children, 2)
	assert.Equal(t, "google.com/search", children[0].(*ReferrerStatsRecordValue).Label)
	assert.Equal(t, "google.com/images", children[1].(*ReferrerStatsRecordValue).Label)
	assert.Empty(t, r.Children(top[1]))

	for _, v := range r.Values() {
		assert.Same(t, r, v.StatsRecord())
	}
}

func TestStatsRecord_AddValuesOffsetsSecondBatch(t *testing.T) {
	r := NewStatsRecord("blog-1", Clicks)
	r.AddValues(&ClicksStatsRecordValue{Label: "flat"})

	var tbl ValueTable
	parent := tbl.Add(&ClicksStatsRecordValue{Label: "group"})
	tbl.AddChild(parent, &ClicksStatsRecordValue{Label: "member"})
	r.AddValues(tbl.Values()...)

	values := r.Values()
	require.Len(t, values, 3)
	assert.Equal(t, -1, values[0].ParentIndex())
	assert.Equal(t, -1, values[1].ParentIndex())
	assert.Equal(t, 1, values[2].ParentIndex())
	assert.Equal(t, 2, values[2].Index())
}

func TestStatsRecord_ChildrenOfForeignValue(t *testing.T) {
	a := NewStatsRecord("blog-1", Clicks)
	a.AddValues(&ClicksStatsRecordValue{Label: "a"})
	b := NewStatsRecord("blog-1", Clicks)

	assert.Nil(t, b.Children(a.Values()[0]))
	assert.Nil(t, b.Children(nil))
}
