package models

import "fmt"

// StatsRecordValue is a payload row attached to a StatsRecord. The set of
// implementations is closed: every variant embeds recordValue.
type StatsRecordValue interface {
	Kind() ValueKind
	// StatsRecord returns the owning record, or nil while the value is detached.
	StatsRecord() *StatsRecord
	// Index is the position of the value within its record's value table.
	Index() int
	// ParentIndex is the table index of the parent value, -1 for top-level values.
	ParentIndex() int
	ValidateForInsert(ctx *Context) error
	base() *recordValue
}

// recordValue holds the bookkeeping shared by every variant. Tree-shaped
// facets are stored as a flat table: parentRef is parent index + 1, so the
// zero value means "top level".
type recordValue struct {
	record    *StatsRecord
	index     int
	parentRef int
}

func (v *recordValue) StatsRecord() *StatsRecord { return v.record }
func (v *recordValue) Index() int                { return v.index }
func (v *recordValue) ParentIndex() int          { return v.parentRef - 1 }
func (v *recordValue) base() *recordValue        { return v }

func (v *recordValue) ValidateForInsert(ctx *Context) error {
	if ctx == nil {
		return NoManagedObjectContext
	}
	return nil
}

// validateSingleEntry requires exactly one value of the given kind to be
// visible in the context, the one being inserted.
func validateSingleEntry(ctx *Context, kind ValueKind) error {
	if ctx == nil {
		return NoManagedObjectContext
	}
	if ctx.CountValues(kind) != 1 {
		return SingleEntryTypeViolation
	}
	return nil
}

// ValueKind is the stored discriminant of a StatsRecordValue variant.
type ValueKind int16

const (
	KindAllTime ValueKind = iota
	KindAnnualAndMostPopularTimeInsight
	KindClicks
	KindCountry
	KindFileDownloads
	KindFollowersCount
	KindFollowers
	KindLastPost
	KindOtherAndTotalViewsCount
	KindPublicizeConnection
	KindReferrer
	KindSearchResults
	KindStreakInsight
	KindStreak
	KindTagsCategories
	KindToday
	KindTopCommentedPost
	KindTopCommentsAuthor
	KindTopViewedAuthor
	KindTopViewedPost
	KindTopViewedVideo
	KindVisitsSummary
)

var valueKindNames = [...]string{
	KindAllTime:                         "allTime",
	KindAnnualAndMostPopularTimeInsight: "annualAndMostPopularTimeInsight",
	KindClicks:                          "clicks",
	KindCountry:                         "country",
	KindFileDownloads:                   "fileDownloads",
	KindFollowersCount:                  "followersCount",
	KindFollowers:                       "followers",
	KindLastPost:                        "lastPost",
	KindOtherAndTotalViewsCount:         "otherAndTotalViewsCount",
	KindPublicizeConnection:             "publicizeConnection",
	KindReferrer:                        "referrer",
	KindSearchResults:                   "searchResults",
	KindStreakInsight:                   "streakInsight",
	KindStreak:                          "streak",
	KindTagsCategories:                  "tagsCategories",
	KindToday:                           "today",
	KindTopCommentedPost:                "topCommentedPost",
	KindTopCommentsAuthor:               "topCommentsAuthor",
	KindTopViewedAuthor:                 "topViewedAuthor",
	KindTopViewedPost:                   "topViewedPost",
	KindTopViewedVideo:                  "topViewedVideo",
	KindVisitsSummary:                   "visitsSummary",
}

func (k ValueKind) IsValid() bool {
	return k >= 0 && int(k) < len(valueKindNames)
}

func (k ValueKind) String() string {
	if !k.IsValid() {
		return fmt.Sprintf("ValueKind(%d)", int16(k))
	}
	return valueKindNames[k]
}

func ParseValueKind(s string) (ValueKind, error) {
	for i, name := range valueKindNames {
		if name == s {
			return ValueKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown value kind %q", s)
}

// NewValue returns an empty value of the given kind.
func NewValue(kind ValueKind) (StatsRecordValue, error) {
	switch kind {
	case KindAllTime:
		return &AllTimeStatsRecordValue{}, nil
	case KindAnnualAndMostPopularTimeInsight:
		return &AnnualAndMostPopularTimeInsightStatsRecordValue{}, nil
	case KindClicks:
		return &ClicksStatsRecordValue{}, nil
	case KindCountry:
		return &CountryStatsRecordValue{}, nil
	case KindFileDownloads:
		return &FileDownloadsStatsRecordValue{}, nil
	case KindFollowersCount:
		return &FollowersCountStatsRecordValue{}, nil
	case KindFollowers:
		return &FollowersStatsRecordValue{}, nil
	case KindLastPost:
		return &LastPostStatsRecordValue{}, nil
	case KindOtherAndTotalViewsCount:
		return &OtherAndTotalViewsCountStatsRecordValue{}, nil
	case KindPublicizeConnection:
		return &PublicizeConnectionStatsRecordValue{}, nil
	case KindReferrer:
		return &ReferrerStatsRecordValue{}, nil
	case KindSearchResults:
		return &SearchResultsStatsRecordValue{}, nil
	case KindStreakInsight:
		return &StreakInsightStatsRecordValue{}, nil
	case KindStreak:
		return &StreakStatsRecordValue{}, nil
	case KindTagsCategories:
		return &TagsCategoriesStatsRecordValue{}, nil
	case KindToday:
		return &TodayStatsRecordValue{}, nil
	case KindTopCommentedPost:
		return &TopCommentedPostStatsRecordValue{}, nil
	case KindTopCommentsAuthor:
		return &TopCommentsAuthorStatsRecordValue{}, nil
	case KindTopViewedAuthor:
		return &TopViewedAuthorStatsRecordValue{}, nil
	case KindTopViewedPost:
		return &TopViewedPostStatsRecordValue{}, nil
	case KindTopViewedVideo:
		return &TopViewedVideoStatsRecordValue{}, nil
	case KindVisitsSummary:
		return &VisitsSummaryStatsRecordValue{}, nil
	}
	return nil, fmt.Errorf("unknown value kind %d", int16(kind))
}

// ValueTable builds an ordered batch of values with parent links expressed
// as indexes into the batch.
type ValueTable struct {
	values []StatsRecordValue
}

// Add appends a top-level value and returns its index.
func (t *ValueTable) Add(v StatsRecordValue) int {
	return t.AddChild(-1, v)
}

// AddChild appends v under the value at index parent.
func (t *ValueTable) AddChild(parent int, v StatsRecordValue) int {
	b := v.base()
	b.index = len(t.values)
	b.parentRef = 0
	if parent >= 0 && parent < len(t.values) {
		b.parentRef = parent + 1
	}
	t.values = append(t.values, v)
	return b.index
}

func (t *ValueTable) Len() int { return len(t.values) }

func (t *ValueTable) Values() []StatsRecordValue { return t.values }
