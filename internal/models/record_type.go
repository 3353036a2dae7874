package models

import "fmt"

// StatsRecordType identifies which analytics facet a StatsRecord carries.
type StatsRecordType int16

const (
	AllTimeStatsInsight StatsRecordType = iota
	AnnualAndMostPopularTimes
	BlogVisitsSummary
	Clicks
	CommentInsight
	CountryViews
	FileDownloads
	Followers
	LastPostInsight
	PublicizeConnection
	Referrers
	SearchTerms
	StreakInsight
	TagsAndCategories
	Today
	TopViewedAuthor
	TopViewedPost
	Videos
)

var recordTypeNames = [...]string{
	AllTimeStatsInsight:       "allTimeStatsInsight",
	AnnualAndMostPopularTimes: "annualAndMostPopularTimes",
	BlogVisitsSummary:         "blogVisitsSummary",
	Clicks:                    "clicks",
	CommentInsight:            "commentInsight",
	CountryViews:              "countryViews",
	FileDownloads:             "fileDownloads",
	Followers:                 "followers",
	LastPostInsight:           "lastPostInsight",
	PublicizeConnection:       "publicizeConnection",
	Referrers:                 "referrers",
	SearchTerms:               "searchTerms",
	StreakInsight:             "streakInsight",
	TagsAndCategories:         "tagsAndCategories",
	Today:                     "today",
	TopViewedAuthor:           "topViewedAuthor",
	TopViewedPost:             "topViewedPost",
	Videos:                    "videos",
}

// AllRecordTypes lists every known record type in declaration order.
func AllRecordTypes() []StatsRecordType {
	types := make([]StatsRecordType, len(recordTypeNames))
	for i := range recordTypeNames {
		types[i] = StatsRecordType(i)
	}
	return types
}

func (t StatsRecordType) IsValid() bool {
	return t >= 0 && int(t) < len(recordTypeNames)
}

// RequiresDate reports whether records of this type form a time series
// (date and period required) rather than a single current snapshot.
func (t StatsRecordType) RequiresDate() bool {
	switch t {
	case BlogVisitsSummary, Clicks, CountryViews, FileDownloads, Referrers,
		SearchTerms, TopViewedAuthor, TopViewedPost, Videos:
		return true
	default:
		return false
	}
}

func (t StatsRecordType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("StatsRecordType(%d)", int16(t))
	}
	return recordTypeNames[t]
}

func ParseStatsRecordType(s string) (StatsRecordType, error) {
	for i, name := range recordTypeNames {
		if name == s {
			return StatsRecordType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stats record type %q", s)
}

func (t StatsRecordType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", t)
	}
	return []byte(t.String()), nil
}

func (t *StatsRecordType) UnmarshalText(b []byte) error {
	parsed, err := ParseStatsRecordType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// StatsRecordPeriodType is the aggregation period of a time-series record.
type StatsRecordPeriodType int16

const (
	PeriodDay StatsRecordPeriodType = iota
	PeriodWeek
	PeriodMonth
	PeriodYear
	PeriodNotApplicable
)

var periodNames = [...]string{
	PeriodDay:           "day",
	PeriodWeek:          "week",
	PeriodMonth:         "month",
	PeriodYear:          "year",
	PeriodNotApplicable: "notApplicable",
}

func (p StatsRecordPeriodType) IsValid() bool {
	return p >= 0 && int(p) < len(periodNames)
}

func (p StatsRecordPeriodType) String() string {
	if !p.IsValid() {
		return fmt.Sprintf("StatsRecordPeriodType(%d)", int16(p))
	}
	return periodNames[p]
}

func ParseStatsRecordPeriodType(s string) (StatsRecordPeriodType, error) {
	for i, name := range periodNames {
		if name == s {
			return StatsRecordPeriodType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stats period %q", s)
}

func (p StatsRecordPeriodType) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", p)
	}
	return []byte(p.String()), nil
}

func (p *StatsRecordPeriodType) UnmarshalText(b []byte) error {
	parsed, err := ParseStatsRecordPeriodType(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
