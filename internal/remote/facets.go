package remote

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"sitestats/internal/models"
)

// Facet binds an API facet name to its record type, its DTO decoder and its
// reverse constructor.
type Facet struct {
	Name string
	Type models.StatsRecordType
	// Decode parses a DTO from its JSON form.
	Decode func(data []byte) (StatsRecordValueConvertible, error)
	// Rebuild reconstructs the DTO from a record's values; false when a
	// required piece is missing.
	Rebuild func(values []models.StatsRecordValue) (any, bool)
}

func newFacet[T StatsRecordValueConvertible](name string, rebuild func([]models.StatsRecordValue) (*T, bool)) Facet {
	var zero T
	return Facet{
		Name: name,
		Type: zero.RecordType(),
		Decode: func(data []byte) (StatsRecordValueConvertible, error) {
			var dto T
			if err := json.Unmarshal(data, &dto); err != nil {
				return nil, fmt.Errorf("decode %s: %w", name, err)
			}
			return dto, nil
		},
		Rebuild: func(values []models.StatsRecordValue) (any, bool) {
			dto, ok := rebuild(values)
			if !ok || dto == nil {
				return nil, false
			}
			return dto, true
		},
	}
}

var facets = map[string]Facet{}

func register(f Facet) {
	facets[f.Name] = f
}

func init() {
	register(newFacet("allTime", NewStatsAllTimesInsight))
	register(newFacet("annualAndMostPopularTimes", NewStatsAnnualAndMostPopularTimeInsight))
	register(newFacet("lastPost", NewStatsLastPostInsight))
	register(newFacet("today", NewStatsTodayInsight))
	register(newFacet("postingStreak", NewStatsPostingStreakInsight))
	register(newFacet("dotComFollowers", NewStatsDotComFollowersInsight))
	register(newFacet("emailFollowers", NewStatsEmailFollowersInsight))
	register(newFacet("publicize", NewStatsPublicizeInsight))
	register(newFacet("tagsAndCategories", NewStatsTagsAndCategoriesInsight))
	register(newFacet("comments", NewStatsCommentsInsight))

	register(newFacet("summary", NewStatsSummaryTimeIntervalData))
	register(newFacet("clicks", NewStatsTopClicksTimeIntervalData))
	register(newFacet("countries", NewStatsTopCountryTimeIntervalData))
	register(newFacet("referrers", NewStatsTopReferrersTimeIntervalData))
	register(newFacet("searchTerms", NewStatsSearchTermTimeIntervalData))
	register(newFacet("authors", NewStatsTopAuthorsTimeIntervalData))
	register(newFacet("posts", NewStatsTopPostsTimeIntervalData))
	register(newFacet("videos", NewStatsTopVideosTimeIntervalData))
	register(newFacet("fileDownloads", NewStatsFileDownloadsTimeIntervalData))
}

// LookupFacet returns the facet registered under name.
func LookupFacet(name string) (Facet, bool) {
	f, ok := facets[name]
	return f, ok
}

// Facets returns every registered facet ordered by name.
func Facets() []Facet {
	out := make([]Facet, 0, len(facets))
	for _, f := range facets {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
