package models

// ValuePartition buckets a record's flat value rows by variant.
type ValuePartition struct {
	AllTime                  []*AllTimeStatsRecordValue
	AnnualAndMostPopularTime []*AnnualAndMostPopularTimeInsightStatsRecordValue
	Clicks                   []*ClicksStatsRecordValue
	Countries                []*CountryStatsRecordValue
	FileDownloads            []*FileDownloadsStatsRecordValue
	FollowersCounts          []*FollowersCountStatsRecordValue
	Followers                []*FollowersStatsRecordValue
	LastPosts                []*LastPostStatsRecordValue
	OtherAndTotal            []*OtherAndTotalViewsCountStatsRecordValue
	PublicizeConnections     []*PublicizeConnectionStatsRecordValue
	Referrers                []*ReferrerStatsRecordValue
	SearchResults            []*SearchResultsStatsRecordValue
	StreakInsights           []*StreakInsightStatsRecordValue
	Streaks                  []*StreakStatsRecordValue
	TagsCategories           []*TagsCategoriesStatsRecordValue
	Today                    []*TodayStatsRecordValue
	TopCommentedPosts        []*TopCommentedPostStatsRecordValue
	TopCommentsAuthors       []*TopCommentsAuthorStatsRecordValue
	TopViewedAuthors         []*TopViewedAuthorStatsRecordValue
	TopViewedPosts           []*TopViewedPostStatsRecordValue
	TopViewedVideos          []*TopViewedVideoStatsRecordValue
	VisitsSummaries          []*VisitsSummaryStatsRecordValue

	// Record is the anchor shared by the partitioned values, nil if the
	// values were detached or belong to different records.
	Record *StatsRecord
}

// PartitionValues sorts values into typed buckets in a single pass,
// preserving their relative order.
func PartitionValues(values []StatsRecordValue) *ValuePartition {
	p := &ValuePartition{}
	for i, v := range values {
		if i == 0 {
			p.Record = v.StatsRecord()
		} else if v.StatsRecord() != p.Record {
			p.Record = nil
		}

		switch tv := v.(type) {
		case *AllTimeStatsRecordValue:
			p.AllTime = append(p.AllTime, tv)
		case *AnnualAndMostPopularTimeInsightStatsRecordValue:
			p.AnnualAndMostPopularTime = append(p.AnnualAndMostPopularTime, tv)
		case *ClicksStatsRecordValue:
			p.Clicks = append(p.Clicks, tv)
		case *CountryStatsRecordValue:
			p.Countries = append(p.Countries, tv)
		case *FileDownloadsStatsRecordValue:
			p.FileDownloads = append(p.FileDownloads, tv)
		case *FollowersCountStatsRecordValue:
			p.FollowersCounts = append(p.FollowersCounts, tv)
		case *FollowersStatsRecordValue:
			p.Followers = append(p.Followers, tv)
		case *LastPostStatsRecordValue:
			p.LastPosts = append(p.LastPosts, tv)
		case *OtherAndTotalViewsCountStatsRecordValue:
			p.OtherAndTotal = append(p.OtherAndTotal, tv)
		case *PublicizeConnectionStatsRecordValue:
			p.PublicizeConnections = append(p.PublicizeConnections, tv)
		case *ReferrerStatsRecordValue:
			p.Referrers = append(p.Referrers, tv)
		case *SearchResultsStatsRecordValue:
			p.SearchResults = append(p.SearchResults, tv)
		case *StreakInsightStatsRecordValue:
			p.StreakInsights = append(p.StreakInsights, tv)
		case *StreakStatsRecordValue:
			p.Streaks = append(p.Streaks, tv)
		case *TagsCategoriesStatsRecordValue:
			p.TagsCategories = append(p.TagsCategories, tv)
		case *TodayStatsRecordValue:
			p.Today = append(p.Today, tv)
		case *TopCommentedPostStatsRecordValue:
			p.TopCommentedPosts = append(p.TopCommentedPosts, tv)
		case *TopCommentsAuthorStatsRecordValue:
			p.TopCommentsAuthors = append(p.TopCommentsAuthors, tv)
		case *TopViewedAuthorStatsRecordValue:
			p.TopViewedAuthors = append(p.TopViewedAuthors, tv)
		case *TopViewedPostStatsRecordValue:
			p.TopViewedPosts = append(p.TopViewedPosts, tv)
		case *TopViewedVideoStatsRecordValue:
			p.TopViewedVideos = append(p.TopViewedVideos, tv)
		case *VisitsSummaryStatsRecordValue:
			p.VisitsSummaries = append(p.VisitsSummaries, tv)
		}
	}
	return p
}

// Rollup returns the single other/total row, if present.
func (p *ValuePartition) Rollup() (*OtherAndTotalViewsCountStatsRecordValue, bool) {
	if len(p.OtherAndTotal) == 0 {
		return nil, false
	}
	return p.OtherAndTotal[0], true
}
