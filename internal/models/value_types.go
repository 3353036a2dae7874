package models

import "time"

// FollowersStatsType discriminates follower rows and their aggregate count.
type FollowersStatsType int16

const (
	FollowersDotCom FollowersStatsType = iota
	FollowersEmail
)

func (t FollowersStatsType) IsValid() bool { return t == FollowersDotCom || t == FollowersEmail }

// TagsCategoriesType is the kind of a tags-and-categories node. Only folders
// may have children.
type TagsCategoriesType int16

const (
	TagsCategoriesCategory TagsCategoriesType = iota
	TagsCategoriesTag
	TagsCategoriesFolder
)

func (t TagsCategoriesType) IsValid() bool { return t >= TagsCategoriesCategory && t <= TagsCategoriesFolder }

type TopViewsPostType int16

const (
	TopViewsUnknown TopViewsPostType = iota
	TopViewsPost
	TopViewsHomePage
	TopViewsAttachment
	TopViewsPage
)

func (t TopViewsPostType) IsValid() bool { return t >= TopViewsUnknown && t <= TopViewsPage }

type AllTimeStatsRecordValue struct {
	recordValue
	PostsCount           int64      `json:"postsCount"`
	ViewsCount           int64      `json:"viewsCount"`
	VisitorsCount        int64      `json:"visitorsCount"`
	BestViewsPerDayCount int64      `json:"bestViewsPerDayCount"`
	BestViewsDay         *time.Time `json:"bestViewsDay,omitempty"`
}

func (v *AllTimeStatsRecordValue) Kind() ValueKind { return KindAllTime }

func (v *AllTimeStatsRecordValue) ValidateForInsert(ctx *Context) error {
	return validateSingleEntry(ctx, KindAllTime)
}

type AnnualAndMostPopularTimeInsightStatsRecordValue struct {
	recordValue
	MostPopularDayOfWeek           int64   `json:"mostPopularDayOfWeek"`
	MostPopularDayOfWeekPercentage int64   `json:"mostPopularDayOfWeekPercentage"`
	MostPopularHour                int64   `json:"mostPopularHour"`
	MostPopularHourPercentage      int64   `json:"mostPopularHourPercentage"`
	InsightYear                    int64   `json:"insightYear"`
	TotalPostsCount                int64   `json:"totalPostsCount"`
	TotalWordsCount                int64   `json:"totalWordsCount"`
	AverageWordsCount              float64 `json:"averageWordsCount"`
	TotalLikesCount                int64   `json:"totalLikesCount"`
	AverageLikesCount              float64 `json:"averageLikesCount"`
	TotalCommentsCount             int64   `json:"totalCommentsCount"`
	AverageCommentsCount           float64 `json:"averageCommentsCount"`
	TotalImagesCount               int64   `json:"totalImagesCount"`
	AverageImagesCount             float64 `json:"averageImagesCount"`
}

func (v *AnnualAndMostPopularTimeInsightStatsRecordValue) Kind() ValueKind {
	return KindAnnualAndMostPopularTimeInsight
}

func (v *AnnualAndMostPopularTimeInsightStatsRecordValue) ValidateForInsert(ctx *Context) error {
	return validateSingleEntry(ctx, KindAnnualAndMostPopularTimeInsight)
}

// ClicksStatsRecordValue is a node of the clicks tree.
type ClicksStatsRecordValue struct {
	recordValue
	Label         string `json:"label"`
	URLString     string `json:"urlString,omitempty"`
	IconURLString string `json:"iconUrlString,omitempty"`
	ClicksCount   int64  `json:"clicksCount"`
}

func (v *ClicksStatsRecordValue) Kind() ValueKind { return KindClicks }

type CountryStatsRecordValue struct {
	recordValue
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
	ViewsCount  int64  `json:"viewsCount"`
}

func (v *CountryStatsRecordValue) Kind() ValueKind { return KindCountry }

type FileDownloadsStatsRecordValue struct {
	recordValue
	File          string `json:"file"`
	DownloadCount int64  `json:"downloadCount"`
}

func (v *FileDownloadsStatsRecordValue) Kind() ValueKind { return KindFileDownloads }

// FollowersCountStatsRecordValue holds the aggregate follower count for one
// FollowersStatsType.
type FollowersCountStatsRecordValue struct {
	recordValue
	Count int64              `json:"count"`
	Type  FollowersStatsType `json:"type"`
}

func (v *FollowersCountStatsRecordValue) Kind() ValueKind { return KindFollowersCount }

func (v *FollowersCountStatsRecordValue) ValidateForInsert(ctx *Context) error {
	if ctx == nil {
		return NoManagedObjectContext
	}
	if !v.Type.IsValid() {
		return InvalidEnumValue
	}
	return nil
}

type FollowersStatsRecordValue struct {
	recordValue
	Name            string             `json:"name"`
	AvatarURLString string             `json:"avatarUrlString,omitempty"`
	SubscribedDate  *time.Time         `json:"subscribedDate,omitempty"`
	Type            FollowersStatsType `json:"type"`
}

func (v *FollowersStatsRecordValue) Kind() ValueKind { return KindFollowers }

func (v *FollowersStatsRecordValue) ValidateForInsert(ctx *Context) error {
	if ctx == nil {
		return NoManagedObjectContext
	}
	if !v.Type.IsValid() {
		return InvalidEnumValue
	}
	return nil
}

type LastPostStatsRecordValue struct {
	recordValue
	Title                  string     `json:"title"`
	URLString              string     `json:"urlString,omitempty"`
	FeaturedImageURLString string     `json:"featuredImageUrlString,omitempty"`
	PublishedDate          *time.Time `json:"publishedDate,omitempty"`
	PostID                 int64      `json:"postId"`
	CommentsCount          int64      `json:"commentsCount"`
	LikesCount             int64      `json:"likesCount"`
	ViewsCount             int64      `json:"viewsCount"`
}

func (v *LastPostStatsRecordValue) Kind() ValueKind { return KindLastPost }

func (v *LastPostStatsRecordValue) ValidateForInsert(ctx *Context) error {
	return validateSingleEntry(ctx, KindLastPost)
}

// OtherAndTotalViewsCountStatsRecordValue is the rollup row attached to
// ranked-list facets: views outside the top N, and the grand total.
type OtherAndTotalViewsCountStatsRecordValue struct {
	recordValue
	OtherCount int64 `json:"otherCount"`
	TotalCount int64 `json:"totalCount"`
}

func (v *OtherAndTotalViewsCountStatsRecordValue) Kind() ValueKind {
	return KindOtherAndTotalViewsCount
}

type PublicizeConnectionStatsRecordValue struct {
	recordValue
	Name           string `json:"name"`
	IconURLString  string `json:"iconUrlString,omitempty"`
	FollowersCount int64  `json:"followersCount"`
}

func (v *PublicizeConnectionStatsRecordValue) Kind() ValueKind { return KindPublicizeConnection }

// ReferrerStatsRecordValue is a node of the referrers tree, e.g. a domain
// with its sub-paths as children.
type ReferrerStatsRecordValue struct {
	recordValue
	Label         string `json:"label"`
	URLString     string `json:"urlString,omitempty"`
	IconURLString string `json:"iconUrlString,omitempty"`
	ViewsCount    int64  `json:"viewsCount"`
	IsSpam        bool   `json:"isSpam,omitempty"`
}

func (v *ReferrerStatsRecordValue) Kind() ValueKind { return KindReferrer }

type SearchResultsStatsRecordValue struct {
	recordValue
	SearchTerm    string `json:"searchTerm"`
	SearchesCount int64  `json:"searchesCount"`
}

func (v *SearchResultsStatsRecordValue) Kind() ValueKind { return KindSearchResults }

// StreakInsightStatsRecordValue owns the individual posting days as
// StreakStatsRecordValue children.
type StreakInsightStatsRecordValue struct {
	recordValue
	CurrentStreakStart  *time.Time `json:"currentStreakStart,omitempty"`
	CurrentStreakEnd    *time.Time `json:"currentStreakEnd,omitempty"`
	CurrentStreakLength int64      `json:"currentStreakLength"`
	LongestStreakStart  *time.Time `json:"longestStreakStart,omitempty"`
	LongestStreakEnd    *time.Time `json:"longestStreakEnd,omitempty"`
	LongestStreakLength int64      `json:"longestStreakLength"`
}

func (v *StreakInsightStatsRecordValue) Kind() ValueKind { return KindStreakInsight }

func (v *StreakInsightStatsRecordValue) ValidateForInsert(ctx *Context) error {
	return validateSingleEntry(ctx, KindStreakInsight)
}

type StreakStatsRecordValue struct {
	recordValue
	Date      time.Time `json:"date"`
	PostCount int64     `json:"postCount"`
}

func (v *StreakStatsRecordValue) Kind() ValueKind { return KindStreak }

type TagsCategoriesStatsRecordValue struct {
	recordValue
	Name       string             `json:"name"`
	LinkURL    string             `json:"linkUrl,omitempty"`
	ViewsCount int64              `json:"viewsCount"`
	Type       TagsCategoriesType `json:"type"`
}

func (v *TagsCategoriesStatsRecordValue) Kind() ValueKind { return KindTagsCategories }

func (v *TagsCategoriesStatsRecordValue) ValidateForInsert(ctx *Context) error {
	if ctx == nil {
		return NoManagedObjectContext
	}
	if !v.Type.IsValid() {
		return InvalidEnumValue
	}
	if v.Type != TagsCategoriesFolder && v.record != nil && len(v.record.Children(v)) > 0 {
		return InvalidEnumValue
	}
	return nil
}

type TodayStatsRecordValue struct {
	recordValue
	ViewsCount    int64 `json:"viewsCount"`
	VisitorsCount int64 `json:"visitorsCount"`
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
}

func (v *TodayStatsRecordValue) Kind() ValueKind { return KindToday }

func (v *TodayStatsRecordValue) ValidateForInsert(ctx *Context) error {
	return validateSingleEntry(ctx, KindToday)
}

type TopCommentedPostStatsRecordValue struct {
	recordValue
	Title        string `json:"title"`
	PostID       int64  `json:"postId"`
	CommentCount int64  `json:"commentCount"`
}

func (v *TopCommentedPostStatsRecordValue) Kind() ValueKind { return KindTopCommentedPost }

type TopCommentsAuthorStatsRecordValue struct {
	recordValue
	Name            string `json:"name"`
	AvatarURLString string `json:"avatarUrlString,omitempty"`
	CommentCount    int64  `json:"commentCount"`
}

func (v *TopCommentsAuthorStatsRecordValue) Kind() ValueKind { return KindTopCommentsAuthor }

// TopViewedAuthorStatsRecordValue owns its per-author post breakdown as
// TopViewedPostStatsRecordValue children.
type TopViewedAuthorStatsRecordValue struct {
	recordValue
	Name            string `json:"name"`
	AvatarURLString string `json:"avatarUrlString,omitempty"`
	ViewsCount      int64  `json:"viewsCount"`
}

func (v *TopViewedAuthorStatsRecordValue) Kind() ValueKind { return KindTopViewedAuthor }

type TopViewedPostStatsRecordValue struct {
	recordValue
	Title         string           `json:"title"`
	PostURLString string           `json:"postUrlString,omitempty"`
	PostID        int64            `json:"postId"`
	ViewsCount    int64            `json:"viewsCount"`
	Type          TopViewsPostType `json:"type"`
}

func (v *TopViewedPostStatsRecordValue) Kind() ValueKind { return KindTopViewedPost }

func (v *TopViewedPostStatsRecordValue) ValidateForInsert(ctx *Context) error {
	if ctx == nil {
		return NoManagedObjectContext
	}
	if !v.Type.IsValid() {
		return InvalidEnumValue
	}
	return nil
}

type TopViewedVideoStatsRecordValue struct {
	recordValue
	Title         string `json:"title"`
	PostURLString string `json:"postUrlString,omitempty"`
	PostID        int64  `json:"postId"`
	PlaysCount    int64  `json:"playsCount"`
}

func (v *TopViewedVideoStatsRecordValue) Kind() ValueKind { return KindTopViewedVideo }

type VisitsSummaryStatsRecordValue struct {
	recordValue
	PeriodStart   time.Time `json:"periodStart"`
	ViewsCount    int64     `json:"viewsCount"`
	VisitorsCount int64     `json:"visitorsCount"`
	LikesCount    int64     `json:"likesCount"`
	CommentsCount int64     `json:"commentsCount"`
}

func (v *VisitsSummaryStatsRecordValue) Kind() ValueKind { return KindVisitsSummary }
