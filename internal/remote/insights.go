package remote

import (
	"time"

	"sitestats/internal/models"
)

type StatsAllTimesInsight struct {
	PostsCount           int64      `json:"postsCount"`
	ViewsCount           int64      `json:"viewsCount"`
	VisitorsCount        int64      `json:"visitorsCount"`
	BestViewsPerDayCount int64      `json:"bestViewsPerDayCount"`
	BestViewsDay         *time.Time `json:"bestViewsDay,omitempty"`
}

func (i StatsAllTimesInsight) RecordType() models.StatsRecordType {
	return models.AllTimeStatsInsight
}

func (i StatsAllTimesInsight) StatsRecordValues() []models.StatsRecordValue {
	return []models.StatsRecordValue{&models.AllTimeStatsRecordValue{
		PostsCount:           i.PostsCount,
		ViewsCount:           i.ViewsCount,
		VisitorsCount:        i.VisitorsCount,
		BestViewsPerDayCount: i.BestViewsPerDayCount,
		BestViewsDay:         i.BestViewsDay,
	}}
}

func NewStatsAllTimesInsight(values []models.StatsRecordValue) (*StatsAllTimesInsight, bool) {
	p := models.PartitionValues(values)
	if len(p.AllTime) == 0 {
		return nil, false
	}
	v := p.AllTime[0]
	return &StatsAllTimesInsight{
		PostsCount:           v.PostsCount,
		ViewsCount:           v.ViewsCount,
		VisitorsCount:        v.VisitorsCount,
		BestViewsPerDayCount: v.BestViewsPerDayCount,
		BestViewsDay:         v.BestViewsDay,
	}, true
}

type StatsAnnualAndMostPopularTimeInsight struct {
	MostPopularDayOfWeek           int64   `json:"mostPopularDayOfWeek"`
	MostPopularDayOfWeekPercentage int64   `json:"mostPopularDayOfWeekPercentage"`
	MostPopularHour                int64   `json:"mostPopularHour"`
	MostPopularHourPercentage      int64   `json:"mostPopularHourPercentage"`
	AnnualInsightsYear             int64   `json:"annualInsightsYear"`
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

func (i StatsAnnualAndMostPopularTimeInsight) RecordType() models.StatsRecordType {
	return models.AnnualAndMostPopularTimes
}

func (i StatsAnnualAndMostPopularTimeInsight) StatsRecordValues() []models.StatsRecordValue {
	return []models.StatsRecordValue{&models.AnnualAndMostPopularTimeInsightStatsRecordValue{
		MostPopularDayOfWeek:           i.MostPopularDayOfWeek,
		MostPopularDayOfWeekPercentage: i.MostPopularDayOfWeekPercentage,
		MostPopularHour:                i.MostPopularHour,
		MostPopularHourPercentage:      i.MostPopularHourPercentage,
		InsightYear:                    i.AnnualInsightsYear,
		TotalPostsCount:                i.TotalPostsCount,
		TotalWordsCount:                i.TotalWordsCount,
		AverageWordsCount:              i.AverageWordsCount,
		TotalLikesCount:                i.TotalLikesCount,
		AverageLikesCount:              i.AverageLikesCount,
		TotalCommentsCount:             i.TotalCommentsCount,
		AverageCommentsCount:           i.AverageCommentsCount,
		TotalImagesCount:               i.TotalImagesCount,
		AverageImagesCount:             i.AverageImagesCount,
	}}
}

func NewStatsAnnualAndMostPopularTimeInsight(values []models.StatsRecordValue) (*StatsAnnualAndMostPopularTimeInsight, bool) {
	p := models.PartitionValues(values)
	if len(p.AnnualAndMostPopularTime) == 0 {
		return nil, false
	}
	v := p.AnnualAndMostPopularTime[0]
	return &StatsAnnualAndMostPopularTimeInsight{
		MostPopularDayOfWeek:           v.MostPopularDayOfWeek,
		MostPopularDayOfWeekPercentage: v.MostPopularDayOfWeekPercentage,
		MostPopularHour:                v.MostPopularHour,
		MostPopularHourPercentage:      v.MostPopularHourPercentage,
		AnnualInsightsYear:             v.InsightYear,
		TotalPostsCount:                v.TotalPostsCount,
		TotalWordsCount:                v.TotalWordsCount,
		AverageWordsCount:              v.AverageWordsCount,
		TotalLikesCount:                v.TotalLikesCount,
		AverageLikesCount:              v.AverageLikesCount,
		TotalCommentsCount:             v.TotalCommentsCount,
		AverageCommentsCount:           v.AverageCommentsCount,
		TotalImagesCount:               v.TotalImagesCount,
		AverageImagesCount:             v.AverageImagesCount,
	}, true
}

type StatsLastPostInsight struct {
	Title            string    `json:"title"`
	URL              string    `json:"url,omitempty"`
	PublishedDate    time.Time `json:"publishedDate"`
	LikesCount       int64     `json:"likesCount"`
	CommentsCount    int64     `json:"commentsCount"`
	ViewsCount       int64     `json:"viewsCount"`
	PostID           int64     `json:"postId"`
	FeaturedImageURL string    `json:"featuredImageUrl,omitempty"`
}

func (i StatsLastPostInsight) RecordType() models.StatsRecordType {
	return models.LastPostInsight
}

func (i StatsLastPostInsight) StatsRecordValues() []models.StatsRecordValue {
	return []models.StatsRecordValue{&models.LastPostStatsRecordValue{
		Title:                  i.Title,
		URLString:              i.URL,
		FeaturedImageURLString: i.FeaturedImageURL,
		PublishedDate:          optionalTime(i.PublishedDate),
		PostID:                 i.PostID,
		CommentsCount:          i.CommentsCount,
		LikesCount:             i.LikesCount,
		ViewsCount:             i.ViewsCount,
	}}
}

func NewStatsLastPostInsight(values []models.StatsRecordValue) (*StatsLastPostInsight, bool) {
	p := models.PartitionValues(values)
	if len(p.LastPosts) == 0 {
		return nil, false
	}
	v := p.LastPosts[0]
	return &StatsLastPostInsight{
		Title:            v.Title,
		URL:              v.URLString,
		PublishedDate:    timeValue(v.PublishedDate),
		LikesCount:       v.LikesCount,
		CommentsCount:    v.CommentsCount,
		ViewsCount:       v.ViewsCount,
		PostID:           v.PostID,
		FeaturedImageURL: v.FeaturedImageURLString,
	}, true
}

type StatsTodayInsight struct {
	ViewsCount    int64 `json:"viewsCount"`
	VisitorsCount int64 `json:"visitorsCount"`
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
}

func (i StatsTodayInsight) RecordType() models.StatsRecordType {
	return models.Today
}

func (i StatsTodayInsight) StatsRecordValues() []models.StatsRecordValue {
	return []models.StatsRecordValue{&models.TodayStatsRecordValue{
		ViewsCount:    i.ViewsCount,
		VisitorsCount: i.VisitorsCount,
		LikesCount:    i.LikesCount,
		CommentsCount: i.CommentsCount,
	}}
}

func NewStatsTodayInsight(values []models.StatsRecordValue) (*StatsTodayInsight, bool) {
	p := models.PartitionValues(values)
	if len(p.Today) == 0 {
		return nil, false
	}
	v := p.Today[0]
	return &StatsTodayInsight{
		ViewsCount:    v.ViewsCount,
		VisitorsCount: v.VisitorsCount,
		LikesCount:    v.LikesCount,
		CommentsCount: v.CommentsCount,
	}, true
}

type PostingStreakEvent struct {
	Date      time.Time `json:"date"`
	PostCount int64     `json:"postCount"`
}

type StatsPostingStreakInsight struct {
	CurrentStreakStart  *time.Time           `json:"currentStreakStart,omitempty"`
	CurrentStreakEnd    *time.Time           `json:"currentStreakEnd,omitempty"`
	CurrentStreakLength int64                `json:"currentStreakLength"`
	LongestStreakStart  *time.Time           `json:"longestStreakStart,omitempty"`
	LongestStreakEnd    *time.Time           `json:"longestStreakEnd,omitempty"`
	LongestStreakLength int64                `json:"longestStreakLength"`
	PostingEvents       []PostingStreakEvent `json:"postingEvents"`
}

func (i StatsPostingStreakInsight) RecordType() models.StatsRecordType {
	return models.StreakInsight
}

func (i StatsPostingStreakInsight) StatsRecordValues() []models.StatsRecordValue {
	var t models.ValueTable
	insight := t.Add(&models.StreakInsightStatsRecordValue{
		CurrentStreakStart:  i.CurrentStreakStart,
		CurrentStreakEnd:    i.CurrentStreakEnd,
		CurrentStreakLength: i.CurrentStreakLength,
		LongestStreakStart:  i.LongestStreakStart,
		LongestStreakEnd:    i.LongestStreakEnd,
		LongestStreakLength: i.LongestStreakLength,
	})
	for _, e := range i.PostingEvents {
		t.AddChild(insight, &models.StreakStatsRecordValue{Date: e.Date, PostCount: e.PostCount})
	}
	return t.Values()
}

func NewStatsPostingStreakInsight(values []models.StatsRecordValue) (*StatsPostingStreakInsight, bool) {
	p := models.PartitionValues(values)
	if len(p.StreakInsights) == 0 {
		return nil, false
	}
	v := p.StreakInsights[0]
	insight := &StatsPostingStreakInsight{
		CurrentStreakStart:  v.CurrentStreakStart,
		CurrentStreakEnd:    v.CurrentStreakEnd,
		CurrentStreakLength: v.CurrentStreakLength,
		LongestStreakStart:  v.LongestStreakStart,
		LongestStreakEnd:    v.LongestStreakEnd,
		LongestStreakLength: v.LongestStreakLength,
		PostingEvents:       make([]PostingStreakEvent, 0, len(p.Streaks)),
	}
	for _, s := range p.Streaks {
		insight.PostingEvents = append(insight.PostingEvents, PostingStreakEvent{Date: s.Date, PostCount: s.PostCount})
	}
	return insight, true
}

type StatsFollower struct {
	Name           string    `json:"name"`
	SubscribedDate time.Time `json:"subscribedDate"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
}

func followerValues(t models.FollowersStatsType, count int64, followers []StatsFollower) []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(followers)+1)
	for _, f := range followers {
		values = append(values, &models.FollowersStatsRecordValue{
			Name:            f.Name,
			AvatarURLString: f.AvatarURL,
			SubscribedDate:  optionalTime(f.SubscribedDate),
			Type:            t,
		})
	}
	return append(values, &models.FollowersCountStatsRecordValue{Count: count, Type: t})
}

// followersOf rebuilds one follower view. Rows of the other view are
// ignored; the count row of this view is required.
func followersOf(values []models.StatsRecordValue, t models.FollowersStatsType) ([]StatsFollower, int64, bool) {
	p := models.PartitionValues(values)
	var count *models.FollowersCountStatsRecordValue
	for _, c := range p.FollowersCounts {
		if c.Type == t {
			count = c
			break
		}
	}
	if count == nil {
		return nil, 0, false
	}
	followers := make([]StatsFollower, 0, len(p.Followers))
	for _, f := range p.Followers {
		if f.Type != t {
			continue
		}
		followers = append(followers, StatsFollower{
			Name:           f.Name,
			SubscribedDate: timeValue(f.SubscribedDate),
			AvatarURL:      f.AvatarURLString,
		})
	}
	return followers, count.Count, true
}

func replacesFollowers(v models.StatsRecordValue, t models.FollowersStatsType) bool {
	switch fv := v.(type) {
	case *models.FollowersStatsRecordValue:
		return fv.Type == t
	case *models.FollowersCountStatsRecordValue:
		return fv.Type == t
	}
	return false
}

type StatsDotComFollowersInsight struct {
	DotComFollowersCount int64           `json:"dotComFollowersCount"`
	TopDotComFollowers   []StatsFollower `json:"topDotComFollowers"`
}

func (i StatsDotComFollowersInsight) RecordType() models.StatsRecordType { return models.Followers }

func (i StatsDotComFollowersInsight) StatsRecordValues() []models.StatsRecordValue {
	return followerValues(models.FollowersDotCom, i.DotComFollowersCount, i.TopDotComFollowers)
}

func (i StatsDotComFollowersInsight) Replaces(v models.StatsRecordValue) bool {
	return replacesFollowers(v, models.FollowersDotCom)
}

func NewStatsDotComFollowersInsight(values []models.StatsRecordValue) (*StatsDotComFollowersInsight, bool) {
	followers, count, ok := followersOf(values, models.FollowersDotCom)
	if !ok {
		return nil, false
	}
	return &StatsDotComFollowersInsight{DotComFollowersCount: count, TopDotComFollowers: followers}, true
}

type StatsEmailFollowersInsight struct {
	EmailFollowersCount int64           `json:"emailFollowersCount"`
	TopEmailFollowers   []StatsFollower `json:"topEmailFollowers"`
}

func (i StatsEmailFollowersInsight) RecordType() models.StatsRecordType { return models.Followers }

func (i StatsEmailFollowersInsight) StatsRecordValues() []models.StatsRecordValue {
	return followerValues(models.FollowersEmail, i.EmailFollowersCount, i.TopEmailFollowers)
}

func (i StatsEmailFollowersInsight) Replaces(v models.StatsRecordValue) bool {
	return replacesFollowers(v, models.FollowersEmail)
}

func NewStatsEmailFollowersInsight(values []models.StatsRecordValue) (*StatsEmailFollowersInsight, bool) {
	followers, count, ok := followersOf(values, models.FollowersEmail)
	if !ok {
		return nil, false
	}
	return &StatsEmailFollowersInsight{EmailFollowersCount: count, TopEmailFollowers: followers}, true
}

type StatsPublicizeService struct {
	Name      string `json:"name"`
	Followers int64  `json:"followers"`
	IconURL   string `json:"iconUrl,omitempty"`
}

type StatsPublicizeInsight struct {
	PublicizeServices []StatsPublicizeService `json:"publicizeServices"`
}

func (i StatsPublicizeInsight) RecordType() models.StatsRecordType {
	return models.PublicizeConnection
}

func (i StatsPublicizeInsight) StatsRecordValues() []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(i.PublicizeServices))
	for _, s := range i.PublicizeServices {
		values = append(values, &models.PublicizeConnectionStatsRecordValue{
			Name:           s.Name,
			IconURLString:  s.IconURL,
			FollowersCount: s.Followers,
		})
	}
	return values
}

// NewStatsPublicizeInsight needs at least one row to locate the anchor; a
// site without connections has no rows and nothing to rebuild.
func NewStatsPublicizeInsight(values []models.StatsRecordValue) (*StatsPublicizeInsight, bool) {
	p := models.PartitionValues(values)
	if p.Record == nil {
		return nil, false
	}
	insight := &StatsPublicizeInsight{PublicizeServices: make([]StatsPublicizeService, 0, len(p.PublicizeConnections))}
	for _, c := range p.PublicizeConnections {
		insight.PublicizeServices = append(insight.PublicizeServices, StatsPublicizeService{
			Name:      c.Name,
			Followers: c.FollowersCount,
			IconURL:   c.IconURLString,
		})
	}
	return insight, true
}

type StatsTopCommentsPost struct {
	Title        string `json:"title"`
	PostID       int64  `json:"postId"`
	CommentCount int64  `json:"commentCount"`
}

type StatsTopCommentsAuthor struct {
	Name         string `json:"name"`
	CommentCount int64  `json:"commentCount"`
	IconURL      string `json:"iconUrl,omitempty"`
}

type StatsCommentsInsight struct {
	TopPosts   []StatsTopCommentsPost   `json:"topPosts"`
	TopAuthors []StatsTopCommentsAuthor `json:"topAuthors"`
}

func (i StatsCommentsInsight) RecordType() models.StatsRecordType {
	return models.CommentInsight
}

func (i StatsCommentsInsight) StatsRecordValues() []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(i.TopPosts)+len(i.TopAuthors))
	for _, post := range i.TopPosts {
		values = append(values, &models.TopCommentedPostStatsRecordValue{
			Title:        post.Title,
			PostID:       post.PostID,
			CommentCount: post.CommentCount,
		})
	}
	for _, a := range i.TopAuthors {
		values = append(values, &models.TopCommentsAuthorStatsRecordValue{
			Name:            a.Name,
			AvatarURLString: a.IconURL,
			CommentCount:    a.CommentCount,
		})
	}
	return values
}

func NewStatsCommentsInsight(values []models.StatsRecordValue) (*StatsCommentsInsight, bool) {
	p := models.PartitionValues(values)
	if p.Record == nil {
		return nil, false
	}
	insight := &StatsCommentsInsight{
		TopPosts:   make([]StatsTopCommentsPost, 0, len(p.TopCommentedPosts)),
		TopAuthors: make([]StatsTopCommentsAuthor, 0, len(p.TopCommentsAuthors)),
	}
	for _, post := range p.TopCommentedPosts {
		insight.TopPosts = append(insight.TopPosts, StatsTopCommentsPost{
			Title:        post.Title,
			PostID:       post.PostID,
			CommentCount: post.CommentCount,
		})
	}
	for _, a := range p.TopCommentsAuthors {
		insight.TopAuthors = append(insight.TopAuthors, StatsTopCommentsAuthor{
			Name:         a.Name,
			CommentCount: a.CommentCount,
			IconURL:      a.AvatarURLString,
		})
	}
	return insight, true
}
