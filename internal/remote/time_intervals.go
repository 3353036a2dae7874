package remote

import (
	"time"

	"sitestats/internal/models"
)

// UnknownSearchTermsMarker is the reserved search term under which the
// count of hidden (unknown) search terms is stored.
const UnknownSearchTermsMarker = "__unknown_search_terms__"

type StatsSummaryData struct {
	PeriodStartDate time.Time `json:"periodStartDate"`
	ViewsCount      int64     `json:"viewsCount"`
	VisitorsCount   int64     `json:"visitorsCount"`
	LikesCount      int64     `json:"likesCount"`
	CommentsCount   int64     `json:"commentsCount"`
}

type StatsSummaryTimeIntervalData struct {
	StatsTimeInterval
	SummaryData []StatsSummaryData `json:"summaryData"`
}

func (d StatsSummaryTimeIntervalData) RecordType() models.StatsRecordType {
	return models.BlogVisitsSummary
}

func (d StatsSummaryTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(d.SummaryData))
	for _, s := range d.SummaryData {
		values = append(values, &models.VisitsSummaryStatsRecordValue{
			PeriodStart:   s.PeriodStartDate,
			ViewsCount:    s.ViewsCount,
			VisitorsCount: s.VisitorsCount,
			LikesCount:    s.LikesCount,
			CommentsCount: s.CommentsCount,
		})
	}
	return values
}

func NewStatsSummaryTimeIntervalData(values []models.StatsRecordValue) (*StatsSummaryTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	d := &StatsSummaryTimeIntervalData{
		StatsTimeInterval: interval,
		SummaryData:       make([]StatsSummaryData, 0, len(p.VisitsSummaries)),
	}
	for _, s := range p.VisitsSummaries {
		d.SummaryData = append(d.SummaryData, StatsSummaryData{
			PeriodStartDate: s.PeriodStart,
			ViewsCount:      s.ViewsCount,
			VisitorsCount:   s.VisitorsCount,
			LikesCount:      s.LikesCount,
			CommentsCount:   s.CommentsCount,
		})
	}
	return d, true
}

type StatsClick struct {
	Title       string       `json:"title"`
	ClicksCount int64        `json:"clicksCount"`
	ClickedURL  string       `json:"clickedUrl,omitempty"`
	IconURL     string       `json:"iconUrl,omitempty"`
	Children    []StatsClick `json:"children,omitempty"`
}

type StatsTopClicksTimeIntervalData struct {
	StatsTimeInterval
	TotalClicksCount int64        `json:"totalClicksCount"`
	OtherClicksCount int64        `json:"otherClicksCount"`
	Clicks           []StatsClick `json:"clicks"`
}

func (d StatsTopClicksTimeIntervalData) RecordType() models.StatsRecordType {
	return models.Clicks
}

func (d StatsTopClicksTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	var t models.ValueTable
	for _, c := range d.Clicks {
		addClick(&t, -1, c)
	}
	t.Add(&models.OtherAndTotalViewsCountStatsRecordValue{OtherCount: d.OtherClicksCount, TotalCount: d.TotalClicksCount})
	return t.Values()
}

func addClick(t *models.ValueTable, parent int, c StatsClick) {
	idx := t.AddChild(parent, &models.ClicksStatsRecordValue{
		Label:         c.Title,
		URLString:     c.ClickedURL,
		IconURLString: c.IconURL,
		ClicksCount:   c.ClicksCount,
	})
	for _, child := range c.Children {
		addClick(t, idx, child)
	}
}

func NewStatsTopClicksTimeIntervalData(values []models.StatsRecordValue) (*StatsTopClicksTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	other, total, ok := rollup(p)
	if !ok {
		return nil, false
	}
	d := &StatsTopClicksTimeIntervalData{
		StatsTimeInterval: interval,
		TotalClicksCount:  total,
		OtherClicksCount:  other,
		Clicks:            []StatsClick{},
	}
	for _, c := range p.Clicks {
		if c.ParentIndex() < 0 {
			d.Clicks = append(d.Clicks, clickFrom(p.Record, c))
		}
	}
	return d, true
}

func clickFrom(r *models.StatsRecord, v *models.ClicksStatsRecordValue) StatsClick {
	c := StatsClick{
		Title:       v.Label,
		ClicksCount: v.ClicksCount,
		ClickedURL:  v.URLString,
		IconURL:     v.IconURLString,
	}
	for _, child := range r.Children(v) {
		if cv, ok := child.(*models.ClicksStatsRecordValue); ok {
			c.Children = append(c.Children, clickFrom(r, cv))
		}
	}
	return c
}

type StatsCountry struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	ViewsCount int64  `json:"viewsCount"`
}

type StatsTopCountryTimeIntervalData struct {
	StatsTimeInterval
	TotalViewsCount int64          `json:"totalViewsCount"`
	OtherViewsCount int64          `json:"otherViewsCount"`
	Countries       []StatsCountry `json:"countries"`
}

func (d StatsTopCountryTimeIntervalData) RecordType() models.StatsRecordType {
	return models.CountryViews
}

func (d StatsTopCountryTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(d.Countries)+1)
	for _, c := range d.Countries {
		values = append(values, &models.CountryStatsRecordValue{
			CountryCode: c.Code,
			CountryName: c.Name,
			ViewsCount:  c.ViewsCount,
		})
	}
	return append(values, &models.OtherAndTotalViewsCountStatsRecordValue{OtherCount: d.OtherViewsCount, TotalCount: d.TotalViewsCount})
}

func NewStatsTopCountryTimeIntervalData(values []models.StatsRecordValue) (*StatsTopCountryTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	other, total, ok := rollup(p)
	if !ok {
		return nil, false
	}
	d := &StatsTopCountryTimeIntervalData{
		StatsTimeInterval: interval,
		TotalViewsCount:   total,
		OtherViewsCount:   other,
		Countries:         make([]StatsCountry, 0, len(p.Countries)),
	}
	for _, c := range p.Countries {
		d.Countries = append(d.Countries, StatsCountry{Name: c.CountryName, Code: c.CountryCode, ViewsCount: c.ViewsCount})
	}
	return d, true
}

type StatsReferrer struct {
	Title      string          `json:"title"`
	ViewsCount int64           `json:"viewsCount"`
	URL        string          `json:"url,omitempty"`
	IconURL    string          `json:"iconUrl,omitempty"`
	IsSpam     bool            `json:"isSpam,omitempty"`
	Children   []StatsReferrer `json:"children,omitempty"`
}

type StatsTopReferrersTimeIntervalData struct {
	StatsTimeInterval
	TotalReferrerViewsCount int64           `json:"totalReferrerViewsCount"`
	OtherReferrerViewsCount int64           `json:"otherReferrerViewsCount"`
	Referrers               []StatsReferrer `json:"referrers"`
}

func (d StatsTopReferrersTimeIntervalData) RecordType() models.StatsRecordType {
	return models.Referrers
}

func (d StatsTopReferrersTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	var t models.ValueTable
	for _, r := range d.Referrers {
		addReferrer(&t, -1, r)
	}
	t.Add(&models.OtherAndTotalViewsCountStatsRecordValue{
		OtherCount: d.OtherReferrerViewsCount,
		TotalCount: d.TotalReferrerViewsCount,
	})
	return t.Values()
}

func addReferrer(t *models.ValueTable, parent int, r StatsReferrer) {
	idx := t.AddChild(parent, &models.ReferrerStatsRecordValue{
		Label:         r.Title,
		URLString:     r.URL,
		IconURLString: r.IconURL,
		ViewsCount:    r.ViewsCount,
		IsSpam:        r.IsSpam,
	})
	for _, child := range r.Children {
		addReferrer(t, idx, child)
	}
}

func NewStatsTopReferrersTimeIntervalData(values []models.StatsRecordValue) (*StatsTopReferrersTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	other, total, ok := rollup(p)
	if !ok {
		return nil, false
	}
	d := &StatsTopReferrersTimeIntervalData{
		StatsTimeInterval:       interval,
		TotalReferrerViewsCount: total,
		OtherReferrerViewsCount: other,
		Referrers:               []StatsReferrer{},
	}
	for _, r := range p.Referrers {
		if r.ParentIndex() < 0 {
			d.Referrers = append(d.Referrers, referrerFrom(p.Record, r))
		}
	}
	return d, true
}

func referrerFrom(r *models.StatsRecord, v *models.ReferrerStatsRecordValue) StatsReferrer {
	ref := StatsReferrer{
		Title:      v.Label,
		ViewsCount: v.ViewsCount,
		URL:        v.URLString,
		IconURL:    v.IconURLString,
		IsSpam:     v.IsSpam,
	}
	for _, child := range r.Children(v) {
		if cv, ok := child.(*models.ReferrerStatsRecordValue); ok {
			ref.Children = append(ref.Children, referrerFrom(r, cv))
		}
	}
	return ref
}

type StatsSearchTerm struct {
	Term       string `json:"term"`
	ViewsCount int64  `json:"viewsCount"`
}

type StatsSearchTermTimeIntervalData struct {
	StatsTimeInterval
	TotalSearchTermsCount  int64             `json:"totalSearchTermsCount"`
	HiddenSearchTermsCount int64             `json:"hiddenSearchTermsCount"`
	OtherSearchTermsCount  int64             `json:"otherSearchTermsCount"`
	SearchTerms            []StatsSearchTerm `json:"searchTerms"`
}

func (d StatsSearchTermTimeIntervalData) RecordType() models.StatsRecordType {
	return models.SearchTerms
}

// StatsRecordValues writes the terms, then the hidden-terms sentinel, then
// the rollup.
func (d StatsSearchTermTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(d.SearchTerms)+2)
	for _, s := range d.SearchTerms {
		values = append(values, &models.SearchResultsStatsRecordValue{SearchTerm: s.Term, SearchesCount: s.ViewsCount})
	}
	values = append(values, &models.SearchResultsStatsRecordValue{
		SearchTerm:    UnknownSearchTermsMarker,
		SearchesCount: d.HiddenSearchTermsCount,
	})
	return append(values, &models.OtherAndTotalViewsCountStatsRecordValue{
		OtherCount: d.OtherSearchTermsCount,
		TotalCount: d.TotalSearchTermsCount,
	})
}

func NewStatsSearchTermTimeIntervalData(values []models.StatsRecordValue) (*StatsSearchTermTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	other, total, ok := rollup(p)
	if !ok {
		return nil, false
	}
	d := &StatsSearchTermTimeIntervalData{
		StatsTimeInterval:     interval,
		TotalSearchTermsCount: total,
		OtherSearchTermsCount: other,
		SearchTerms:           make([]StatsSearchTerm, 0, len(p.SearchResults)),
	}
	for _, s := range p.SearchResults {
		if s.SearchTerm == UnknownSearchTermsMarker {
			d.HiddenSearchTermsCount = s.SearchesCount
			continue
		}
		d.SearchTerms = append(d.SearchTerms, StatsSearchTerm{Term: s.SearchTerm, ViewsCount: s.SearchesCount})
	}
	return d, true
}

type StatsTopPostKind string

const (
	TopPostUnknown    StatsTopPostKind = "unknown"
	TopPostPost       StatsTopPostKind = "post"
	TopPostHomepage   StatsTopPostKind = "homepage"
	TopPostAttachment StatsTopPostKind = "attachment"
	TopPostPage       StatsTopPostKind = "page"
)

const unknownTopViewsPostType models.TopViewsPostType = -1

func (k StatsTopPostKind) storedType() models.TopViewsPostType {
	switch k {
	case TopPostUnknown, "":
		return models.TopViewsUnknown
	case TopPostPost:
		return models.TopViewsPost
	case TopPostHomepage:
		return models.TopViewsHomePage
	case TopPostAttachment:
		return models.TopViewsAttachment
	case TopPostPage:
		return models.TopViewsPage
	}
	return unknownTopViewsPostType
}

func topPostKindOf(t models.TopViewsPostType) StatsTopPostKind {
	switch t {
	case models.TopViewsPost:
		return TopPostPost
	case models.TopViewsHomePage:
		return TopPostHomepage
	case models.TopViewsAttachment:
		return TopPostAttachment
	case models.TopViewsPage:
		return TopPostPage
	}
	return TopPostUnknown
}

type StatsTopPost struct {
	Title      string           `json:"title"`
	PostID     int64            `json:"postId"`
	PostURL    string           `json:"postUrl,omitempty"`
	ViewsCount int64            `json:"viewsCount"`
	Kind       StatsTopPostKind `json:"kind"`
}

func (p StatsTopPost) recordValue() *models.TopViewedPostStatsRecordValue {
	return &models.TopViewedPostStatsRecordValue{
		Title:         p.Title,
		PostURLString: p.PostURL,
		PostID:        p.PostID,
		ViewsCount:    p.ViewsCount,
		Type:          p.Kind.storedType(),
	}
}

func topPostFrom(v *models.TopViewedPostStatsRecordValue) StatsTopPost {
	return StatsTopPost{
		Title:      v.Title,
		PostID:     v.PostID,
		PostURL:    v.PostURLString,
		ViewsCount: v.ViewsCount,
		Kind:       topPostKindOf(v.Type),
	}
}

type StatsTopPostsTimeIntervalData struct {
	StatsTimeInterval
	TotalViewsCount int64          `json:"totalViewsCount"`
	OtherViewsCount int64          `json:"otherViewsCount"`
	TopPosts        []StatsTopPost `json:"topPosts"`
}

func (d StatsTopPostsTimeIntervalData) RecordType() models.StatsRecordType {
	return models.TopViewedPost
}

func (d StatsTopPostsTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(d.TopPosts)+1)
	for _, post := range d.TopPosts {
		values = append(values, post.recordValue())
	}
	return append(values, &models.OtherAndTotalViewsCountStatsRecordValue{OtherCount: d.OtherViewsCount, TotalCount: d.TotalViewsCount})
}

func NewStatsTopPostsTimeIntervalData(values []models.StatsRecordValue) (*StatsTopPostsTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	other, total, ok := rollup(p)
	if !ok {
		return nil, false
	}
	d := &StatsTopPostsTimeIntervalData{
		StatsTimeInterval: interval,
		TotalViewsCount:   total,
		OtherViewsCount:   other,
		TopPosts:          make([]StatsTopPost, 0, len(p.TopViewedPosts)),
	}
	for _, post := range p.TopViewedPosts {
		d.TopPosts = append(d.TopPosts, topPostFrom(post))
	}
	return d, true
}

type StatsTopAuthor struct {
	Name       string         `json:"name"`
	IconURL    string         `json:"iconUrl,omitempty"`
	ViewsCount int64          `json:"viewsCount"`
	Posts      []StatsTopPost `json:"posts"`
}

// StatsTopAuthorsTimeIntervalData has no rollup row: the API reports no
// other/total pair for authors.
type StatsTopAuthorsTimeIntervalData struct {
	StatsTimeInterval
	TopAuthors []StatsTopAuthor `json:"topAuthors"`
}

func (d StatsTopAuthorsTimeIntervalData) RecordType() models.StatsRecordType {
	return models.TopViewedAuthor
}

func (d StatsTopAuthorsTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	var t models.ValueTable
	for _, a := range d.TopAuthors {
		idx := t.Add(&models.TopViewedAuthorStatsRecordValue{
			Name:            a.Name,
			AvatarURLString: a.IconURL,
			ViewsCount:      a.ViewsCount,
		})
		for _, post := range a.Posts {
			t.AddChild(idx, post.recordValue())
		}
	}
	return t.Values()
}

func NewStatsTopAuthorsTimeIntervalData(values []models.StatsRecordValue) (*StatsTopAuthorsTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	d := &StatsTopAuthorsTimeIntervalData{
		StatsTimeInterval: interval,
		TopAuthors:        make([]StatsTopAuthor, 0, len(p.TopViewedAuthors)),
	}
	for _, a := range p.TopViewedAuthors {
		author := StatsTopAuthor{Name: a.Name, IconURL: a.AvatarURLString, ViewsCount: a.ViewsCount, Posts: []StatsTopPost{}}
		for _, child := range p.Record.Children(a) {
			if post, ok := child.(*models.TopViewedPostStatsRecordValue); ok {
				author.Posts = append(author.Posts, topPostFrom(post))
			}
		}
		d.TopAuthors = append(d.TopAuthors, author)
	}
	return d, true
}

type StatsVideo struct {
	Title      string `json:"title"`
	PostID     int64  `json:"postId"`
	PostURL    string `json:"postUrl,omitempty"`
	PlaysCount int64  `json:"playsCount"`
}

type StatsTopVideosTimeIntervalData struct {
	StatsTimeInterval
	TotalPlaysCount int64        `json:"totalPlaysCount"`
	OtherPlayCount  int64        `json:"otherPlayCount"`
	Videos          []StatsVideo `json:"videos"`
}

func (d StatsTopVideosTimeIntervalData) RecordType() models.StatsRecordType {
	return models.Videos
}

func (d StatsTopVideosTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(d.Videos)+1)
	for _, v := range d.Videos {
		values = append(values, &models.TopViewedVideoStatsRecordValue{
			Title:         v.Title,
			PostURLString: v.PostURL,
			PostID:        v.PostID,
			PlaysCount:    v.PlaysCount,
		})
	}
	return append(values, &models.OtherAndTotalViewsCountStatsRecordValue{OtherCount: d.OtherPlayCount, TotalCount: d.TotalPlaysCount})
}

func NewStatsTopVideosTimeIntervalData(values []models.StatsRecordValue) (*StatsTopVideosTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	other, total, ok := rollup(p)
	if !ok {
		return nil, false
	}
	d := &StatsTopVideosTimeIntervalData{
		StatsTimeInterval: interval,
		TotalPlaysCount:   total,
		OtherPlayCount:    other,
		Videos:            make([]StatsVideo, 0, len(p.TopViewedVideos)),
	}
	for _, v := range p.TopViewedVideos {
		d.Videos = append(d.Videos, StatsVideo{Title: v.Title, PostID: v.PostID, PostURL: v.PostURLString, PlaysCount: v.PlaysCount})
	}
	return d, true
}

type StatsFileDownload struct {
	File          string `json:"file"`
	DownloadCount int64  `json:"downloadCount"`
}

type StatsFileDownloadsTimeIntervalData struct {
	StatsTimeInterval
	TotalDownloadsCount int64               `json:"totalDownloadsCount"`
	OtherDownloadsCount int64               `json:"otherDownloadsCount"`
	FileDownloads       []StatsFileDownload `json:"fileDownloads"`
}

func (d StatsFileDownloadsTimeIntervalData) RecordType() models.StatsRecordType {
	return models.FileDownloads
}

func (d StatsFileDownloadsTimeIntervalData) StatsRecordValues() []models.StatsRecordValue {
	values := make([]models.StatsRecordValue, 0, len(d.FileDownloads)+1)
	for _, f := range d.FileDownloads {
		values = append(values, &models.FileDownloadsStatsRecordValue{File: f.File, DownloadCount: f.DownloadCount})
	}
	return append(values, &models.OtherAndTotalViewsCountStatsRecordValue{
		OtherCount: d.OtherDownloadsCount,
		TotalCount: d.TotalDownloadsCount,
	})
}

func NewStatsFileDownloadsTimeIntervalData(values []models.StatsRecordValue) (*StatsFileDownloadsTimeIntervalData, bool) {
	p := models.PartitionValues(values)
	interval, ok := timeIntervalOf(p)
	if !ok {
		return nil, false
	}
	other, total, ok := rollup(p)
	if !ok {
		return nil, false
	}
	d := &StatsFileDownloadsTimeIntervalData{
		StatsTimeInterval:   interval,
		TotalDownloadsCount: total,
		OtherDownloadsCount: other,
		FileDownloads:       make([]StatsFileDownload, 0, len(p.FileDownloads)),
	}
	for _, f := range p.FileDownloads {
		d.FileDownloads = append(d.FileDownloads, StatsFileDownload{File: f.File, DownloadCount: f.DownloadCount})
	}
	return d, true
}
