package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sitestats/internal/models"
	"sitestats/internal/providers"
	"sitestats/internal/remote"
	"sitestats/internal/services"
	"sitestats/internal/statistic/interfaces"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxRequestBodySize = 1 << 20 // 1 MB

var errNotFound = errors.New("not found")

type ApiController struct {
	logger  providers.Logger
	service services.StatsServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	archive interfaces.ArchiveInterface
}

func NewApiController(logger providers.Logger, service services.StatsServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, archive interfaces.ArchiveInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
		archive: archive,
	}
}

type syncResponse struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Period string `json:"period"`
}

type facetResponse struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	TimeSeries bool   `json:"time_series"`
}

type readQuery struct {
	blogID string
	facet  remote.Facet
	day    time.Time
	period models.StatsRecordPeriodType
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if errors.Is(err, errNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

func (ac *ApiController) lookupFacet(r *http.Request) (remote.Facet, error) {
	name := r.URL.Query().Get("facet")
	if name == "" {
		return remote.Facet{}, errors.New("missing facet")
	}
	f, ok := remote.LookupFacet(name)
	if !ok {
		return remote.Facet{}, fmt.Errorf("unknown facet %q", name)
	}
	return f, nil
}

// parseReadQuery reads blog, facet, date (defaults to today in the service's
// calendar) and period (defaults to day).
func (ac *ApiController) parseReadQuery(r *http.Request) (readQuery, error) {
	q := r.URL.Query()
	rq := readQuery{blogID: q.Get("blog"), period: models.PeriodDay}
	if rq.blogID == "" {
		return rq, errors.New("missing blog")
	}

	f, err := ac.lookupFacet(r)
	if err != nil {
		return rq, err
	}
	rq.facet = f

	rq.day = time.Now().In(ac.service.Location())
	if raw := q.Get("date"); raw != "" {
		day, err := cast.ToTimeInDefaultLocationE(raw, ac.service.Location())
		if err != nil {
			return rq, fmt.Errorf("bad date: %w", err)
		}
		rq.day = day
	}
	if raw := q.Get("period"); raw != "" {
		p, err := models.ParseStatsRecordPeriodType(raw)
		if err != nil {
			return rq, err
		}
		rq.period = p
	}
	return rq, nil
}

// ReceiveStats stores a facet DTO for a site, replacing the previous copy.
func (ac *ApiController) ReceiveStats(w http.ResponseWriter, r *http.Request) {
	blogID := r.URL.Query().Get("blog")
	if blogID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f, err := ac.lookupFacet(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	dto, err := f.Decode(body)
	if err != nil {
		ac.logger.Debugf(providers.TypePost, "Decode %s for site %s: %s", f.Name, blogID, err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	record, err := ac.service.Sync(blogID, dto, time.Now())
	if err != nil {
		var verr models.ValidationError
		switch {
		case errors.As(err, &verr):
			ac.metrics.IncSyncTotal(f.Name, "invalid")
			ac.logger.Warnf(providers.TypeSync, "Rejected %s for site %s: %s", f.Name, blogID, err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, services.ErrBlogLimit):
			ac.metrics.IncSyncTotal(f.Name, "error")
			ac.logger.Errorf(providers.TypeSync, "Site limit reached, dropping %s for site %s", f.Name, blogID)
			http.Error(w, err.Error(), http.StatusInsufficientStorage)
		default:
			ac.metrics.IncSyncTotal(f.Name, "error")
			ac.logger.Errorf(providers.TypeSync, "Sync %s for site %s: %s", f.Name, blogID, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}
	ac.metrics.IncSyncTotal(f.Name, "ok")
	ac.logger.Infof(providers.TypeSync, "Synced %s for site %s as record %s", f.Name, blogID, record.ID)

	gson, err := json.Marshal(syncResponse{ID: record.ID, Type: record.Type.String(), Period: record.Period.String()})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, gson)
}

// GetStats rebuilds a facet from the site's store.
func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	rq, err := ac.parseReadQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rev := ac.service.Revision(rq.blogID)
	cacheKey := providers.CacheKey("stats", rq.blogID, strconv.FormatUint(rev, 10), rq.facet.Name,
		rq.day.Format(time.DateOnly), rq.period.String())
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		dto, ok := ac.service.Read(rq.blogID, rq.facet, rq.day, rq.period)
		if !ok {
			return nil, errNotFound
		}
		return dto, nil
	})
}

// ResetStats drops every record of a site.
func (ac *ApiController) ResetStats(w http.ResponseWriter, r *http.Request) {
	blogID := r.URL.Query().Get("blog")
	if blogID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if !ac.service.Reset(blogID) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.logger.Infof(providers.TypeSync, "Reset site %s", blogID)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetFacets(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, providers.CacheKey("facets"), func() (any, error) {
		facets := remote.Facets()
		out := make([]facetResponse, 0, len(facets))
		for _, f := range facets {
			out = append(out, facetResponse{Name: f.Name, Type: f.Type.String(), TimeSeries: f.Type.RequiresDate()})
		}
		return out, nil
	})
}

func (ac *ApiController) GetBlogs(w http.ResponseWriter, r *http.Request) {
	gson, err := json.Marshal(ac.service.GetBlogs())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gson)
}

// GetArchive rebuilds a facet from every archived record matching the query,
// bypassing the in-memory stores.
func (ac *ApiController) GetArchive(w http.ResponseWriter, r *http.Request) {
	if ac.archive == nil {
		http.Error(w, "Not Implemented", http.StatusNotImplemented)
		return
	}
	rq, err := ac.parseReadQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fr := models.FetchRequestFor(rq.facet.Type, rq.day).ForBlog(rq.blogID)
	if rq.facet.Type.RequiresDate() {
		fr = fr.ForPeriod(rq.period)
	}
	records, err := ac.archive.Find(r.Context(), fr)
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Archive lookup for site %s: %s", rq.blogID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	out := make([]any, 0, len(records))
	for _, record := range records {
		if dto, ok := rq.facet.Rebuild(record.Values()); ok {
			out = append(out, dto)
		}
	}
	if len(out) == 0 {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	gson, err := json.Marshal(out)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gson)
}
