package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"diderot/internal/logging"
	"diderot/internal/model"
	"diderot/internal/pipeline"
	"diderot/internal/report"
	"diderot/internal/transport/response"
)

// DigestService is the part of the report service the handlers use.
type DigestService interface {
	DailyDigest(ctx context.Context, date string, force bool) (*model.DailyReport, error)
	Cached(ctx context.Context, date string) (*model.DailyReport, error)
}

// Freshness answers whether a report is still inside its validity
// window.
type Freshness interface {
	Fresh(rep *model.DailyReport) bool
}

// Lister enumerates the dates with a stored report.
type Lister interface {
	Dates(ctx context.Context) ([]string, error)
}

// Report serves the digest API: read a cached report, trigger
// generation, list stored dates.
type Report struct {
	service   DigestService
	freshness Freshness
	dates     Lister
	log       *logging.Entry
}

func NewReport(service DigestService, freshness Freshness, dates Lister) *Report {
	return &Report{
		service:   service,
		freshness: freshness,
		dates:     dates,
		log:       logging.WithComponent("handler"),
	}
}

// Get serves the stored report for ?date= (default today). Stale
// reports are still served, flagged in meta; partial reports come back
// 200 with their status field, never as an error page.
func (h *Report) Get(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format(model.DateLayout)
	}
	if err := report.ValidateDate(date); err != nil {
		response.WriteBadRequest(w, err.Error())
		return
	}

	rep, err := h.service.Cached(r.Context(), date)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			response.WriteNotFound(w, "no report for "+date)
			return
		}
		h.log.WithField("date", date).WithField("error", err.Error()).Error("reading report failed")
		response.WriteInternalError(w, "reading report failed")
		return
	}

	var meta *response.Meta
	if !h.freshness.Fresh(rep) {
		meta = &response.Meta{Stale: true}
	}
	response.WriteData(w, rep, meta)
}

// Generate runs the digest for the requested date, honoring the cache
// unless force is set.
func (h *Report) Generate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date  string `json:"date"`
		Force bool   `json:"force"`
	}
	if r.Body != nil {
		// An empty body means "today, no force".
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			response.WriteBadRequest(w, "invalid request body")
			return
		}
	}
	if body.Date == "" {
		body.Date = time.Now().UTC().Format(model.DateLayout)
	}
	if err := report.ValidateDate(body.Date); err != nil {
		response.WriteBadRequest(w, err.Error())
		return
	}

	rep, err := h.service.DailyDigest(r.Context(), body.Date, body.Force)

	var cacheErr *report.CacheWriteError
	switch {
	case err == nil:
		response.WriteData(w, rep, nil)
	case errors.As(err, &cacheErr):
		// The digest is good, it just did not persist.
		response.WriteData(w, rep, &response.Meta{CacheError: cacheErr.Error()})
	default:
		h.log.WithField("date", body.Date).WithField("error", err.Error()).Error("report generation failed")
		var fatal *pipeline.FatalError
		if errors.As(err, &fatal) {
			response.WriteError(w, http.StatusBadGateway, "report generation failed, retry later: "+fatal.Error())
			return
		}
		response.WriteInternalError(w, "report generation failed")
	}
}

// Dates lists every date with a stored report.
func (h *Report) Dates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.dates.Dates(r.Context())
	if err != nil {
		h.log.WithField("error", err.Error()).Error("listing report dates failed")
		response.WriteInternalError(w, "listing report dates failed")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	response.WriteData(w, dates, nil)
}

// Health is the liveness probe.
func (h *Report) Health(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, "ok", map[string]interface{}{
		"timestamp": time.Now().Unix(),
	})
}
