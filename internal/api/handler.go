// Package api exposes the search orchestrator over HTTP with gin.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amishk599/joblens/internal/model"
)

// Searcher is the slice of the orchestrator the handlers use.
type Searcher interface {
	Search(ctx context.Context, q model.Query) (model.SearchResult, error)
	Lookup(id string) (model.Job, error)
	ClearAll(ctx context.Context) error
	Trending(ctx context.Context) (model.SearchResult, error)
	Category(ctx context.Context, name string) (model.SearchResult, error)
	Sources() []model.SourceInfo
}

// Handler holds the HTTP handlers.
type Handler struct {
	svc        Searcher
	adminToken string
	logger     *slog.Logger
}

func NewHandler(svc Searcher, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, adminToken: adminToken, logger: logger}
}

// listResponse is a search result with jobs in their list projection.
type listResponse struct {
	Success   bool               `json:"success"`
	Jobs      []model.JobSummary `json:"jobs"`
	Count     int                `json:"count"`
	Keywords  string             `json:"keywords"`
	Location  string             `json:"location,omitempty"`
	Sources   []string           `json:"sources"`
	Timestamp time.Time          `json:"timestamp"`
	Cached    bool               `json:"cached"`
}

func newListResponse(r model.SearchResult) listResponse {
	summaries := make([]model.JobSummary, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		summaries = append(summaries, j.Summary())
	}
	return listResponse{
		Success:   true,
		Jobs:      summaries,
		Count:     r.Count,
		Keywords:  r.Keywords,
		Location:  r.Location,
		Sources:   r.Sources,
		Timestamp: r.Timestamp,
		Cached:    r.Cached,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// SearchJobs handles GET /api/jobs/search?keywords=&location=&remote=.
func (h *Handler) SearchJobs(c *gin.Context) {
	remote := false
	if v := c.Query("remote"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(c, http.StatusBadRequest, "query parameter 'remote' must be true or false")
			return
		}
		remote = b
	}

	result, err := h.svc.Search(c.Request.Context(), model.Query{
		Keywords:   c.Query("keywords"),
		Location:   c.Query("location"),
		RemoteOnly: remote,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(result))
}

func (h *Handler) Trending(c *gin.Context) {
	result, err := h.svc.Trending(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(result))
}

func (h *Handler) Category(c *gin.Context) {
	result, err := h.svc.Category(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(result))
}

// GetJob returns the full record of a job seen in an earlier search.
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.svc.Lookup(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

func (h *Handler) Sources(c *gin.Context) {
	sources := h.svc.Sources()
	c.JSON(http.StatusOK, gin.H{"success": true, "sources": sources, "count": len(sources)})
}

func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.svc.ClearAll(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "cache and job store cleared"})
}

// handleError maps domain errors to status codes. Internal details are only logged.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidQuery):
		h.fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrJobNotFound):
		h.fail(c, http.StatusNotFound, "job not found; it may have expired, search again")
	default:
		_ = c.Error(err)
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		h.fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}
