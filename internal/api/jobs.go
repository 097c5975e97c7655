package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
)

// ListJobs handles GET /api/jobs
func (h *Handler) ListJobs(c *gin.Context) {
	page, err := h.search.Jobs(c.Request.Context(), paramsFrom(c))
	if err != nil {
		h.logger.Warn("job search failed", "err", err)
		respondError(c, err)
		return
	}

	respondPage(c, http.StatusOK, page)
}

// CreateJob handles POST /api/jobs
func (h *Handler) CreateJob(c *gin.Context) {
	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil || input == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": job})
}

// paramsFrom reads q, page and limit from the query string. Page and limit
// stay raw text; the search layer normalizes them.
func paramsFrom(c *gin.Context) search.Params {
	p := search.Params{Q: c.Query("q")}
	if v, ok := c.GetQuery("page"); ok {
		p.Page = v
	}
	if v, ok := c.GetQuery("limit"); ok {
		p.Limit = v
	}
	return p
}
