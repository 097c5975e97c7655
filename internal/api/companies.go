package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ziljnk/ai-job-seeker/internal/domain/search"
)

// ListCompanies handles GET /api/companies
func (h *Handler) ListCompanies(c *gin.Context) {
	page, err := h.search.Companies(c.Request.Context(), search.CompanyParams{
		Params:   paramsFrom(c),
		Industry: c.Query("industry"),
		Location: c.Query("location"),
	})
	if err != nil {
		h.logger.Warn("company search failed", "err", err)
		respondError(c, err)
		return
	}

	respondPage(c, http.StatusOK, page)
}

// ListCompanyJobs handles GET /api/companies/:key/jobs, key being a company
// id or name
func (h *Handler) ListCompanyJobs(c *gin.Context) {
	page, err := h.search.CompanyJobs(c.Request.Context(), c.Param("key"), paramsFrom(c))
	if err != nil {
		h.logger.Warn("company jobs search failed", "key", c.Param("key"), "err", err)
		respondError(c, err)
		return
	}

	respondPage(c, http.StatusOK, page)
}
