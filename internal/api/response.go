package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
)

// respondError writes {error: message} with the status mapped from err
func respondError(c *gin.Context, err error) {
	c.JSON(domain.HTTPStatus(err), gin.H{"error": err.Error()})
}

// respondPage writes the uniform search envelope
func respondPage(c *gin.Context, status int, page domain.Page) {
	if page.Data == nil {
		page.Data = []domain.Record{}
	}
	c.JSON(status, page)
}
