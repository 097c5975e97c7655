package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
)

// Me handles GET /api/me
func (h *Handler) Me(c *gin.Context) {
	id, err := auth.ResolveIdentity(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":      id.ID,
			"role":    id.Role,
			"landing": auth.Landing(id),
		},
	})
}
