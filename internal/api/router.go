package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const mcpPath = "/mcp/stream"

// SetupRouter configures the Gin engine with all routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if deps.MCP != nil {
		// streamable HTTP uses POST for requests, GET for the event stream
		// and DELETE to end a session
		mcp := gin.WrapH(deps.MCP)
		r.POST(mcpPath, mcp)
		r.GET(mcpPath, mcp)
		r.DELETE(mcpPath, mcp)
	}

	h := NewHandler(deps)

	api := r.Group("/api", IdentityMiddleware(deps.Verifier, deps.Logger))
	{
		api.GET("/me", h.Me)

		jobs := api.Group("/jobs")
		{
			jobs.GET("", h.ListJobs)
			jobs.POST("", h.CreateJob)
		}

		companies := api.Group("/companies")
		{
			companies.GET("", h.ListCompanies)
			companies.GET("/:key/jobs", h.ListCompanyJobs)
		}
	}

	return r
}
