package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up the v1 API structure.
// Groups: /api/v1/reports, /api/v1/stations
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")

	reports := v1.Group("/reports")
	{
		reports.GET("", s.handleListReports)
		reports.GET("/:name", s.handleGetReport)
	}

	v1.GET("/overview", s.handleOverview)

	stations := v1.Group("/stations")
	{
		stations.GET("", s.handleListStations)
		stations.GET("/:id", s.handleGetStation)
	}
}
