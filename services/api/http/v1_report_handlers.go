package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleListReports returns the artifact metadata and report names.
// GET /api/v1/reports
func (s *Server) handleListReports(c *gin.Context) {
	art, err := s.artifacts.Get()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "artifact not available: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metadata": art.Metadata,
		"reports":  art.ReportNames(),
	})
}

// handleGetReport returns one report's precomputed rows verbatim, with
// optional limit/offset pagination.
// GET /api/v1/reports/:name
func (s *Server) handleGetReport(c *gin.Context) {
	name := c.Param("name")

	art, err := s.artifacts.Get()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "artifact not available: " + err.Error()})
		return
	}

	rows, ok := art.Results[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown report: " + name})
		return
	}

	total := len(rows)

	offset := 0
	if v := c.Query("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		offset = parsed
	}

	limit := s.cfg.DefaultLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"report": name,
		"total":  total,
		"offset": offset,
		"count":  end - offset,
		"rows":   rows[offset:end],
	})
}

// handleOverview is a shortcut for the overview report's rows.
// GET /api/v1/overview
func (s *Server) handleOverview(c *gin.Context) {
	art, err := s.artifacts.Get()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "artifact not available: " + err.Error()})
		return
	}

	rows, ok := art.Results["overview"]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "overview report not present in artifact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generated_at": art.Metadata.GeneratedAt,
		"rows":         rows,
	})
}
