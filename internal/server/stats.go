package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetStats recomputes the aggregates from storage rather than serving the
// latest snapshot, so the numbers a reader sees always include batches
// whose snapshot write failed.
func (s *Server) GetStats(c *gin.Context) {
	totals, err := s.statsSvc.Totals(c.Request.Context())
	if err != nil {
		s.log.Error("stats totals failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
