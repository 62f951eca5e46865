package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	unicorndomain "github.com/pixelpasture/unicornshop/internal/unicorn/domain"
	"go.uber.org/zap"
)

// ListUnits returns every fulfilled unicorn in creation order.
func (s *Server) ListUnits(c *gin.Context) {
	unicorns, err := s.unicornRepo.ListAll(c.Request.Context(), s.db)
	if err != nil {
		s.log.Error("list units failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}
	if unicorns == nil {
		unicorns = []unicorndomain.Unicorn{}
	}
	c.JSON(http.StatusOK, gin.H{
		"units": unicorns,
		"count": len(unicorns),
	})
}

// ListUnitsBySession filters unicorns by the purchaser session. An unknown
// session is an empty list, not a 404: the caller cannot tell a session
// with no purchases from one that never existed, and should not need to.
func (s *Server) ListUnitsBySession(c *gin.Context) {
	sessionID := c.Param("session")
	unicorns, err := s.unicornRepo.ListBySession(c.Request.Context(), s.db, sessionID)
	if err != nil {
		s.log.Error("list units by session failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		AbortWithError(c, err)
		return
	}
	if unicorns == nil {
		unicorns = []unicorndomain.Unicorn{}
	}
	c.JSON(http.StatusOK, gin.H{
		"units":   unicorns,
		"count":   len(unicorns),
		"session": sessionID,
	})
}
