package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPublicConfig exposes the pricing and palette the storefront needs to
// render an order form. Nothing secret leaves this handler.
func (s *Server) GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"unit_price": s.cfg.UnitPrice,
		"currency":   s.cfg.Currency,
		"palette":    s.catalog.Get().Palette,
	})
}
