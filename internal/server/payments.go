package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
	paymentservice "github.com/pixelpasture/unicornshop/internal/payment/service"
)

type createPaymentIntentRequest struct {
	BaseName      string                   `json:"base_name"`
	UnicornOrders []paymentdomain.LineItem `json:"unicorn_orders"`
	TotalUnicorns int                      `json:"total_unicorns"`
	TotalAmount   int64                    `json:"total_amount"`
	UserSession   string                   `json:"user_session"`
}

type createPaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	SessionID    string `json:"session_id"`
}

func (s *Server) CreatePaymentIntent(c *gin.Context) {
	if !s.limiter.Allow(c.Request.Context(), "order:"+c.ClientIP(), 1, 10) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	var req createPaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.paymentSvc.CreateOrder(c.Request.Context(), paymentservice.CreateOrderRequest{
		BaseName:      req.BaseName,
		Items:         req.UnicornOrders,
		TotalUnicorns: req.TotalUnicorns,
		TotalAmount:   req.TotalAmount,
		SessionID:     req.UserSession,
	})
	if err != nil {
		if errors.Is(err, paymentdomain.ErrAmountMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount calculation"})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, createPaymentIntentResponse{
		ClientSecret: result.ClientSecret,
		SessionID:    result.SessionID,
	})
}
