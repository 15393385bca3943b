package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pharmadelivery/internal/checkout/application"
	"github.com/wyfcoding/pharmadelivery/internal/checkout/domain"
)

type Handler struct {
	svc *application.CheckoutService
}

func NewHandler(svc *application.CheckoutService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/checkout")
	g.GET("/quote", h.GetQuote)
	g.POST("/submit", h.Submit)
}

func (h *Handler) GetQuote(c *gin.Context) {
	quote, err := h.svc.GetQuote(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) Submit(c *gin.Context) {
	var req domain.DeliveryDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Submit(c.Request.Context(), c.GetString("user_id"), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, res)
	case errors.Is(err, domain.ErrInvalidCart),
		errors.Is(err, domain.ErrIncompleteDeliveryDetails):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderSubmission):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "state": res.State})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
