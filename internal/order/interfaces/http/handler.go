package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pharmadelivery/internal/order/application"
	"github.com/wyfcoding/pharmadelivery/internal/order/domain"
)

type Handler struct {
	svc *application.OrderApplicationService
}

func NewHandler(svc *application.OrderApplicationService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/orders")
	g.GET("", h.ListOrders)
	g.GET("/:order_no", h.GetOrder)
	g.POST("/:order_no/cancel", h.Cancel)
	g.POST("/:order_no/confirm", h.Confirm)
	g.POST("/:order_no/dispatch", h.StartDelivery)
	g.POST("/:order_no/delivered", h.MarkDelivered)
}

func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, pagination, err := h.svc.ListOrders(c.Request.Context(), c.GetString("user_id"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "pagination": pagination})
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.Cancel(c.Request.Context(), c.Param("order_no"), req.Reason); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *Handler) Confirm(c *gin.Context) {
	if err := h.svc.Confirm(c.Request.Context(), c.Param("order_no")); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

func (h *Handler) StartDelivery(c *gin.Context) {
	if err := h.svc.StartDelivery(c.Request.Context(), c.Param("order_no")); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "out_for_delivery"})
}

func (h *Handler) MarkDelivered(c *gin.Context) {
	if err := h.svc.MarkDelivered(c.Request.Context(), c.Param("order_no")); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "delivered"})
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
