package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pharmadelivery/internal/cart/application"
)

type Handler struct {
	svc *application.CartApplicationService
}

func NewHandler(svc *application.CartApplicationService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/cart")
	g.GET("", h.GetCart)
	g.GET("/summary", h.GetSummary)
	g.POST("/items", h.AddItem)
	g.PUT("/items/:medicine_id", h.UpdateQuantity)
	g.DELETE("/items/:medicine_id", h.RemoveItem)
	g.DELETE("", h.ClearCart)
}

func userID(c *gin.Context) string {
	return c.GetString("user_id")
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": cart.UserID,
		"items":   cart.Items,
		"total":   cart.Total(),
		"count":   cart.ItemCount(),
	})
}

func (h *Handler) GetSummary(c *gin.Context) {
	ctx := c.Request.Context()
	total, err := h.svc.GetCartTotal(ctx, userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	count, err := h.svc.GetCartItemCount(ctx, userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "count": count})
}

func (h *Handler) AddItem(c *gin.Context) {
	var req struct {
		MedicineID string  `json:"medicine_id" binding:"required"`
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		Image      string  `json:"image"`
		Quantity   int     `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.AddItem(c.Request.Context(), userID(c), req.MedicineID, req.Name, req.Price, req.Image, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateQuantity(c.Request.Context(), userID(c), c.Param("medicine_id"), req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) RemoveItem(c *gin.Context) {
	if err := h.svc.RemoveItem(c.Request.Context(), userID(c), c.Param("medicine_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.svc.ClearCart(c.Request.Context(), userID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
