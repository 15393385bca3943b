package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pharmadelivery/internal/catalog/application"
	"github.com/wyfcoding/pharmadelivery/internal/catalog/domain"
)

type Handler struct {
	svc *application.CatalogService
}

func NewHandler(svc *application.CatalogService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册公开查询路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/medicines")
	g.GET("", h.ListMedicines)
	g.GET("/search", h.SearchMedicines)
	g.GET("/:medicine_id", h.GetMedicine)
}

// RegisterAdminRoutes 注册管理路由
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/medicines")
	g.PUT("", h.UpsertMedicine)
}

func (h *Handler) ListMedicines(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	medicines, pagination, err := h.svc.ListMedicines(c.Request.Context(), c.Query("category"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"medicines": medicines, "pagination": pagination})
}

func (h *Handler) SearchMedicines(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search keyword"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	medicines, pagination, err := h.svc.SearchMedicines(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"medicines": medicines, "pagination": pagination})
}

func (h *Handler) GetMedicine(c *gin.Context) {
	medicine, err := h.svc.GetMedicine(c.Request.Context(), c.Param("medicine_id"))
	if err != nil {
		if errors.Is(err, domain.ErrMedicineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, medicine)
}

func (h *Handler) UpsertMedicine(c *gin.Context) {
	var req struct {
		MedicineID           string  `json:"medicine_id"`
		Name                 string  `json:"name" binding:"required"`
		Description          string  `json:"description"`
		Price                float64 `json:"price"`
		Image                string  `json:"image"`
		Category             string  `json:"category"`
		Manufacturer         string  `json:"manufacturer"`
		RequiresPrescription bool    `json:"requires_prescription"`
		Stock                int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.svc.UpsertMedicine(c.Request.Context(), application.UpsertMedicineCommand{
		MedicineID:           req.MedicineID,
		Name:                 req.Name,
		Description:          req.Description,
		Price:                req.Price,
		Image:                req.Image,
		Category:             req.Category,
		Manufacturer:         req.Manufacturer,
		RequiresPrescription: req.RequiresPrescription,
		Stock:                req.Stock,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"medicine_id": id})
}
