package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pharmadelivery/internal/prescription/application"
	"github.com/wyfcoding/pharmadelivery/internal/prescription/domain"
)

type Handler struct {
	svc         *application.PrescriptionService
	maxFileSize int64
}

func NewHandler(svc *application.PrescriptionService, maxFileSizeMB int) *Handler {
	return &Handler{svc: svc, maxFileSize: int64(maxFileSizeMB) << 20}
}

// RegisterRoutes 注册需认证路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/prescriptions")
	g.POST("", h.Upload)
	g.GET("", h.ListMine)
	g.GET("/:prescription_id", h.Get)
}

// RegisterAdminRoutes 注册药剂师审核路由
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	g := r.Group("/v1/prescriptions")
	g.GET("/pending", h.ListPending)
	g.POST("/:prescription_id/approve", h.Approve)
	g.POST("/:prescription_id/reject", h.Reject)
}

func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing prescription file"})
		return
	}
	if file.Size > h.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "prescription file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	id, err := h.svc.Upload(c.Request.Context(), application.UploadCommand{
		UserID:   c.GetString("user_id"),
		FileName: file.Filename,
		Note:     c.PostForm("note"),
		Content:  src,
	})
	if err != nil {
		if errors.Is(err, application.ErrUnsupportedFileType) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prescription_id": id, "status": domain.StatusPending})
}

func (h *Handler) Get(c *gin.Context) {
	prescription, err := h.svc.Get(c.Request.Context(), c.Param("prescription_id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, prescription)
}

func (h *Handler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	prescriptions, pagination, err := h.svc.ListByUser(c.Request.Context(), c.GetString("user_id"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": prescriptions, "pagination": pagination})
}

func (h *Handler) ListPending(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	prescriptions, pagination, err := h.svc.ListPending(c.Request.Context(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": prescriptions, "pagination": pagination})
}

func (h *Handler) Approve(c *gin.Context) {
	h.review(c, h.svc.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.review(c, h.svc.Reject)
}

func (h *Handler) review(c *gin.Context, apply func(ctx context.Context, id, note string) error) {
	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := apply(c.Request.Context(), c.Param("prescription_id"), req.Note); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reviewed"})
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrPrescriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
