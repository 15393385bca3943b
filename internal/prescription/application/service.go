package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/pharmadelivery/internal/prescription/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

// 允许的处方文件扩展名
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// ErrUnsupportedFileType 不支持的文件类型
var ErrUnsupportedFileType = fmt.Errorf("unsupported prescription file type")

// UploadCommand 上传处方命令
type UploadCommand struct {
	UserID   string
	FileName string
	Note     string
	Content  io.Reader
}

// PrescriptionService 处方服务：上传、查询与药剂师审核
type PrescriptionService struct {
	repo       domain.PrescriptionRepository
	publisher  domain.EventPublisher
	uploadsDir string
}

// NewPrescriptionService 创建处方服务实例
func NewPrescriptionService(repo domain.PrescriptionRepository, publisher domain.EventPublisher, uploadsDir string) *PrescriptionService {
	return &PrescriptionService{repo: repo, publisher: publisher, uploadsDir: uploadsDir}
}

// Upload 保存处方文件并创建待审核记录，返回 prescription_id
func (s *PrescriptionService) Upload(ctx context.Context, cmd UploadCommand) (string, error) {
	ext := strings.ToLower(filepath.Ext(cmd.FileName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	prescriptionID := uuid.New().String()
	storedName := prescriptionID + ext
	storedPath := filepath.Join(s.uploadsDir, storedName)

	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	out, err := os.Create(storedPath)
	if err != nil {
		return "", fmt.Errorf("create prescription file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, cmd.Content); err != nil {
		os.Remove(storedPath)
		return "", fmt.Errorf("write prescription file: %w", err)
	}

	prescription := &domain.Prescription{
		PrescriptionID: prescriptionID,
		UserID:         cmd.UserID,
		FileName:       cmd.FileName,
		FilePath:       storedPath,
		Note:           cmd.Note,
		Status:         domain.StatusPending,
	}
	if err := s.repo.Save(ctx, prescription); err != nil {
		os.Remove(storedPath)
		return "", err
	}
	return prescriptionID, nil
}

// Get 查询处方
func (s *PrescriptionService) Get(ctx context.Context, prescriptionID string) (*domain.Prescription, error) {
	return s.repo.GetByPrescriptionID(ctx, prescriptionID)
}

// ListByUser 按用户分页查询处方
func (s *PrescriptionService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Prescription, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	prescriptions, total, err := s.repo.ListByUserID(ctx, userID, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return prescriptions, utils.NewPagination(page, pageSize, total), nil
}

// ListPending 待审核队列
func (s *PrescriptionService) ListPending(ctx context.Context, page, pageSize int) ([]domain.Prescription, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	prescriptions, total, err := s.repo.ListPending(ctx, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return prescriptions, utils.NewPagination(page, pageSize, total), nil
}

// Approve 审核通过
func (s *PrescriptionService) Approve(ctx context.Context, prescriptionID, note string) error {
	return s.review(ctx, prescriptionID, note, (*domain.Prescription).Approve)
}

// Reject 审核驳回
func (s *PrescriptionService) Reject(ctx context.Context, prescriptionID, note string) error {
	return s.review(ctx, prescriptionID, note, (*domain.Prescription).Reject)
}

func (s *PrescriptionService) review(ctx context.Context, prescriptionID, note string, apply func(*domain.Prescription, string) error) error {
	prescription, err := s.repo.GetByPrescriptionID(ctx, prescriptionID)
	if err != nil {
		return err
	}
	if err := apply(prescription, note); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, prescription); err != nil {
		return err
	}

	event := domain.PrescriptionStatusChangedEvent{
		PrescriptionID: prescription.PrescriptionID,
		UserID:         prescription.UserID,
		Status:         prescription.Status,
		ReviewerNote:   prescription.ReviewerNote,
		Timestamp:      time.Now(),
	}
	if err := s.publisher.Publish(ctx, domain.PrescriptionStatusChangedTopic, prescription.UserID, event); err != nil {
		logger.Warn(ctx, "failed to publish prescription status event",
			"prescription_id", prescription.PrescriptionID, "error", err)
	}
	return nil
}
