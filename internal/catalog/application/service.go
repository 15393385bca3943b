package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/wyfcoding/pharmadelivery/internal/catalog/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

// MedicineCache 药品读缓存，未命中返回 (nil, nil)
type MedicineCache interface {
	Get(ctx context.Context, medicineID string) (*domain.Medicine, error)
	Set(ctx context.Context, medicine *domain.Medicine) error
	Invalidate(ctx context.Context, medicineID string) error
}

// UpsertMedicineCommand 创建或更新药品命令
type UpsertMedicineCommand struct {
	MedicineID           string
	Name                 string
	Description          string
	Price                float64
	Image                string
	Category             string
	Manufacturer         string
	RequiresPrescription bool
	Stock                int
}

// CatalogService 药品目录服务
type CatalogService struct {
	repo  domain.MedicineRepository
	cache MedicineCache
}

// NewCatalogService 创建药品目录服务实例
func NewCatalogService(repo domain.MedicineRepository, cache MedicineCache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

// UpsertMedicine 创建或更新药品，返回 medicine_id
func (s *CatalogService) UpsertMedicine(ctx context.Context, cmd UpsertMedicineCommand) (string, error) {
	var medicine *domain.Medicine
	if cmd.MedicineID == "" {
		medicine = &domain.Medicine{MedicineID: uuid.New().String()}
	} else {
		existing, err := s.repo.GetByMedicineID(ctx, cmd.MedicineID)
		if err != nil && err != domain.ErrMedicineNotFound {
			return "", err
		}
		if existing != nil {
			medicine = existing
		} else {
			medicine = &domain.Medicine{MedicineID: cmd.MedicineID}
		}
	}

	medicine.Name = cmd.Name
	medicine.Description = cmd.Description
	medicine.Price = cmd.Price
	medicine.Image = cmd.Image
	medicine.Category = cmd.Category
	medicine.Manufacturer = cmd.Manufacturer
	medicine.RequiresPrescription = cmd.RequiresPrescription
	medicine.Stock = cmd.Stock

	if err := s.repo.Save(ctx, medicine); err != nil {
		return "", err
	}
	if err := s.cache.Invalidate(ctx, medicine.MedicineID); err != nil {
		logger.Warn(ctx, "failed to invalidate medicine cache", "medicine_id", medicine.MedicineID, "error", err)
	}
	return medicine.MedicineID, nil
}

// GetMedicine 按 ID 查询药品，读缓存优先
func (s *CatalogService) GetMedicine(ctx context.Context, medicineID string) (*domain.Medicine, error) {
	if cached, err := s.cache.Get(ctx, medicineID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		logger.Warn(ctx, "medicine cache read failed", "medicine_id", medicineID, "error", err)
	}

	medicine, err := s.repo.GetByMedicineID(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if cacheErr := s.cache.Set(ctx, medicine); cacheErr != nil {
		logger.Warn(ctx, "failed to cache medicine", "medicine_id", medicineID, "error", cacheErr)
	}
	return medicine, nil
}

// ListMedicines 按分类分页列出药品
func (s *CatalogService) ListMedicines(ctx context.Context, category string, page, pageSize int) ([]domain.Medicine, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	medicines, total, err := s.repo.List(ctx, category, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return medicines, utils.NewPagination(page, pageSize, total), nil
}

// SearchMedicines 按名称模糊查询药品
func (s *CatalogService) SearchMedicines(ctx context.Context, keyword string, page, pageSize int) ([]domain.Medicine, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	medicines, total, err := s.repo.Search(ctx, keyword, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return medicines, utils.NewPagination(page, pageSize, total), nil
}
