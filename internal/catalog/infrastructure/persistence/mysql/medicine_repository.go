package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/pharmadelivery/internal/catalog/domain"
)

type medicineRepository struct{ db *gorm.DB }

// NewMedicineRepository 创建基于 MySQL 的药品仓储
func NewMedicineRepository(db *gorm.DB) domain.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Save(ctx context.Context, medicine *domain.Medicine) error {
	return r.db.WithContext(ctx).Save(medicine).Error
}

func (r *medicineRepository) GetByMedicineID(ctx context.Context, medicineID string) (*domain.Medicine, error) {
	var medicine domain.Medicine
	err := r.db.WithContext(ctx).Where("medicine_id = ?", medicineID).First(&medicine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMedicineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &medicine, nil
}

func (r *medicineRepository) List(ctx context.Context, category string, offset, limit int) ([]domain.Medicine, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Medicine{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var medicines []domain.Medicine
	if err := q.Order("name").Offset(offset).Limit(limit).Find(&medicines).Error; err != nil {
		return nil, 0, err
	}
	return medicines, total, nil
}

func (r *medicineRepository) Search(ctx context.Context, keyword string, offset, limit int) ([]domain.Medicine, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Medicine{}).
		Where("name LIKE ?", "%"+keyword+"%")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var medicines []domain.Medicine
	if err := q.Order("name").Offset(offset).Limit(limit).Find(&medicines).Error; err != nil {
		return nil, 0, err
	}
	return medicines, total, nil
}
