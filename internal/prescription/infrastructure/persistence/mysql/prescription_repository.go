package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/pharmadelivery/internal/prescription/domain"
)

type prescriptionRepository struct{ db *gorm.DB }

// NewPrescriptionRepository 创建基于 MySQL 的处方仓储
func NewPrescriptionRepository(db *gorm.DB) domain.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Save(ctx context.Context, prescription *domain.Prescription) error {
	return r.db.WithContext(ctx).Save(prescription).Error
}

func (r *prescriptionRepository) GetByPrescriptionID(ctx context.Context, prescriptionID string) (*domain.Prescription, error) {
	var prescription domain.Prescription
	err := r.db.WithContext(ctx).Where("prescription_id = ?", prescriptionID).First(&prescription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) ListByUserID(ctx context.Context, userID string, offset, limit int) ([]domain.Prescription, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), offset, limit)
}

func (r *prescriptionRepository) ListPending(ctx context.Context, offset, limit int) ([]domain.Prescription, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("status = ?", domain.StatusPending), offset, limit)
}

func (r *prescriptionRepository) list(ctx context.Context, q *gorm.DB, offset, limit int) ([]domain.Prescription, int64, error) {
	var total int64
	if err := q.Model(&domain.Prescription{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var prescriptions []domain.Prescription
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&prescriptions).Error
	if err != nil {
		return nil, 0, err
	}
	return prescriptions, total, nil
}
