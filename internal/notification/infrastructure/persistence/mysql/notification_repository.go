package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/pharmadelivery/internal/notification/domain"
)

type notificationRepository struct{ db *gorm.DB }

// NewNotificationRepository 创建基于 MySQL 的通知仓储
func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string, offset, limit int) ([]domain.Notification, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}
