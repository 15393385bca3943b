package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/pharmadelivery/internal/cart/domain"
	"gorm.io/gorm"
)

type cartRepository struct{ db *gorm.DB }

// NewCartRepository 创建基于 MySQL 的购物车仓储
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(cart).Error; err != nil {
			return err
		}
		// FullSaveAssociations 不会删除已从聚合中移除的行，这里按保留集清理
		keep := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			keep = append(keep, item.MedicineID)
		}
		q := tx.Where("cart_id = ?", cart.ID)
		if len(keep) > 0 {
			q = q.Where("medicine_id NOT IN ?", keep)
		}
		return q.Delete(&domain.LineItem{}).Error
	})
}

func (r *cartRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart domain.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCartNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
}
