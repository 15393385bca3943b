package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/pharmadelivery/internal/catalog/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/cache"
)

const (
	medicineKeyPrefix = "medicine:"
	medicineTTL       = time.Hour
)

// MedicineCache 药品详情读缓存
type MedicineCache struct {
	cache *cache.RedisCache
}

func NewMedicineCache(c *cache.RedisCache) *MedicineCache {
	return &MedicineCache{cache: c}
}

// Get 缓存未命中时返回 (nil, nil)
func (c *MedicineCache) Get(ctx context.Context, medicineID string) (*domain.Medicine, error) {
	var medicine domain.Medicine
	hit, err := c.cache.GetJSON(ctx, medicineKeyPrefix+medicineID, &medicine)
	if err != nil || !hit {
		return nil, err
	}
	return &medicine, nil
}

func (c *MedicineCache) Set(ctx context.Context, medicine *domain.Medicine) error {
	if medicine == nil {
		return nil
	}
	return c.cache.SetJSON(ctx, medicineKeyPrefix+medicine.MedicineID, medicine, medicineTTL)
}

func (c *MedicineCache) Invalidate(ctx context.Context, medicineID string) error {
	return c.cache.Delete(ctx, medicineKeyPrefix+medicineID)
}
