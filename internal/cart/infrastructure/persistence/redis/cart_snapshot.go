package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wyfcoding/pharmadelivery/internal/cart/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/cache"
)

const (
	snapshotKeyPrefix = "cart:"
	snapshotTTL       = 30 * 24 * time.Hour
)

type cartSnapshotStore struct {
	cache *cache.RedisCache
}

// NewCartSnapshotStore 创建基于 Redis 的购物车快照存储
// 每个用户一个固定 key，整体覆盖写入序列化的行项目
func NewCartSnapshotStore(c *cache.RedisCache) domain.SnapshotStore {
	return &cartSnapshotStore{cache: c}
}

func (s *cartSnapshotStore) key(userID string) string {
	return snapshotKeyPrefix + userID
}

func (s *cartSnapshotStore) Load(ctx context.Context, userID string) ([]domain.LineItem, bool, error) {
	raw, err := s.cache.Get(ctx, s.key(userID))
	if err != nil {
		return nil, false, fmt.Errorf("load cart snapshot: %w", err)
	}
	if raw == "" {
		return nil, false, nil
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("unmarshal cart snapshot: %w", err)
	}
	return items, true, nil
}

func (s *cartSnapshotStore) Store(ctx context.Context, userID string, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}
	return s.cache.Set(ctx, s.key(userID), string(data), snapshotTTL)
}

func (s *cartSnapshotStore) Drop(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, s.key(userID))
}
