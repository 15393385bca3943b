package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/wyfcoding/pharmadelivery/internal/order/domain"
)

// OrderCache 订单读缓存，按订单号缓存 JSON 快照
type OrderCache struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewOrderCache(client goredis.UniversalClient) *OrderCache {
	return &OrderCache{
		client: client,
		prefix: "order:",
		ttl:    15 * time.Minute,
	}
}

func (c *OrderCache) Set(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return nil
	}
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	return c.client.Set(ctx, c.key(order.OrderNo), data, c.ttl).Err()
}

// Get 缓存未命中时返回 (nil, nil)
func (c *OrderCache) Get(ctx context.Context, orderNo string) (*domain.Order, error) {
	if orderNo == "" {
		return nil, nil
	}
	data, err := c.client.Get(ctx, c.key(orderNo)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get order from redis: %w", err)
	}
	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &order, nil
}

func (c *OrderCache) Invalidate(ctx context.Context, orderNo string) error {
	return c.client.Del(ctx, c.key(orderNo)).Err()
}

func (c *OrderCache) key(orderNo string) string {
	return c.prefix + orderNo
}
