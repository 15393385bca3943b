package domain

import (
	"context"
	"time"
)

// 购物车事件主题
const (
	CartItemAddedTopic       = "cart.item.added"
	CartItemRemovedTopic     = "cart.item.removed"
	CartQuantityChangedTopic = "cart.quantity.changed"
	CartClearedTopic         = "cart.cleared"
)

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// CartItemAddedEvent 购物车添加商品事件
type CartItemAddedEvent struct {
	UserID     string    `json:"user_id"`
	MedicineID string    `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
	Price      float64   `json:"price"`
	Timestamp  time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车移除商品事件
type CartItemRemovedEvent struct {
	UserID     string    `json:"user_id"`
	MedicineID string    `json:"medicine_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// CartQuantityChangedEvent 购物车数量变更事件
type CartQuantityChangedEvent struct {
	UserID     string    `json:"user_id"`
	MedicineID string    `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
	Timestamp  time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}
