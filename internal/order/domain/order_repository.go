package domain

import (
	"context"

	"gorm.io/gorm"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 在事务中创建订单
	Create(ctx context.Context, tx *gorm.DB, order *Order) error
	// Update 在事务中保存订单变更
	Update(ctx context.Context, tx *gorm.DB, order *Order) error
	// GetByOrderNo 按订单号查询，不存在时返回 ErrOrderNotFound
	GetByOrderNo(ctx context.Context, orderNo string) (*Order, error)
	// ListByUserID 按用户分页查询，按创建时间倒序
	ListByUserID(ctx context.Context, userID string, offset, limit int) ([]Order, int64, error)
}

// EventOutbox 事务性事件暂存，与业务写入同一事务提交
type EventOutbox interface {
	EnqueueInTx(tx *gorm.DB, topic, key string, event any) error
}
