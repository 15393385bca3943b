package domain

import (
	"context"
	"errors"
)

// ErrCartNotFound 购物车不存在
var ErrCartNotFound = errors.New("cart not found")

// CartRepository 购物车规范仓储接口
type CartRepository interface {
	// GetByUserID 获取用户购物车，不存在时返回 ErrCartNotFound
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	// Save 保存购物车（含行项目）
	Save(ctx context.Context, cart *Cart) error
	// Delete 删除用户购物车及其行项目
	Delete(ctx context.Context, userID string) error
}

// SnapshotStore 购物车快照存储
// 以固定 key 整体覆盖写入序列化的行项目，用于跨会话快速重建
type SnapshotStore interface {
	// Load 读取快照；快照不存在时返回 (nil, false, nil)，
	// 快照损坏时返回错误（调用方按空快照降级处理）
	Load(ctx context.Context, userID string) ([]LineItem, bool, error)
	// Store 整体覆盖写入快照
	Store(ctx context.Context, userID string, items []LineItem) error
	// Drop 删除快照
	Drop(ctx context.Context, userID string) error
}
