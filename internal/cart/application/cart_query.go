package application

import (
	"context"
	"errors"

	"github.com/wyfcoding/pharmadelivery/internal/cart/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
)

// CartQueryService 购物车查询服务
// 规范存储未命中时用快照重建，快照损坏时按空购物车降级
type CartQueryService struct {
	repo      domain.CartRepository
	snapshots domain.SnapshotStore
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(
	repo domain.CartRepository,
	snapshots domain.SnapshotStore,
) *CartQueryService {
	return &CartQueryService{
		repo:      repo,
		snapshots: snapshots,
	}
}

// GetCart 根据用户ID获取购物车信息
func (s *CartQueryService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, err
	}

	cart = &domain.Cart{UserID: userID}
	items, ok, snapErr := s.snapshots.Load(ctx, userID)
	if snapErr != nil {
		logger.Warn(ctx, "cart snapshot unreadable, starting empty", "user_id", userID, "error", snapErr)
		return cart, nil
	}
	if ok {
		cart.Hydrate(items)
	}
	return cart, nil
}

// GetCartTotal 获取购物车总金额
func (s *CartQueryService) GetCartTotal(ctx context.Context, userID string) (float64, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cart.Total(), nil
}

// GetCartItemCount 获取购物车商品总件数
func (s *CartQueryService) GetCartItemCount(ctx context.Context, userID string) (int, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}
