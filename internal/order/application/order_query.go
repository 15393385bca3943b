package application

import (
	"context"

	"github.com/wyfcoding/pharmadelivery/internal/order/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

// OrderQueryService 订单查询服务，单笔查询走读缓存
type OrderQueryService struct {
	repo  domain.OrderRepository
	cache OrderCache
}

// NewOrderQueryService 创建订单查询服务实例
func NewOrderQueryService(repo domain.OrderRepository, cache OrderCache) *OrderQueryService {
	return &OrderQueryService{repo: repo, cache: cache}
}

// GetOrder 按订单号查询订单
func (s *OrderQueryService) GetOrder(ctx context.Context, orderNo string) (*domain.Order, error) {
	if cached, err := s.cache.Get(ctx, orderNo); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		logger.Warn(ctx, "order cache read failed", "order_no", orderNo, "error", err)
	}

	order, err := s.repo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if cacheErr := s.cache.Set(ctx, order); cacheErr != nil {
		logger.Warn(ctx, "failed to cache order", "order_no", orderNo, "error", cacheErr)
	}
	return order, nil
}

// ListOrders 按用户分页查询订单历史
func (s *OrderQueryService) ListOrders(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, *utils.Pagination, error) {
	p := utils.NewPagination(page, pageSize, 0)
	orders, total, err := s.repo.ListByUserID(ctx, userID, p.Offset(), p.Limit())
	if err != nil {
		return nil, nil, err
	}
	return orders, utils.NewPagination(page, pageSize, total), nil
}
