package application

import (
	"context"

	checkoutdomain "github.com/wyfcoding/pharmadelivery/internal/checkout/domain"
	"github.com/wyfcoding/pharmadelivery/internal/order/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

// OrderApplicationService 订单服务门面，整合命令服务和查询服务
// 同时实现结算模块的 OrderPlacer 协作接口
type OrderApplicationService struct {
	commandService *OrderCommandService
	queryService   *OrderQueryService
}

// NewOrderApplicationService 创建订单服务门面实例
func NewOrderApplicationService(
	tx TxRunner,
	repo domain.OrderRepository,
	outbox domain.EventOutbox,
	cache OrderCache,
	idgen *utils.SnowflakeID,
) *OrderApplicationService {
	return &OrderApplicationService{
		commandService: NewOrderCommandService(tx, repo, outbox, cache, idgen),
		queryService:   NewOrderQueryService(repo, cache),
	}
}

// PlaceOrder 从结算载荷创建订单
func (s *OrderApplicationService) PlaceOrder(ctx context.Context, payload checkoutdomain.OrderPayload) (string, error) {
	return s.commandService.PlaceOrder(ctx, payload)
}

// GetOrder 按订单号查询订单
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderNo string) (*domain.Order, error) {
	return s.queryService.GetOrder(ctx, orderNo)
}

// ListOrders 按用户分页查询订单历史
func (s *OrderApplicationService) ListOrders(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, *utils.Pagination, error) {
	return s.queryService.ListOrders(ctx, userID, page, pageSize)
}

// Confirm 药房确认订单
func (s *OrderApplicationService) Confirm(ctx context.Context, orderNo string) error {
	return s.commandService.Confirm(ctx, orderNo)
}

// StartDelivery 开始配送
func (s *OrderApplicationService) StartDelivery(ctx context.Context, orderNo string) error {
	return s.commandService.StartDelivery(ctx, orderNo)
}

// MarkDelivered 确认送达
func (s *OrderApplicationService) MarkDelivered(ctx context.Context, orderNo string) error {
	return s.commandService.MarkDelivered(ctx, orderNo)
}

// Cancel 取消订单
func (s *OrderApplicationService) Cancel(ctx context.Context, orderNo, reason string) error {
	return s.commandService.Cancel(ctx, orderNo, reason)
}
