package application

import (
	"context"
	"time"

	"gorm.io/gorm"

	checkoutdomain "github.com/wyfcoding/pharmadelivery/internal/checkout/domain"
	"github.com/wyfcoding/pharmadelivery/internal/order/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

// TxRunner 事务执行器
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderCache 订单读缓存，未命中返回 (nil, nil)
type OrderCache interface {
	Get(ctx context.Context, orderNo string) (*domain.Order, error)
	Set(ctx context.Context, order *domain.Order) error
	Invalidate(ctx context.Context, orderNo string) error
}

// OrderCommandService 订单命令服务
// 订单写入与事件暂存共用一个事务，事件由 outbox relay 异步投递
type OrderCommandService struct {
	tx     TxRunner
	repo   domain.OrderRepository
	outbox domain.EventOutbox
	cache  OrderCache
	idgen  *utils.SnowflakeID
}

// NewOrderCommandService 创建订单命令服务实例
func NewOrderCommandService(
	tx TxRunner,
	repo domain.OrderRepository,
	outbox domain.EventOutbox,
	cache OrderCache,
	idgen *utils.SnowflakeID,
) *OrderCommandService {
	return &OrderCommandService{
		tx:     tx,
		repo:   repo,
		outbox: outbox,
		cache:  cache,
		idgen:  idgen,
	}
}

// PlaceOrder 从结算载荷创建订单，返回订单号
func (s *OrderCommandService) PlaceOrder(ctx context.Context, payload checkoutdomain.OrderPayload) (string, error) {
	items := make([]domain.OrderItem, 0, len(payload.Items))
	for _, li := range payload.Items {
		items = append(items, domain.OrderItem{
			MedicineID: li.MedicineID,
			Name:       li.Name,
			Price:      li.Price,
			Quantity:   li.Quantity,
		})
	}

	order := &domain.Order{
		OrderNo:         "PD" + s.idgen.GenerateString(),
		UserID:          payload.UserID,
		Items:           items,
		Subtotal:        payload.Subtotal,
		DeliveryFee:     payload.DeliveryFee,
		Total:           payload.Total,
		ShippingAddress: payload.ShippingAddress,
		DeliveryDate:    payload.DeliveryDate,
		DeliveryTime:    payload.DeliveryTime,
		PaymentMethod:   payload.PaymentMethod,
		Status:          domain.StatusPlaced,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, order); err != nil {
			return err
		}
		event := domain.OrderPlacedEvent{
			OrderNo:         order.OrderNo,
			UserID:          order.UserID,
			Total:           order.Total.String(),
			PaymentMethod:   order.PaymentMethod,
			ShippingAddress: order.ShippingAddress,
			DeliveryDate:    order.DeliveryDate,
			DeliveryTime:    order.DeliveryTime,
			ItemCount:       len(order.Items),
			OccurredOn:      time.Now(),
		}
		return s.outbox.EnqueueInTx(tx, domain.OrderPlacedTopic, order.UserID, event)
	})
	if err != nil {
		return "", err
	}

	if cacheErr := s.cache.Set(ctx, order); cacheErr != nil {
		logger.Warn(ctx, "failed to cache order", "order_no", order.OrderNo, "error", cacheErr)
	}
	return order.OrderNo, nil
}

// Confirm 药房确认订单
func (s *OrderCommandService) Confirm(ctx context.Context, orderNo string) error {
	return s.transition(ctx, orderNo, (*domain.Order).Confirm)
}

// StartDelivery 开始配送
func (s *OrderCommandService) StartDelivery(ctx context.Context, orderNo string) error {
	return s.transition(ctx, orderNo, (*domain.Order).StartDelivery)
}

// MarkDelivered 确认送达
func (s *OrderCommandService) MarkDelivered(ctx context.Context, orderNo string) error {
	return s.transition(ctx, orderNo, (*domain.Order).MarkDelivered)
}

// Cancel 取消订单
func (s *OrderCommandService) Cancel(ctx context.Context, orderNo, reason string) error {
	order, err := s.repo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return err
	}
	if err := order.Cancel(); err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, order); err != nil {
			return err
		}
		event := domain.OrderCancelledEvent{
			OrderNo:    order.OrderNo,
			UserID:     order.UserID,
			Reason:     reason,
			OccurredOn: time.Now(),
		}
		return s.outbox.EnqueueInTx(tx, domain.OrderCancelledTopic, order.UserID, event)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, orderNo)
	return nil
}

func (s *OrderCommandService) transition(ctx context.Context, orderNo string, apply func(*domain.Order) error) error {
	order, err := s.repo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return err
	}
	from := order.Status
	if err := apply(order); err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, order); err != nil {
			return err
		}
		event := domain.OrderStatusChangedEvent{
			OrderNo:    order.OrderNo,
			UserID:     order.UserID,
			From:       from,
			To:         order.Status,
			OccurredOn: time.Now(),
		}
		return s.outbox.EnqueueInTx(tx, domain.OrderStatusChangedTopic, order.UserID, event)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, orderNo)
	return nil
}

func (s *OrderCommandService) invalidate(ctx context.Context, orderNo string) {
	if err := s.cache.Invalidate(ctx, orderNo); err != nil {
		logger.Warn(ctx, "failed to invalidate order cache", "order_no", orderNo, "error", err)
	}
}
