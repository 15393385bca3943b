package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	cartapp "github.com/wyfcoding/pharmadelivery/internal/cart/application"
	"github.com/wyfcoding/pharmadelivery/internal/checkout/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/logger"
	"github.com/wyfcoding/pharmadelivery/pkg/metrics"
)

// OrderPlacer 下游订单创建协作方
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, payload domain.OrderPayload) (orderID string, err error)
}

// Quote 结算报价
type Quote struct {
	Items       int             `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// SubmissionResult 提交结果
type SubmissionResult struct {
	OrderID string                 `json:"order_id"`
	State   domain.SubmissionState `json:"state"`
	Total   decimal.Decimal        `json:"total"`
}

// CheckoutService 结算服务
// 提交按用户串行：同一用户在途提交存在时立即拒绝，
// 成功后清空购物车，失败时购物车保持原样
type CheckoutService struct {
	cart    *cartapp.CartApplicationService
	orders  OrderPlacer
	metrics *metrics.Metrics

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCheckoutService 创建结算服务实例
func NewCheckoutService(cart *cartapp.CartApplicationService, orders OrderPlacer, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		orders:   orders,
		metrics:  m,
		inflight: make(map[string]struct{}),
	}
}

// GetQuote 计算当前购物车的结算金额
func (s *CheckoutService) GetQuote(ctx context.Context, userID string) (*Quote, error) {
	cart, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Items:       cart.ItemCount(),
		Subtotal:    domain.Subtotal(cart.Items),
		DeliveryFee: domain.DeliverySurcharge,
		Total:       domain.Total(cart.Items),
	}, nil
}

// Submit 提交结算：校验 → 构建载荷 → 下单 → 清空购物车
func (s *CheckoutService) Submit(ctx context.Context, userID string, details domain.DeliveryDetails) (*SubmissionResult, error) {
	if !s.acquire(userID) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer s.release(userID)

	if s.metrics != nil {
		s.metrics.CheckoutInFlight.Inc()
		defer s.metrics.CheckoutInFlight.Dec()
	}

	// VALIDATING
	cart, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCart(cart.Items); err != nil {
		return nil, err
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}

	// SUBMITTING
	payload := domain.BuildOrderPayload(userID, cart.Items, details, time.Now())
	orderID, err := s.orders.PlaceOrder(ctx, payload)
	if err != nil {
		// 失败时购物车保持原样，允许用户修正后重试
		logger.Error(ctx, "order placement failed", "user_id", userID, "error", err)
		if s.metrics != nil {
			s.metrics.OrdersFailedTotal.Inc()
		}
		return &SubmissionResult{State: domain.StateFailed, Total: payload.Total},
			fmt.Errorf("%w: %v", domain.ErrOrderSubmission, err)
	}

	if s.metrics != nil {
		s.metrics.OrdersPlacedTotal.Inc()
	}
	if err := s.cart.ClearCart(ctx, userID); err != nil {
		// 订单已创建，清空失败只记日志
		logger.Warn(ctx, "failed to clear cart after checkout", "user_id", userID, "order_id", orderID, "error", err)
	}

	return &SubmissionResult{
		OrderID: orderID,
		State:   domain.StateSucceeded,
		Total:   payload.Total,
	}, nil
}

func (s *CheckoutService) acquire(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[userID]; busy {
		return false
	}
	s.inflight[userID] = struct{}{}
	return true
}

func (s *CheckoutService) release(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, userID)
}
