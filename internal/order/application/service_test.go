package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	cartdomain "github.com/wyfcoding/pharmadelivery/internal/cart/domain"
	checkoutdomain "github.com/wyfcoding/pharmadelivery/internal/checkout/domain"
	"github.com/wyfcoding/pharmadelivery/internal/order/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, _ *gorm.DB, order *domain.Order) error {
	r.orders[order.OrderNo] = order
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, _ *gorm.DB, order *domain.Order) error {
	r.orders[order.OrderNo] = order
	return nil
}

func (r *fakeOrderRepo) GetByOrderNo(_ context.Context, orderNo string) (*domain.Order, error) {
	order, ok := r.orders[orderNo]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID string, offset, limit int) ([]domain.Order, int64, error) {
	var all []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			all = append(all, *o)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type fakeOutbox struct {
	topics []string
}

func (o *fakeOutbox) EnqueueInTx(_ *gorm.DB, topic, _ string, _ any) error {
	o.topics = append(o.topics, topic)
	return nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*domain.Order, error) { return nil, nil }
func (nopCache) Set(context.Context, *domain.Order) error           { return nil }
func (nopCache) Invalidate(context.Context, string) error           { return nil }

func newOrderService() (*OrderApplicationService, *fakeOrderRepo, *fakeOutbox) {
	repo := newFakeOrderRepo()
	outbox := &fakeOutbox{}
	svc := NewOrderApplicationService(fakeTx{}, repo, outbox, nopCache{}, utils.NewSnowflakeID(1))
	return svc, repo, outbox
}

func testPayload() checkoutdomain.OrderPayload {
	return checkoutdomain.OrderPayload{
		UserID: "u1",
		Items: []cartdomain.LineItem{
			{MedicineID: "m1", Name: "A", Price: 2.5, Quantity: 4},
			{MedicineID: "m2", Name: "B", Price: 10, Quantity: 1},
		},
		Subtotal:        decimal.NewFromInt(20),
		DeliveryFee:     decimal.NewFromInt(49),
		Total:           decimal.NewFromInt(69),
		ShippingAddress: "12 MG Road, Pune, MH 411001",
		DeliveryDate:    "2026-09-01",
		DeliveryTime:    "10:00-12:00",
		PaymentMethod:   checkoutdomain.PaymentCOD,
	}
}

func TestPlaceOrder(t *testing.T) {
	svc, repo, outbox := newOrderService()

	orderNo, err := svc.PlaceOrder(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if !strings.HasPrefix(orderNo, "PD") {
		t.Errorf("order no = %q, want PD prefix", orderNo)
	}

	order := repo.orders[orderNo]
	if order == nil {
		t.Fatalf("order not persisted")
	}
	if order.Status != domain.StatusPlaced {
		t.Errorf("status = %s, want PLACED", order.Status)
	}
	if len(order.Items) != 2 {
		t.Errorf("items = %d, want 2", len(order.Items))
	}
	if !order.Total.Equal(decimal.NewFromInt(69)) {
		t.Errorf("total = %s, want 69", order.Total)
	}
	if len(outbox.topics) != 1 || outbox.topics[0] != domain.OrderPlacedTopic {
		t.Errorf("outbox topics = %v", outbox.topics)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	svc, repo, outbox := newOrderService()
	ctx := context.Background()

	orderNo, err := svc.PlaceOrder(ctx, testPayload())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	steps := []struct {
		name string
		fn   func() error
		want domain.OrderStatus
	}{
		{"confirm", func() error { return svc.Confirm(ctx, orderNo) }, domain.StatusConfirmed},
		{"start delivery", func() error { return svc.StartDelivery(ctx, orderNo) }, domain.StatusOutForDelivery},
		{"delivered", func() error { return svc.MarkDelivered(ctx, orderNo) }, domain.StatusDelivered},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if got := repo.orders[orderNo].Status; got != step.want {
			t.Errorf("%s: status = %s, want %s", step.name, got, step.want)
		}
	}

	// placed + 3 次状态变更
	if len(outbox.topics) != 4 {
		t.Errorf("outbox topics = %v", outbox.topics)
	}
}

func TestCancelAfterDeliveryStartFails(t *testing.T) {
	svc, _, outbox := newOrderService()
	ctx := context.Background()

	orderNo, _ := svc.PlaceOrder(ctx, testPayload())
	if err := svc.Confirm(ctx, orderNo); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := svc.StartDelivery(ctx, orderNo); err != nil {
		t.Fatalf("StartDelivery: %v", err)
	}

	enqueued := len(outbox.topics)
	err := svc.Cancel(ctx, orderNo, "changed my mind")
	if !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Errorf("err = %v, want ErrInvalidStatusTransition", err)
	}
	if len(outbox.topics) != enqueued {
		t.Errorf("failed cancel must not enqueue events")
	}
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _, _ := newOrderService()

	_, err := svc.GetOrder(context.Background(), "PD0")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}
