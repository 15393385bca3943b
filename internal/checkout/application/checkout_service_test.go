package application

import (
	"context"
	"errors"
	"testing"

	cartapp "github.com/wyfcoding/pharmadelivery/internal/cart/application"
	cartdomain "github.com/wyfcoding/pharmadelivery/internal/cart/domain"
	"github.com/wyfcoding/pharmadelivery/internal/checkout/domain"
)

type memCartRepo struct {
	carts map[string]*cartdomain.Cart
}

func (r *memCartRepo) GetByUserID(_ context.Context, userID string) (*cartdomain.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, cartdomain.ErrCartNotFound
	}
	cp := *cart
	cp.Items = append([]cartdomain.LineItem(nil), cart.Items...)
	return &cp, nil
}

func (r *memCartRepo) Save(_ context.Context, cart *cartdomain.Cart) error {
	cp := *cart
	cp.Items = append([]cartdomain.LineItem(nil), cart.Items...)
	r.carts[cart.UserID] = &cp
	return nil
}

func (r *memCartRepo) Delete(_ context.Context, userID string) error {
	if _, ok := r.carts[userID]; !ok {
		return cartdomain.ErrCartNotFound
	}
	delete(r.carts, userID)
	return nil
}

type nopSnapshots struct{}

func (nopSnapshots) Load(context.Context, string) ([]cartdomain.LineItem, bool, error) {
	return nil, false, nil
}
func (nopSnapshots) Store(context.Context, string, []cartdomain.LineItem) error { return nil }
func (nopSnapshots) Drop(context.Context, string) error                         { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, any) error { return nil }

type stubPlacer struct {
	orderID string
	err     error
	started chan struct{}
	proceed chan struct{}
	calls   int
}

func (p *stubPlacer) PlaceOrder(_ context.Context, _ domain.OrderPayload) (string, error) {
	p.calls++
	if p.started != nil {
		close(p.started)
	}
	if p.proceed != nil {
		<-p.proceed
	}
	return p.orderID, p.err
}

func validDetails() domain.DeliveryDetails {
	return domain.DeliveryDetails{
		Address:       "12 MG Road",
		City:          "Pune",
		State:         "MH",
		Zip:           "411001",
		DeliveryDate:  "2026-09-01",
		DeliveryTime:  "10:00-12:00",
		PaymentMethod: domain.PaymentUPI,
	}
}

func newCheckout(placer OrderPlacer) (*CheckoutService, *memCartRepo) {
	repo := &memCartRepo{carts: make(map[string]*cartdomain.Cart)}
	cartSvc := cartapp.NewCartApplicationService(repo, nopSnapshots{}, nopPublisher{})
	return NewCheckoutService(cartSvc, placer, nil), repo
}

func seedCart(repo *memCartRepo, userID string) {
	cart := &cartdomain.Cart{UserID: userID}
	cart.AddItem(cartdomain.LineItem{MedicineID: "m1", Name: "A", Price: 2.5, Quantity: 4})
	cart.AddItem(cartdomain.LineItem{MedicineID: "m2", Name: "B", Price: 10, Quantity: 1})
	repo.carts[userID] = cart
}

func TestSubmitSucceedsAndClearsCart(t *testing.T) {
	placer := &stubPlacer{orderID: "ord-1"}
	svc, repo := newCheckout(placer)
	seedCart(repo, "u1")

	res, err := svc.Submit(context.Background(), "u1", validDetails())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.OrderID != "ord-1" || res.State != domain.StateSucceeded {
		t.Errorf("result = %+v", res)
	}
	if res.Total.String() != "69" {
		t.Errorf("total = %s, want 69", res.Total)
	}
	if _, ok := repo.carts["u1"]; ok {
		t.Errorf("cart should be cleared after successful submit")
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	svc, _ := newCheckout(&stubPlacer{})

	_, err := svc.Submit(context.Background(), "u1", validDetails())
	if !errors.Is(err, domain.ErrInvalidCart) {
		t.Errorf("err = %v, want ErrInvalidCart", err)
	}
}

func TestSubmitRejectsIncompleteDetails(t *testing.T) {
	placer := &stubPlacer{}
	svc, repo := newCheckout(placer)
	seedCart(repo, "u1")

	details := validDetails()
	details.Zip = ""

	_, err := svc.Submit(context.Background(), "u1", details)
	if !errors.Is(err, domain.ErrIncompleteDeliveryDetails) {
		t.Errorf("err = %v, want ErrIncompleteDeliveryDetails", err)
	}
	if placer.calls != 0 {
		t.Errorf("order placer must not be called on validation failure")
	}
}

func TestSubmitFailurePreservesCart(t *testing.T) {
	placer := &stubPlacer{err: errors.New("order service unavailable")}
	svc, repo := newCheckout(placer)
	seedCart(repo, "u1")

	res, err := svc.Submit(context.Background(), "u1", validDetails())
	if !errors.Is(err, domain.ErrOrderSubmission) {
		t.Fatalf("err = %v, want ErrOrderSubmission", err)
	}
	if res == nil || res.State != domain.StateFailed {
		t.Errorf("result = %+v, want FAILED state", res)
	}
	cart := repo.carts["u1"]
	if cart == nil || len(cart.Items) != 2 {
		t.Errorf("cart must be preserved on failure, got %+v", cart)
	}
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	placer := &stubPlacer{
		orderID: "ord-1",
		started: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	svc, repo := newCheckout(placer)
	seedCart(repo, "u1")

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "u1", validDetails())
		done <- err
	}()

	<-placer.started
	_, err := svc.Submit(context.Background(), "u1", validDetails())
	if !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Errorf("concurrent submit err = %v, want ErrSubmissionInFlight", err)
	}

	close(placer.proceed)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	// 在途提交结束后允许新的提交
	placer.started, placer.proceed = nil, nil
	seedCart(repo, "u1")
	if _, err := svc.Submit(context.Background(), "u1", validDetails()); err != nil {
		t.Errorf("submit after release failed: %v", err)
	}
}
