package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/pharmadelivery/internal/cart/domain"
)

type fakeCartRepo struct {
	carts   map[string]*domain.Cart
	saveErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *fakeCartRepo) GetByUserID(_ context.Context, userID string) (*domain.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	cp := *cart
	cp.Items = append([]domain.LineItem(nil), cart.Items...)
	return &cp, nil
}

func (r *fakeCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *cart
	cp.Items = append([]domain.LineItem(nil), cart.Items...)
	r.carts[cart.UserID] = &cp
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, userID string) error {
	if _, ok := r.carts[userID]; !ok {
		return domain.ErrCartNotFound
	}
	delete(r.carts, userID)
	return nil
}

type fakeSnapshotStore struct {
	items    map[string][]domain.LineItem
	loadErr  error
	storeErr error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{items: make(map[string][]domain.LineItem)}
}

func (s *fakeSnapshotStore) Load(_ context.Context, userID string) ([]domain.LineItem, bool, error) {
	if s.loadErr != nil {
		return nil, false, s.loadErr
	}
	items, ok := s.items[userID]
	if !ok {
		return nil, false, nil
	}
	return items, true, nil
}

func (s *fakeSnapshotStore) Store(_ context.Context, userID string, items []domain.LineItem) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	s.items[userID] = append([]domain.LineItem(nil), items...)
	return nil
}

func (s *fakeSnapshotStore) Drop(_ context.Context, userID string) error {
	delete(s.items, userID)
	return nil
}

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func newService() (*CartApplicationService, *fakeCartRepo, *fakeSnapshotStore, *recordingPublisher) {
	repo := newFakeCartRepo()
	snaps := newFakeSnapshotStore()
	pub := &recordingPublisher{}
	return NewCartApplicationService(repo, snaps, pub), repo, snaps, pub
}

func TestAddItemCreatesCartAndSnapshot(t *testing.T) {
	svc, repo, snaps, pub := newService()
	ctx := context.Background()

	if err := svc.AddItem(ctx, "u1", "m1", "Paracetamol", 10, "img.png", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	cart := repo.carts["u1"]
	if cart == nil || len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected persisted cart: %+v", cart)
	}
	if len(snaps.items["u1"]) != 1 {
		t.Errorf("snapshot not written")
	}
	if len(pub.topics) != 1 || pub.topics[0] != domain.CartItemAddedTopic {
		t.Errorf("published topics = %v", pub.topics)
	}
}

func TestAddItemSnapshotFailureDoesNotFailCommand(t *testing.T) {
	svc, repo, snaps, _ := newService()
	snaps.storeErr = errors.New("redis down")

	if err := svc.AddItem(context.Background(), "u1", "m1", "A", 1, "", 1); err != nil {
		t.Fatalf("snapshot failure must not fail the command: %v", err)
	}
	if repo.carts["u1"] == nil {
		t.Errorf("canonical save skipped")
	}
}

func TestRemoveItemOnMissingCartIsNoop(t *testing.T) {
	svc, _, _, pub := newService()

	if err := svc.RemoveItem(context.Background(), "u1", "m1"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(pub.topics) != 0 {
		t.Errorf("no event expected for no-op remove, got %v", pub.topics)
	}
}

func TestUpdateQuantityFloorRemovesLine(t *testing.T) {
	svc, repo, _, _ := newService()
	ctx := context.Background()

	if err := svc.AddItem(ctx, "u1", "m1", "A", 1, "", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.UpdateQuantity(ctx, "u1", "m1", 0); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if cart := repo.carts["u1"]; !cart.IsEmpty() {
		t.Errorf("quantity 0 should remove the line, got %+v", cart.Items)
	}
}

func TestClearCartDropsSnapshot(t *testing.T) {
	svc, repo, snaps, pub := newService()
	ctx := context.Background()

	if err := svc.AddItem(ctx, "u1", "m1", "A", 1, "", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.ClearCart(ctx, "u1"); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}
	if _, ok := repo.carts["u1"]; ok {
		t.Errorf("cart still persisted after clear")
	}
	if _, ok := snaps.items["u1"]; ok {
		t.Errorf("snapshot still present after clear")
	}
	if pub.topics[len(pub.topics)-1] != domain.CartClearedTopic {
		t.Errorf("expected cleared event last, got %v", pub.topics)
	}
}

func TestGetCartRebuildsFromSnapshot(t *testing.T) {
	svc, _, snaps, _ := newService()
	snaps.items["u1"] = []domain.LineItem{
		{MedicineID: "m1", Name: "A", Price: 2, Quantity: 3},
	}

	cart, err := svc.GetCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Errorf("hydrated cart = %+v", cart.Items)
	}
}

func TestGetCartAbsorbsCorruptSnapshot(t *testing.T) {
	svc, _, snaps, _ := newService()
	snaps.loadErr = errors.New("unmarshal cart snapshot: unexpected end of JSON input")

	cart, err := svc.GetCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("corrupt snapshot must degrade to empty cart, got error: %v", err)
	}
	if !cart.IsEmpty() {
		t.Errorf("expected empty cart, got %+v", cart.Items)
	}
}

func TestGetCartTotalAndCount(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()

	if err := svc.AddItem(ctx, "u1", "m1", "A", 2.5, "", 4); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.AddItem(ctx, "u1", "m2", "B", 10, "", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	total, err := svc.GetCartTotal(ctx, "u1")
	if err != nil || total != 20 {
		t.Errorf("total = %v err = %v, want 20", total, err)
	}
	count, err := svc.GetCartItemCount(ctx, "u1")
	if err != nil || count != 5 {
		t.Errorf("count = %v err = %v, want 5", count, err)
	}
}
