package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wyfcoding/pharmadelivery/internal/catalog/domain"
)

type fakeMedicineRepo struct {
	medicines map[string]*domain.Medicine
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: make(map[string]*domain.Medicine)}
}

func (r *fakeMedicineRepo) Save(_ context.Context, m *domain.Medicine) error {
	cp := *m
	r.medicines[m.MedicineID] = &cp
	return nil
}

func (r *fakeMedicineRepo) GetByMedicineID(_ context.Context, id string) (*domain.Medicine, error) {
	m, ok := r.medicines[id]
	if !ok {
		return nil, domain.ErrMedicineNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMedicineRepo) List(_ context.Context, category string, offset, limit int) ([]domain.Medicine, int64, error) {
	var out []domain.Medicine
	for _, m := range r.medicines {
		if category == "" || m.Category == category {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeMedicineRepo) Search(_ context.Context, keyword string, offset, limit int) ([]domain.Medicine, int64, error) {
	var out []domain.Medicine
	for _, m := range r.medicines {
		if strings.Contains(m.Name, keyword) {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

type memMedicineCache struct {
	medicines map[string]*domain.Medicine
}

func newMemMedicineCache() *memMedicineCache {
	return &memMedicineCache{medicines: make(map[string]*domain.Medicine)}
}

func (c *memMedicineCache) Get(_ context.Context, id string) (*domain.Medicine, error) {
	return c.medicines[id], nil
}

func (c *memMedicineCache) Set(_ context.Context, m *domain.Medicine) error {
	c.medicines[m.MedicineID] = m
	return nil
}

func (c *memMedicineCache) Invalidate(_ context.Context, id string) error {
	delete(c.medicines, id)
	return nil
}

func TestUpsertAssignsIDAndInvalidatesCache(t *testing.T) {
	repo := newFakeMedicineRepo()
	cache := newMemMedicineCache()
	svc := NewCatalogService(repo, cache)
	ctx := context.Background()

	id, err := svc.UpsertMedicine(ctx, UpsertMedicineCommand{Name: "Paracetamol", Price: 10, Stock: 5})
	if err != nil {
		t.Fatalf("UpsertMedicine: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated medicine id")
	}

	// 更新价格后缓存应失效
	if _, err := svc.GetMedicine(ctx, id); err != nil {
		t.Fatalf("GetMedicine: %v", err)
	}
	if _, err := svc.UpsertMedicine(ctx, UpsertMedicineCommand{MedicineID: id, Name: "Paracetamol", Price: 12, Stock: 5}); err != nil {
		t.Fatalf("UpsertMedicine update: %v", err)
	}
	if cache.medicines[id] != nil {
		t.Errorf("cache not invalidated on update")
	}

	m, err := svc.GetMedicine(ctx, id)
	if err != nil {
		t.Fatalf("GetMedicine after update: %v", err)
	}
	if m.Price != 12 {
		t.Errorf("price = %v, want 12", m.Price)
	}
}

func TestGetMedicineCachesReadThrough(t *testing.T) {
	repo := newFakeMedicineRepo()
	cache := newMemMedicineCache()
	svc := NewCatalogService(repo, cache)
	ctx := context.Background()

	id, _ := svc.UpsertMedicine(ctx, UpsertMedicineCommand{Name: "Ibuprofen", Price: 8, Stock: 3})
	if _, err := svc.GetMedicine(ctx, id); err != nil {
		t.Fatalf("GetMedicine: %v", err)
	}
	if cache.medicines[id] == nil {
		t.Errorf("read-through should populate cache")
	}
}

func TestGetMedicineNotFound(t *testing.T) {
	svc := NewCatalogService(newFakeMedicineRepo(), newMemMedicineCache())

	_, err := svc.GetMedicine(context.Background(), "missing")
	if !errors.Is(err, domain.ErrMedicineNotFound) {
		t.Errorf("err = %v, want ErrMedicineNotFound", err)
	}
}

func TestDeductStock(t *testing.T) {
	m := &domain.Medicine{Stock: 3}
	if err := m.DeductStock(2); err != nil || m.Stock != 1 {
		t.Errorf("deduct failed: err=%v stock=%d", err, m.Stock)
	}
	if err := m.DeductStock(2); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Errorf("err = %v, want ErrInsufficientStock", err)
	}
}
