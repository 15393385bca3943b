package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wyfcoding/pharmadelivery/internal/prescription/domain"
)

type fakePrescriptionRepo struct {
	prescriptions map[string]*domain.Prescription
}

func newFakePrescriptionRepo() *fakePrescriptionRepo {
	return &fakePrescriptionRepo{prescriptions: make(map[string]*domain.Prescription)}
}

func (r *fakePrescriptionRepo) Save(_ context.Context, p *domain.Prescription) error {
	cp := *p
	r.prescriptions[p.PrescriptionID] = &cp
	return nil
}

func (r *fakePrescriptionRepo) GetByPrescriptionID(_ context.Context, id string) (*domain.Prescription, error) {
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, domain.ErrPrescriptionNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePrescriptionRepo) ListByUserID(_ context.Context, userID string, offset, limit int) ([]domain.Prescription, int64, error) {
	var out []domain.Prescription
	for _, p := range r.prescriptions {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePrescriptionRepo) ListPending(_ context.Context, offset, limit int) ([]domain.Prescription, int64, error) {
	var out []domain.Prescription
	for _, p := range r.prescriptions {
		if p.Status == domain.StatusPending {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	repo := newFakePrescriptionRepo()
	dir := t.TempDir()
	svc := NewPrescriptionService(repo, &recordingPublisher{}, dir)

	id, err := svc.Upload(context.Background(), UploadCommand{
		UserID:   "u1",
		FileName: "rx.png",
		Note:     "monthly refill",
		Content:  strings.NewReader("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	p := repo.prescriptions[id]
	if p == nil || p.Status != domain.StatusPending {
		t.Fatalf("record = %+v", p)
	}
	data, err := os.ReadFile(filepath.Join(dir, id+".png"))
	if err != nil {
		t.Fatalf("stored file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := NewPrescriptionService(newFakePrescriptionRepo(), &recordingPublisher{}, t.TempDir())

	_, err := svc.Upload(context.Background(), UploadCommand{
		UserID:   "u1",
		FileName: "rx.exe",
		Content:  strings.NewReader("x"),
	})
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("err = %v, want ErrUnsupportedFileType", err)
	}
}

func TestApproveAndRejectFlow(t *testing.T) {
	repo := newFakePrescriptionRepo()
	publisher := &recordingPublisher{}
	svc := NewPrescriptionService(repo, publisher, t.TempDir())
	ctx := context.Background()

	id, err := svc.Upload(ctx, UploadCommand{UserID: "u1", FileName: "rx.pdf", Content: strings.NewReader("x")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Approve(ctx, id, "looks good"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	p, _ := svc.Get(ctx, id)
	if p.Status != domain.StatusApproved || p.ReviewerNote != "looks good" {
		t.Errorf("prescription = %+v", p)
	}

	if err := svc.Reject(ctx, id, "nope"); !errors.Is(err, domain.ErrAlreadyReviewed) {
		t.Errorf("err = %v, want ErrAlreadyReviewed", err)
	}
	if len(publisher.topics) != 1 || publisher.topics[0] != domain.PrescriptionStatusChangedTopic {
		t.Errorf("published topics = %v", publisher.topics)
	}
}
