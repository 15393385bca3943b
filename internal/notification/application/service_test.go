package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/pharmadelivery/internal/notification/domain"
)

type fakeNotificationRepo struct {
	saved []*domain.Notification
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *domain.Notification) error {
	cp := *n
	r.saved = append(r.saved, &cp)
	return nil
}

func (r *fakeNotificationRepo) ListByUserID(_ context.Context, userID string, offset, limit int) ([]domain.Notification, int64, error) {
	var out []domain.Notification
	for _, n := range r.saved {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

type stubSender struct {
	err   error
	calls int
}

func (s *stubSender) Send(context.Context, string, string, string) error {
	s.calls++
	return s.err
}

func TestSendRecordsSentStatus(t *testing.T) {
	repo := &fakeNotificationRepo{}
	email := &stubSender{}
	svc := NewNotificationService(repo, email, &stubSender{})

	id, err := svc.Send(context.Background(), SendCommand{
		UserID:  "u1",
		Channel: domain.ChannelEmail,
		Target:  "a@b.com",
		Subject: "hi",
		Content: "body",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id == "" || email.calls != 1 {
		t.Errorf("id = %q, email calls = %d", id, email.calls)
	}

	n := repo.saved[0]
	if n.Status != domain.StatusSent || n.SentAt == nil {
		t.Errorf("notification = %+v", n)
	}
}

func TestSendRecordsFailure(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sms := &stubSender{err: errors.New("gateway timeout")}
	svc := NewNotificationService(repo, &stubSender{}, sms)

	if _, err := svc.Send(context.Background(), SendCommand{
		UserID:  "u1",
		Channel: domain.ChannelSMS,
		Target:  "12345",
	}); err != nil {
		t.Fatalf("delivery failure should still record: %v", err)
	}

	n := repo.saved[0]
	if n.Status != domain.StatusFailed || n.ErrorMessage == "" {
		t.Errorf("notification = %+v", n)
	}
}

func TestSendUnsupportedChannel(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{}, &stubSender{}, &stubSender{})

	_, err := svc.Send(context.Background(), SendCommand{Channel: "PIGEON"})
	if !errors.Is(err, domain.ErrUnsupportedChannel) {
		t.Errorf("err = %v, want ErrUnsupportedChannel", err)
	}
}
