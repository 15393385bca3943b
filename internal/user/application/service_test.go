package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/pharmadelivery/internal/user/domain"
)

type fakeUserRepo struct {
	users map[string]*domain.User // keyed by email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	cp := *user
	cp.Addresses = append([]domain.Address(nil), user.Addresses...)
	r.users[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByUserID(_ context.Context, userID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.UserID == userID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *memSessionRepo) Save(_ context.Context, s *domain.Session) error {
	r.sessions[s.Token] = s
	return nil
}

func (r *memSessionRepo) Get(_ context.Context, token string) (*domain.Session, error) {
	return r.sessions[token], nil
}

func (r *memSessionRepo) Delete(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func newUserService() *UserService {
	return NewUserService(newFakeUserRepo(), newMemSessionRepo())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	userID, err := svc.Register(ctx, RegisterCommand{Email: "a@b.com", Password: "secret", Name: "A"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if userID == "" {
		t.Fatalf("expected generated user id")
	}

	token, expiresAt, err := svc.Login(ctx, LoginCommand{Email: "a@b.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Errorf("token = %q expires = %v", token, expiresAt)
	}

	session, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if session.UserID != userID {
		t.Errorf("session user = %s, want %s", session.UserID, userID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.com", Password: "x"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterCommand{Email: "a@b.com", Password: "y"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.com", Password: "secret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, err := svc.Login(ctx, LoginCommand{Email: "a@b.com", Password: "wrong"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	// 不泄露用户是否存在
	_, _, err = svc.Login(ctx, LoginCommand{Email: "nobody@b.com", Password: "x"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterCommand{Email: "a@b.com", Password: "secret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, LoginCommand{Email: "a@b.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials after logout", err)
	}
}

func TestAddAddressDefaultSwap(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	userID, _ := svc.Register(ctx, RegisterCommand{Email: "a@b.com", Password: "x"})

	if err := svc.AddAddress(ctx, AddAddressCommand{UserID: userID, Label: "home", Address: "1 St", City: "Pune", State: "MH", Zip: "411001", IsDefault: true}); err != nil {
		t.Fatalf("AddAddress: %v", err)
	}
	if err := svc.AddAddress(ctx, AddAddressCommand{UserID: userID, Label: "work", Address: "2 St", City: "Pune", State: "MH", Zip: "411002", IsDefault: true}); err != nil {
		t.Fatalf("AddAddress: %v", err)
	}

	user, err := svc.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	defaults := 0
	for _, a := range user.Addresses {
		if a.IsDefault {
			defaults++
			if a.Label != "work" {
				t.Errorf("default address = %s, want work", a.Label)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("defaults = %d, want exactly 1", defaults)
	}
}
