package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/pharmadelivery/internal/user/domain"
	"github.com/wyfcoding/pharmadelivery/pkg/utils"
)

const sessionTTL = 24 * time.Hour

// RegisterCommand 注册命令
type RegisterCommand struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// AddAddressCommand 新增收货地址命令
type AddAddressCommand struct {
	UserID    string
	Label     string
	Address   string
	City      string
	State     string
	Zip       string
	IsDefault bool
}

// UserService 用户服务：注册、登录、会话与收货地址
type UserService struct {
	repo     domain.UserRepository
	sessions domain.SessionRepository
}

// NewUserService 创建用户服务实例
func NewUserService(repo domain.UserRepository, sessions domain.SessionRepository) *UserService {
	return &UserService{repo: repo, sessions: sessions}
}

// Register 注册新用户，返回 user_id
func (s *UserService) Register(ctx context.Context, cmd RegisterCommand) (string, error) {
	existing, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrEmailTaken
	}

	user := &domain.User{
		UserID:       uuid.New().String(),
		Email:        cmd.Email,
		PasswordHash: utils.SHA256Hash(cmd.Password),
		Name:         cmd.Name,
		Phone:        cmd.Phone,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return "", err
	}
	return user.UserID, nil
}

// Login 校验凭证并创建会话，返回会话 token 与过期时间
func (s *UserService) Login(ctx context.Context, cmd LoginCommand) (string, time.Time, error) {
	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, err
	}
	if user.PasswordHash != utils.SHA256Hash(cmd.Password) {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		Token:     utils.RandToken(32),
		UserID:    user.UserID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", time.Time{}, err
	}
	return session.Token, session.ExpiresAt, nil
}

// Logout 注销会话
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate 校验会话 token，返回会话
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired() {
		return nil, domain.ErrInvalidCredentials
	}
	return session, nil
}

// GetProfile 查询用户资料
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// AddAddress 新增收货地址
func (s *UserService) AddAddress(ctx context.Context, cmd AddAddressCommand) error {
	user, err := s.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	if cmd.IsDefault {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = false
		}
	}
	user.Addresses = append(user.Addresses, domain.Address{
		Label:     cmd.Label,
		Address:   cmd.Address,
		City:      cmd.City,
		State:     cmd.State,
		Zip:       cmd.Zip,
		IsDefault: cmd.IsDefault,
	})
	return s.repo.Save(ctx, user)
}
