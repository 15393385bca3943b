package domain

import "context"

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	// GetByUserID 不存在时返回 ErrUserNotFound
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// GetByEmail 不存在时返回 ErrUserNotFound
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// SessionRepository 会话仓储接口（仅实现 Redis 版本）
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	// Get 会话不存在时返回 (nil, nil)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
