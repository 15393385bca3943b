package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/wyfcoding/pharmadelivery/internal/user/domain"
)

type sessionRepository struct {
	client goredis.UniversalClient
	prefix string
}

// NewSessionRepository 创建基于 Redis 的会话仓储
func NewSessionRepository(client goredis.UniversalClient) domain.SessionRepository {
	return &sessionRepository{
		client: client,
		prefix: "user:session:",
	}
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	return r.client.Set(ctx, r.prefix+session.Token, data, ttl).Err()
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.prefix+token).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.prefix+token).Err()
}
