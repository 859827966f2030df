package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// SessionStore 馆员会话存储
// 1. session:{librarian_id} 记录登录信息(登录时间、IP)
// 2. blacklist:{token_id} 登出后的Token黑名单,过期时间与Token剩余有效期一致
type SessionStore struct {
	client redis.UniversalClient
}

// NewSessionStore 创建会话存储
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(librarianID uint) string {
	return fmt.Sprintf("session:%d", librarianID)
}

func blacklistKey(tokenID string) string {
	return "blacklist:" + tokenID
}

// SaveSession 保存会话,使用Pipeline减少网络往返
func (s *SessionStore) SaveSession(ctx context.Context, librarianID uint, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(librarianID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// GetSession 获取会话,不存在时返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, librarianID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(librarianID)).Result()
	if err != nil {
		return nil, apperrors.ErrRedisError.WithCause(err)
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除会话(登出)
func (s *SessionStore) DeleteSession(ctx context.Context, librarianID uint) error {
	if err := s.client.Del(ctx, sessionKey(librarianID)).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// Revoke 将Token加入黑名单,ttl<=0时不写入(Token已过期)
func (s *SessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(tokenID), "revoked", ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// IsRevoked 检查Token是否在黑名单中
func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(tokenID)).Result()
	if err != nil {
		return false, apperrors.ErrRedisError.WithCause(err)
	}
	return n > 0, nil
}
