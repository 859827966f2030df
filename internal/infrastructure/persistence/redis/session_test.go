package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// newTestClient 需要可用的Redis,地址取LIBRARY_TEST_REDIS_ADDR,未设置时跳过
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("LIBRARY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置LIBRARY_TEST_REDIS_ADDR,跳过Redis测试")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis不可用: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(newTestClient(t))
	ctx := context.Background()

	t.Run("保存并读取会话", func(t *testing.T) {
		err := store.SaveSession(ctx, 1, map[string]interface{}{"ip": "127.0.0.1"}, time.Minute)
		require.NoError(t, err)

		data, err := store.GetSession(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", data["ip"])
	})

	t.Run("删除后未登录", func(t *testing.T) {
		require.NoError(t, store.DeleteSession(ctx, 1))
		_, err := store.GetSession(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("黑名单", func(t *testing.T) {
		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)

		require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
		revoked, err = store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("已过期的Token不写入黑名单", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-2", 0))
		revoked, err := store.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
