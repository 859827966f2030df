package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestManager(t *testing.T) {
	m := NewManager("test-secret", "library", time.Hour)

	t.Run("签发并解析", func(t *testing.T) {
		tok, err := m.GenerateToken(7, "admin@library.ru", "Анна Смирнова")
		require.NoError(t, err)
		assert.Equal(t, int64(3600), tok.ExpiresIn)
		assert.NotEmpty(t, tok.TokenID)

		claims, err := m.ParseToken(tok.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.LibrarianID)
		assert.Equal(t, tok.TokenID, claims.ID)
		assert.InDelta(t, time.Hour.Seconds(), m.Remaining(claims).Seconds(), 5)
	})

	t.Run("密钥不同无效", func(t *testing.T) {
		tok, err := NewManager("other", "library", time.Hour).GenerateToken(1, "a@b.ru", "X")
		require.NoError(t, err)

		_, err = m.ParseToken(tok.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("签发者不同无效", func(t *testing.T) {
		tok, err := NewManager("test-secret", "library", time.Hour).GenerateToken(1, "a@b.ru", "X")
		require.NoError(t, err)

		_, err = m.ParseToken(tok.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("过期", func(t *testing.T) {
		past := NewManager("test-secret", "library", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, err := past.GenerateToken(1, "a@b.ru", "X")
		require.NoError(t, err)

		_, err = m.ParseToken(tok.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
