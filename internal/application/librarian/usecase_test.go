package librarian

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/librarian"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

// memorySessions 内存会话存储
type memorySessions struct {
	sessions map[uint]map[string]interface{}
	revoked  map[string]time.Duration
	saveErr  error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		sessions: make(map[uint]map[string]interface{}),
		revoked:  make(map[string]time.Duration),
	}
}

func (m *memorySessions) SaveSession(_ context.Context, id uint, data map[string]interface{}, _ time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[id] = data
	return nil
}

func (m *memorySessions) DeleteSession(_ context.Context, id uint) error {
	delete(m.sessions, id)
	return nil
}

func (m *memorySessions) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.revoked[tokenID] = ttl
	return nil
}

type fixture struct {
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	jwt      *jwt.Manager
	sessions *memorySessions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			DBName:       filepath.Join(t.TempDir(), "library.db"),
			AutoMigrate:  true,
			MaxOpenConns: 1,
		},
	}
	db, cleanup, err := rdb.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	svc := librarian.NewService(rdb.NewLibrarianRepository(db), bcrypt.MinCost)
	manager := jwt.NewManager("test-secret", "library", time.Hour)
	sessions := newMemorySessions()
	return &fixture{
		register: NewRegisterUseCase(svc, rdb.NewTxManager(db)),
		login:    NewLoginUseCase(svc, manager, sessions),
		logout:   NewLogoutUseCase(manager, sessions),
		jwt:      manager,
		sessions: sessions,
	}
}

func TestRegisterUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.register.Execute(ctx, RegisterRequest{Email: "anna@library.ru", Password: "secret123", FullName: "Анна Смирнова"})
	require.NoError(t, err)
	assert.NotZero(t, info.ID)
	assert.Equal(t, "anna@library.ru", info.Email)

	t.Run("邮箱重复(忽略大小写)", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{Email: "Anna@Library.ru", Password: "secret123", FullName: "Анна"})
		assert.True(t, errors.Is(err, librarian.ErrEmailDuplicate))
	})

	t.Run("弱密码", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{Email: "oleg@library.ru", Password: "12345678", FullName: "Олег"})
		assert.True(t, errors.Is(err, librarian.ErrWeakPassword))
	})
}

func TestLoginLogoutUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.register.Execute(ctx, RegisterRequest{Email: "anna@library.ru", Password: "secret123", FullName: "Анна Смирнова"})
	require.NoError(t, err)

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "anna@library.ru", Password: "secret123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Librarian.ID, claims.LibrarianID)

	t.Run("登录保存会话", func(t *testing.T) {
		session, ok := f.sessions.sessions[claims.LibrarianID]
		require.True(t, ok)
		assert.Equal(t, claims.ID, session["token_id"])
		assert.Equal(t, "10.0.0.1", session["ip"])
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := f.login.Execute(ctx, LoginRequest{Email: "anna@library.ru", Password: "wrong123"})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword))
		assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})

	t.Run("会话保存失败仍可登录", func(t *testing.T) {
		f.sessions.saveErr = errors.New("redis down")
		defer func() { f.sessions.saveErr = nil }()
		_, err := f.login.Execute(ctx, LoginRequest{Email: "anna@library.ru", Password: "secret123"})
		assert.NoError(t, err)
	})

	t.Run("登出拉黑Token", func(t *testing.T) {
		require.NoError(t, f.logout.Execute(ctx, claims))
		_, ok := f.sessions.sessions[claims.LibrarianID]
		assert.False(t, ok)
		ttl, ok := f.sessions.revoked[claims.ID]
		require.True(t, ok)
		assert.Greater(t, ttl, time.Duration(0))
	})
}
