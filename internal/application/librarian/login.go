package librarian

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/librarian"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
)

// SessionStore 会话存储(由persistence/redis.SessionStore实现)
type SessionStore interface {
	SaveSession(ctx context.Context, librarianID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, librarianID uint) error
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// LoginUseCase 馆员登录用例
// 1. 验证邮箱密码
// 2. 签发Access Token
// 3. 保存会话到Redis
type LoginUseCase struct {
	librarians librarian.Service
	jwtManager *jwt.Manager
	sessions   SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(librarians librarian.Service, jwtManager *jwt.Manager, sessions SessionStore) *LoginUseCase {
	return &LoginUseCase{librarians: librarians, jwtManager: jwtManager, sessions: sessions}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Librarian   Info      `json:"librarian"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"` // 秒
	ExpiresAt   time.Time `json:"expires_at"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	l, err := uc.librarians.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := uc.jwtManager.GenerateToken(l.ID, l.Email, l.FullName)
	if err != nil {
		return nil, err
	}

	session := map[string]interface{}{
		"librarian_id": l.ID,
		"email":        l.Email,
		"token_id":     token.TokenID,
		"login_at":     time.Now().Unix(),
		"ip":           req.ClientIP,
	}
	// 会话保存失败不影响登录
	if err := uc.sessions.SaveSession(ctx, l.ID, session, time.Duration(token.ExpiresIn)*time.Second); err != nil {
		logger.Ctx(ctx).Warn("保存会话失败", zap.Uint("librarian_id", l.ID), zap.Error(err))
	}

	return &LoginResponse{
		Librarian:   infoOf(l),
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

// LogoutUseCase 馆员登出用例
type LogoutUseCase struct {
	jwtManager *jwt.Manager
	sessions   SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessions SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessions: sessions}
}

// Execute 删除会话,并将Token拉黑到其自然过期
func (uc *LogoutUseCase) Execute(ctx context.Context, claims *jwt.Claims) error {
	if err := uc.sessions.DeleteSession(ctx, claims.LibrarianID); err != nil {
		return err
	}
	return uc.sessions.Revoke(ctx, claims.ID, uc.jwtManager.Remaining(claims))
}
