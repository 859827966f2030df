package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/response"
)

const (
	ctxKeyClaims      = "claims"
	ctxKeyLibrarianID = "librarian_id"
)

var errMalformedToken = apperrors.New(apperrors.ErrCodeInvalidToken, "Token格式错误")

// TokenBlacklist 已登出Token查询(由persistence/redis.SessionStore实现)
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Bearer Token
// 2. 验证签名和有效期
// 3. 检查Token黑名单(按jti)
// 4. 将馆员信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Error(c, errMalformedToken)
			return
		}

		claims, err := m.jwtManager.ParseToken(parts[1])
		if err != nil {
			response.Error(c, err)
			return
		}

		ctx := c.Request.Context()
		revoked, err := m.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if revoked {
			response.Error(c, apperrors.ErrTokenExpired)
			return
		}

		c.Set(ctxKeyClaims, claims)
		c.Set(ctxKeyLibrarianID, claims.LibrarianID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx,
			logger.Ctx(ctx).With(zap.Uint("librarian_id", claims.LibrarianID))))

		c.Next()
	}
}

// GetClaims 从Context获取当前Token的Claims
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ctxKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// GetLibrarianID 从Context获取当前登录馆员ID,未登录返回0
func GetLibrarianID(c *gin.Context) uint {
	if id, ok := c.Get(ctxKeyLibrarianID); ok {
		if uid, ok := id.(uint); ok {
			return uid
		}
	}
	return 0
}
