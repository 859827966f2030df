package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Manager JWT管理器
// 1. 只签发Access Token,登出时按Token ID(jti)加入黑名单
// 2. 签名算法固定为HS256
type Manager struct {
	secret []byte
	issuer string
	expire time.Duration
	now    func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret, issuer string, expire time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		expire: expire,
		now:    time.Now,
	}
}

// Claims 自定义JWT Claims
// 嵌入jwt.RegisteredClaims获取标准字段(exp、iat、nbf、jti等)
type Claims struct {
	LibrarianID uint   `json:"librarian_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	jwt.RegisteredClaims
}

// Token 签发结果
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenID     string    `json:"-"`
	ExpiresIn   int64     `json:"expires_in"` // 秒
	ExpiresAt   time.Time `json:"expires_at"`
}

// GenerateToken 为馆员签发Access Token
func (m *Manager) GenerateToken(librarianID uint, email, fullName string) (*Token, error) {
	now := m.now()
	expiresAt := now.Add(m.expire)
	tokenID := uuid.NewString()

	claims := Claims{
		LibrarianID: librarianID,
		Email:       email,
		FullName:    fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", librarianID),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Token失败")
	}

	return &Token{
		AccessToken: signed,
		TokenID:     tokenID,
		ExpiresIn:   int64(m.expire.Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// ParseToken 解析并验证Token
// 校验签名算法、签发者、过期时间和生效时间
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken.WithCause(err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

// Remaining Token剩余有效期,用于设置黑名单过期时间
func (m *Manager) Remaining(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Sub(m.now())
}
