package librarian

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// DefaultBcryptCost 默认bcrypt成本
const DefaultBcryptCost = 12

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// Service 馆员领域服务
type Service interface {
	// Register 创建馆员账号
	// 业务规则:
	// 1. 邮箱格式合法且唯一(唯一性由数据库UNIQUE索引保证)
	// 2. 密码8-20位,包含字母和数字
	Register(ctx context.Context, email, password, fullName string) (*Librarian, error)

	// Login 校验邮箱和密码
	Login(ctx context.Context, email, password string) (*Librarian, error)

	GetByID(ctx context.Context, id uint) (*Librarian, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建馆员服务,cost<=0时使用DefaultBcryptCost
func NewService(repo Repository, cost int) Service {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &service{repo: repo, cost: cost}
}

func (s *service) Register(ctx context.Context, email, password, fullName string) (*Librarian, error) {
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(fullName); n < 2 || n > 100 {
		return nil, ErrInvalidFullName
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	l := NewLibrarian(email, string(hashed), fullName)
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Librarian, error) {
	l, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(l.Password), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return l, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*Librarian, error) {
	return s.repo.FindByID(ctx, id)
}

// validatePasswordStrength 8-20位,必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
