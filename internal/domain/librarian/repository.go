package librarian

import (
	"context"
)

// Repository 馆员仓储接口
type Repository interface {
	// Create 创建馆员,邮箱重复返回ErrEmailDuplicate
	Create(ctx context.Context, l *Librarian) error

	FindByID(ctx context.Context, id uint) (*Librarian, error)

	// FindByEmail 不存在时返回ErrLibrarianNotFound
	FindByEmail(ctx context.Context, email string) (*Librarian, error)
}
