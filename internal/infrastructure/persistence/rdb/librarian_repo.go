package rdb

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/librarian"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// librarianRepository 馆员仓储实现
// 邮箱唯一性由数据库UNIQUE索引保证,冲突转换为ErrEmailDuplicate
type librarianRepository struct {
	db *gorm.DB
}

// NewLibrarianRepository 创建馆员仓储
func NewLibrarianRepository(db *gorm.DB) librarian.Repository {
	return &librarianRepository{db: db}
}

func (r *librarianRepository) Create(ctx context.Context, l *librarian.Librarian) error {
	model := &LibrarianModel{
		Email:    strings.ToLower(l.Email),
		Password: l.Password,
		FullName: l.FullName,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return librarian.ErrEmailDuplicate.WithCause(err)
		}
		return apperrors.Wrap(err, "创建馆员失败")
	}

	l.ID = model.ID
	l.Email = model.Email
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *librarianRepository) FindByID(ctx context.Context, id uint) (*librarian.Librarian, error) {
	var model LibrarianModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, librarian.ErrLibrarianNotFound
		}
		return nil, apperrors.Wrap(err, "查询馆员失败")
	}
	return toLibrarianEntity(&model), nil
}

// FindByEmail 邮箱统一按小写存储和查询
func (r *librarianRepository) FindByEmail(ctx context.Context, email string) (*librarian.Librarian, error) {
	var model LibrarianModel
	err := getDB(ctx, r.db).Where("email = ?", strings.ToLower(email)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, librarian.ErrLibrarianNotFound
		}
		return nil, apperrors.Wrap(err, "查询馆员失败")
	}
	return toLibrarianEntity(&model), nil
}

func toLibrarianEntity(m *LibrarianModel) *librarian.Librarian {
	return &librarian.Librarian{
		ID:        m.ID,
		Email:     m.Email,
		Password:  m.Password,
		FullName:  m.FullName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
