package rdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/librarian"
)

func TestLibrarianRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewLibrarianRepository(db)
	ctx := context.Background()

	l := librarian.NewLibrarian("Admin@Library.ru", "hashed", "Анна Смирнова")
	require.NoError(t, repo.Create(ctx, l))
	assert.Equal(t, "admin@library.ru", l.Email)

	t.Run("邮箱不区分大小写", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "ADMIN@library.ru")
		require.NoError(t, err)
		assert.Equal(t, l.ID, got.ID)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		err := repo.Create(ctx, librarian.NewLibrarian("admin@library.ru", "x", "Другой"))
		assert.True(t, errors.Is(err, librarian.ErrEmailDuplicate))
	})

	t.Run("不存在", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999)
		assert.True(t, errors.Is(err, librarian.ErrLibrarianNotFound))
	})
}
