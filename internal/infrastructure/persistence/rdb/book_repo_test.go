package rdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestBookRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	t.Run("创建并查询", func(t *testing.T) {
		b := seedBook(t, db, "Война и мир")
		assert.NotZero(t, b.ID)

		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Война и мир", got.Name)
		require.NotNil(t, got.YearOfPublication)
		assert.Equal(t, 1869, *got.YearOfPublication)
	})

	t.Run("三元组唯一索引冲突", func(t *testing.T) {
		year := 1877
		dup := book.NewBook("Война и мир", "Лев Толстой", "Другой", "Эксмо", &year)
		err := repo.Create(ctx, dup)
		assert.True(t, errors.Is(err, book.ErrBookDuplicate))
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	t.Run("同名不同出版社允许", func(t *testing.T) {
		other := book.NewBook("Война и мир", "Лев Толстой", "", "АСТ", nil)
		require.NoError(t, repo.Create(ctx, other))

		exists, err := repo.ExistsByIdentity(ctx, other.Identity(), other.ID)
		require.NoError(t, err)
		assert.False(t, exists, "排除自身后不应冲突")

		exists, err = repo.ExistsByIdentity(ctx, other.Identity(), 0)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("更新可清空体裁", func(t *testing.T) {
		b := seedBook(t, db, "Анна Каренина")
		b.Genre = ""
		b.YearOfPublication = nil
		require.NoError(t, repo.Update(ctx, b))

		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Genre)
		assert.Nil(t, got.YearOfPublication)
	})

	t.Run("加锁查询不存在的图书", func(t *testing.T) {
		_, err := repo.LockByID(ctx, 9999)
		assert.True(t, errors.Is(err, book.ErrBookNotFound))
	})

	t.Run("软删除后查不到", func(t *testing.T) {
		b := seedBook(t, db, "Воскресение")
		require.NoError(t, repo.Delete(ctx, b.ID))

		_, err := repo.FindByID(ctx, b.ID)
		assert.True(t, errors.Is(err, book.ErrBookNotFound))

		err = repo.Delete(ctx, b.ID)
		assert.True(t, errors.Is(err, book.ErrBookNotFound))
	})
}

func TestBookRepositoryList(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	for _, b := range []*book.Book{
		book.NewBook("Go in Action", "Уильям Кеннеди", "Программирование", "Питер", nil),
		book.NewBook("The Go Programming Language", "Алан Донован", "Программирование", "Вильямс", nil),
		book.NewBook("Мастер и Маргарита", "Михаил Булгаков", "Роман", "АСТ", nil),
	} {
		require.NoError(t, repo.Create(ctx, b))
	}

	tests := []struct {
		name   string
		params book.ListParams
		want   int64
	}{
		{"不过滤", book.ListParams{}, 3},
		{"书名包含且忽略大小写", book.ListParams{Field: book.SearchByName, Query: "go"}, 2},
		{"作者包含", book.ListParams{Field: book.SearchByAuthor, Query: "Булгаков"}, 1},
		{"体裁精确匹配", book.ListParams{Field: book.SearchByGenre, Query: "Программирование"}, 2},
		{"体裁不做包含匹配", book.ListParams{Field: book.SearchByGenre, Query: "Програм"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, total, err := repo.List(ctx, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, books, int(tt.want))
		})
	}

	t.Run("分页", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, books, 1)
		assert.Equal(t, "Мастер и Маргарита", books[0].Name)
	})
}
