package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	_ Repository  = (*mockRepo)(nil)
	_ LoanChecker = (*mockLoans)(nil)
)

type mockRepo struct {
	books  map[uint]*Book
	nextID uint
}

func newMockRepo() *mockRepo {
	return &mockRepo{books: make(map[uint]*Book)}
}

func (m *mockRepo) Create(ctx context.Context, b *Book) error {
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.books[b.ID] = &cp
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, b *Book) error {
	cp := *b
	m.books[b.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uint) error {
	delete(m.books, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	var out []*Book
	for _, b := range m.books {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepo) LockByID(ctx context.Context, id uint) (*Book, error) {
	return m.FindByID(ctx, id)
}

func (m *mockRepo) ExistsByIdentity(ctx context.Context, identity Identity, excludeID uint) (bool, error) {
	for _, b := range m.books {
		if b.ID != excludeID && b.Identity() == identity {
			return true, nil
		}
	}
	return false, nil
}

type mockLoans struct{ open map[uint]bool }

func (m *mockLoans) ExistsOpenByBookID(ctx context.Context, bookID uint) (bool, error) {
	return m.open[bookID], nil
}

func warAndPeace() *Book {
	year := 1978
	return NewBook("Война и мир", "Толстой Лев Николаевич", "Роман", "Наука", &year)
}

func TestRegisterBook(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockRepo(), &mockLoans{})

	first, err := svc.RegisterBook(ctx, warAndPeace())
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = svc.RegisterBook(ctx, warAndPeace())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBookDuplicate))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	other := warAndPeace()
	other.PublishingHouse = "Эксмо"
	_, err = svc.RegisterBook(ctx, other)
	assert.NoError(t, err, "出版社不同不算重复")
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := NewService(repo, &mockLoans{})

	b, err := svc.RegisterBook(ctx, warAndPeace())
	require.NoError(t, err)

	t.Run("不修改三元组时不与自身冲突", func(t *testing.T) {
		data := warAndPeace()
		data.Genre = "Эпопея"
		updated, err := svc.UpdateBook(ctx, b.ID, data)
		require.NoError(t, err)
		assert.Equal(t, "Эпопея", updated.Genre)
		assert.Equal(t, "Эпопея", repo.books[b.ID].Genre)
	})

	t.Run("与其他图书三元组相同返回冲突", func(t *testing.T) {
		other := warAndPeace()
		other.Name = "Анна Каренина"
		second, err := svc.RegisterBook(ctx, other)
		require.NoError(t, err)

		_, err = svc.UpdateBook(ctx, second.ID, warAndPeace())
		assert.True(t, errors.Is(err, ErrBookDuplicate))
		assert.Equal(t, "Анна Каренина", repo.books[second.ID].Name)
	})

	t.Run("图书不存在", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, 404, warAndPeace())
		assert.True(t, errors.Is(err, ErrBookNotFound))
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	loans := &mockLoans{open: map[uint]bool{}}
	svc := NewService(repo, loans)

	b, err := svc.RegisterBook(ctx, warAndPeace())
	require.NoError(t, err)

	loans.open[b.ID] = true
	err = svc.DeleteBook(ctx, b.ID)
	assert.True(t, errors.Is(err, ErrBookHasActiveLoan))
	assert.Equal(t, apperrors.KindInvariant, apperrors.KindOf(err))
	assert.Contains(t, repo.books, b.ID)

	loans.open[b.ID] = false
	require.NoError(t, svc.DeleteBook(ctx, b.ID))
	assert.NotContains(t, repo.books, b.ID)

	assert.True(t, errors.Is(svc.DeleteBook(ctx, b.ID), ErrBookNotFound))
}

func TestListBooksRejectsUnknownField(t *testing.T) {
	svc := NewService(newMockRepo(), &mockLoans{})

	_, _, err := svc.ListBooks(context.Background(), ListParams{Field: "isbn", Query: "x"})
	assert.True(t, errors.Is(err, ErrInvalidSearchField))

	_, _, err = svc.ListBooks(context.Background(), ListParams{Field: SearchByGenre, Query: "Роман"})
	assert.NoError(t, err)
}
