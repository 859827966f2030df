package reader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var _ Repository = (*mockRepo)(nil)

type mockRepo struct {
	readers map[uint]*Reader
	nextID  uint
}

func newMockRepo() *mockRepo {
	return &mockRepo{readers: make(map[uint]*Reader)}
}

func (m *mockRepo) Create(ctx context.Context, r *Reader) error {
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.readers[r.ID] = &cp
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*Reader, error) {
	r, ok := m.readers[id]
	if !ok {
		return nil, ErrReaderNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) FindByTicket(ctx context.Context, ticket string) (*Reader, error) {
	for _, r := range m.readers {
		if r.ReadersTicket == ticket {
			return r, nil
		}
	}
	return nil, ErrReaderNotFound
}

func (m *mockRepo) Update(ctx context.Context, r *Reader) error {
	cp := *r
	m.readers[r.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uint) error {
	delete(m.readers, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, params ListParams) ([]*Reader, int64, error) {
	return nil, 0, nil
}

func (m *mockRepo) ExistsByIdentity(ctx context.Context, identity Identity, excludeID uint) (bool, error) {
	for _, r := range m.readers {
		if r.ID != excludeID && r.FirstName == identity.FirstName &&
			r.LastName == identity.LastName && r.DateOfBirth.Equal(identity.DateOfBirth) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) ExistsByTicket(ctx context.Context, ticket string, excludeID uint) (bool, error) {
	for _, r := range m.readers {
		if r.ID != excludeID && r.ReadersTicket == ticket {
			return true, nil
		}
	}
	return false, nil
}

type mockLoans struct{ open map[uint]bool }

func (m *mockLoans) ExistsOpenByReaderID(ctx context.Context, readerID uint) (bool, error) {
	return m.open[readerID], nil
}

func ivan(ticket string) *Reader {
	return &Reader{
		ReadersTicket: ticket,
		LastName:      "Петров",
		FirstName:     "Иван",
		DateOfBirth:   time.Date(1990, time.May, 4, 12, 0, 0, 0, time.UTC),
		Phone:         "9161234567",
	}
}

func TestRegisterReader(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := NewService(repo, &mockLoans{})

	first, err := svc.RegisterReader(ctx, ivan("T-1"))
	require.NoError(t, err)
	assert.Equal(t, clock.Date(1990, time.May, 4), first.DateOfBirth, "出生日期截断为日期")

	t.Run("三元组重复", func(t *testing.T) {
		_, err := svc.RegisterReader(ctx, ivan("T-2"))
		assert.True(t, errors.Is(err, ErrReaderDuplicate))
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	t.Run("读者证号重复", func(t *testing.T) {
		other := ivan("T-1")
		other.FirstName = "Пётр"
		_, err := svc.RegisterReader(ctx, other)
		assert.True(t, errors.Is(err, ErrTicketDuplicate))
	})

	assert.Len(t, repo.readers, 1)
}

func TestUpdateReader(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockRepo(), &mockLoans{})

	r, err := svc.RegisterReader(ctx, ivan("T-1"))
	require.NoError(t, err)

	data := ivan("T-1")
	data.Email = "ivan@example.com"
	updated, err := svc.UpdateReader(ctx, r.ID, data)
	require.NoError(t, err, "排除自身")
	assert.Equal(t, "ivan@example.com", updated.Email)

	other := ivan("T-2")
	other.FirstName = "Анна"
	second, err := svc.RegisterReader(ctx, other)
	require.NoError(t, err)

	_, err = svc.UpdateReader(ctx, second.ID, ivan("T-2"))
	assert.True(t, errors.Is(err, ErrReaderDuplicate))

	_, err = svc.UpdateReader(ctx, 404, ivan("T-9"))
	assert.True(t, errors.Is(err, ErrReaderNotFound))
}

func TestDeleteReader(t *testing.T) {
	ctx := context.Background()
	loans := &mockLoans{open: map[uint]bool{}}
	svc := NewService(newMockRepo(), loans)

	r, err := svc.RegisterReader(ctx, ivan("T-1"))
	require.NoError(t, err)

	loans.open[r.ID] = true
	err = svc.DeleteReader(ctx, r.ID)
	assert.True(t, errors.Is(err, ErrReaderHasActiveLoan))
	assert.Equal(t, apperrors.KindInvariant, apperrors.KindOf(err))

	loans.open[r.ID] = false
	assert.NoError(t, svc.DeleteReader(ctx, r.ID))
	assert.True(t, errors.Is(svc.DeleteReader(ctx, r.ID), ErrReaderNotFound))
}
