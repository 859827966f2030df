package librarian

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

type mockRepo struct {
	byEmail map[string]*Librarian
}

var _ Repository = (*mockRepo)(nil)

func (m *mockRepo) Create(ctx context.Context, l *Librarian) error {
	if _, ok := m.byEmail[l.Email]; ok {
		return ErrEmailDuplicate
	}
	l.ID = uint(len(m.byEmail) + 1)
	m.byEmail[l.Email] = l
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*Librarian, error) {
	for _, l := range m.byEmail {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, ErrLibrarianNotFound
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*Librarian, error) {
	l, ok := m.byEmail[email]
	if !ok {
		return nil, ErrLibrarianNotFound
	}
	return l, nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&mockRepo{byEmail: map[string]*Librarian{}}, bcrypt.MinCost)

	l, err := svc.Register(ctx, "anna@library.ru", "secret123", "Анна Иванова")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", l.Password, "密码必须加密存储")

	_, err = svc.Register(ctx, "anna@library.ru", "secret123", "Анна Иванова")
	assert.True(t, errors.Is(err, ErrEmailDuplicate))

	got, err := svc.Login(ctx, "anna@library.ru", "secret123")
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)

	_, err = svc.Login(ctx, "anna@library.ru", "wrong1234")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPassword))

	_, err = svc.Login(ctx, "nobody@library.ru", "secret123")
	assert.True(t, errors.Is(err, ErrLibrarianNotFound))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(&mockRepo{byEmail: map[string]*Librarian{}}, bcrypt.MinCost)

	tests := []struct {
		name     string
		email    string
		password string
		fullName string
		want     error
	}{
		{"邮箱格式错误", "anna", "secret123", "Анна", ErrInvalidEmail},
		{"密码过短", "a@b.ru", "abc1", "Анна", ErrWeakPassword},
		{"密码没有数字", "a@b.ru", "abcdefgh", "Анна", ErrWeakPassword},
		{"姓名过短", "a@b.ru", "secret123", "А", ErrInvalidFullName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password, tt.fullName)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}
