package rdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/reader"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/clock"
)

// newTestDB 基于临时SQLite文件创建已迁移的数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			DBName:       filepath.Join(t.TempDir(), "library.db"),
			AutoMigrate:  true,
			MaxOpenConns: 1,
		},
	}
	db, cleanup, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return db
}

func seedBook(t *testing.T, db *gorm.DB, name string) *book.Book {
	t.Helper()
	year := 1869
	b := book.NewBook(name, "Лев Толстой", "Роман", "Эксмо", &year)
	require.NoError(t, NewBookRepository(db).Create(context.Background(), b))
	return b
}

func seedReader(t *testing.T, db *gorm.DB, ticket, lastName string) *reader.Reader {
	t.Helper()
	rd := &reader.Reader{
		ReadersTicket: ticket,
		LastName:      lastName,
		FirstName:     "Иван",
		DateOfBirth:   clock.Date(1990, 5, 20),
		Phone:         "9161234567",
	}
	require.NoError(t, NewReaderRepository(db).Create(context.Background(), rd))
	return rd
}
