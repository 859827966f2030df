package rdb

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// uniqueViolation 判断是否为唯一索引冲突,返回可用于区分索引的描述
//
//	MySQL:      1062 Duplicate entry '5' for key 'book_lendings.uq_lending_open_book'
//	PostgreSQL: SQLSTATE 23505,ConstraintName为索引名
//	SQLite:     UNIQUE constraint failed: book_lendings.open_book_id
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return myErr.Message, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return liteErr.Error(), true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err.Error(), true
	}
	// 兼容检查:错误信息包含"Duplicate entry"
	if strings.Contains(err.Error(), "Duplicate entry") {
		return err.Error(), true
	}
	return "", false
}

// violates 冲突描述是否指向给定索引(SQLite报告列名而非索引名)
func violates(detail, index string, columns ...string) bool {
	if strings.Contains(detail, index) {
		return true
	}
	for _, c := range columns {
		if strings.Contains(detail, c) {
			return true
		}
	}
	return false
}
