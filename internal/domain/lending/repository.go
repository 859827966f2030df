package lending

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/reader"
)

// Repository 借阅仓储接口
// 同时满足book.LoanChecker和reader.LoanChecker
type Repository interface {
	// Create 创建借阅记录
	// 未归还图书的唯一索引冲突返回ErrBookAlreadyLent,
	// (读者,图书,借出日期)冲突返回ErrLendingDuplicate
	Create(ctx context.Context, lending *Lending) error

	// FindByID 根据ID查找,附带读者和图书快照
	FindByID(ctx context.Context, id uint) (*Lending, error)

	// Update 覆盖借阅记录,唯一索引冲突处理同Create
	Update(ctx context.Context, lending *Lending) error

	// Delete 物理删除
	Delete(ctx context.Context, id uint) error

	// FindOpenByBookID 查找图书的未归还借阅,没有时返回nil
	FindOpenByBookID(ctx context.Context, bookID uint) (*Lending, error)

	ExistsOpenByBookID(ctx context.Context, bookID uint) (bool, error)
	ExistsOpenByReaderID(ctx context.Context, readerID uint) (bool, error)

	List(ctx context.Context, params ListParams) ([]*Lending, int64, error)

	// ListOpen 所有未归还借阅
	ListOpen(ctx context.Context) ([]*Lending, error)

	// ListOverdue 未归还且应还日期早于asOf
	ListOverdue(ctx context.Context, asOf time.Time) ([]*Lending, error)

	ListByReader(ctx context.Context, readerID uint) ([]*Lending, error)

	// ListIssuedBetween 借出日期在[from, to]之间
	ListIssuedBetween(ctx context.Context, from, to time.Time) ([]*Lending, error)
}

// BookLocker 锁定并返回图书(由图书仓储实现)
type BookLocker interface {
	LockByID(ctx context.Context, id uint) (*book.Book, error)
}

// ReaderFinder 查找读者(由读者仓储实现)
type ReaderFinder interface {
	FindByID(ctx context.Context, id uint) (*reader.Reader, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
}

// Normalize 填充分页默认值
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}
