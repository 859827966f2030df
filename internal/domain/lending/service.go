package lending

import (
	"context"
	"time"

	"github.com/xiebiao/library/pkg/clock"
)

// Service 借阅生命周期引擎
// 引擎只返回错误(类别+上下文),不记录日志;事务由应用层划定
type Service interface {
	// Issue 借出图书
	// 业务规则:
	// - 读者和图书必须存在
	// - 图书没有未归还的借阅
	// - 借出日期为今天,应还日期为今天+14天
	Issue(ctx context.Context, readerID, bookID uint) (*Lending, error)

	// Return 归还图书,只能从Open转换到Closed一次
	Return(ctx context.Context, id uint) (*Lending, error)

	// Update 管理员更正借阅记录
	// 业务规则:
	// - 借阅、读者、图书必须存在
	// - 换书或重新打开已归还记录时,目标图书不能有其他未归还借阅
	// - 日期顺序必须合法
	Update(ctx context.Context, id uint, cmd UpdateCommand) (*Lending, error)

	// Delete 删除借阅记录,只能删除已归还的记录
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*Lending, error)
	List(ctx context.Context, params ListParams) ([]*Lending, int64, error)
	ListOpen(ctx context.Context) ([]*Lending, error)

	// ListOverdue 逾期借阅,asOf为零值时使用今天
	ListOverdue(ctx context.Context, asOf time.Time) ([]*Lending, error)

	// ListByReader 读者的全部借阅记录,读者必须存在
	ListByReader(ctx context.Context, readerID uint) ([]*Lending, error)

	ListIssuedBetween(ctx context.Context, from, to time.Time) ([]*Lending, error)
}

// UpdateCommand 更正借阅的参数
// DateOfIssue为零值时保留原借出日期,ReturnDate为nil表示未归还
type UpdateCommand struct {
	ReaderID    uint
	BookID      uint
	DateOfIssue time.Time
	ReturnDate  *time.Time
}

type service struct {
	repo    Repository
	books   BookLocker
	readers ReaderFinder
	clock   clock.Clock
}

// NewService 创建借阅领域服务
func NewService(repo Repository, books BookLocker, readers ReaderFinder, c clock.Clock) Service {
	return &service{repo: repo, books: books, readers: readers, clock: c}
}

func (s *service) Issue(ctx context.Context, readerID, bookID uint) (*Lending, error) {
	rd, err := s.readers.FindByID(ctx, readerID)
	if err != nil {
		return nil, err
	}

	// 锁定图书行,同一本书的并发借出在此串行化
	bk, err := s.books.LockByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	open, err := s.repo.FindOpenByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrBookAlreadyLent.
			WithDetail("book_id", bookID).
			WithDetail("lending_id", open.ID)
	}

	l := NewLending(readerID, bookID, clock.Today(s.clock))
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	l.Reader = rd
	l.Book = bk
	return l, nil
}

func (s *service) Return(ctx context.Context, id uint) (*Lending, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.Return(clock.Today(s.clock)); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) Update(ctx context.Context, id uint, cmd UpdateCommand) (*Lending, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rd, err := s.readers.FindByID(ctx, cmd.ReaderID)
	if err != nil {
		return nil, err
	}

	bk, err := s.books.LockByID(ctx, cmd.BookID)
	if err != nil {
		return nil, err
	}

	bookChanged := cmd.BookID != l.BookID
	reopening := !l.IsOpen() && cmd.ReturnDate == nil
	if bookChanged || reopening {
		open, err := s.repo.FindOpenByBookID(ctx, cmd.BookID)
		if err != nil {
			return nil, err
		}
		if open != nil && open.ID != l.ID {
			return nil, ErrBookAlreadyLent.
				WithDetail("book_id", cmd.BookID).
				WithDetail("lending_id", open.ID)
		}
	}

	l.ReaderID = cmd.ReaderID
	l.BookID = cmd.BookID
	if !cmd.DateOfIssue.IsZero() {
		l.DateOfIssue = clock.DateOf(cmd.DateOfIssue)
	}
	l.ReturnDate = nil
	if cmd.ReturnDate != nil {
		d := clock.DateOf(*cmd.ReturnDate)
		l.ReturnDate = &d
	}

	if err := l.CheckDates(clock.Today(s.clock)); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	l.Reader = rd
	l.Book = bk
	return l, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l.IsOpen() {
		return ErrActiveLoanDeletion.WithDetail("lending_id", id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id uint) (*Lending, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Lending, int64, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *service) ListOpen(ctx context.Context) ([]*Lending, error) {
	return s.repo.ListOpen(ctx)
}

func (s *service) ListOverdue(ctx context.Context, asOf time.Time) ([]*Lending, error) {
	if asOf.IsZero() {
		asOf = clock.Today(s.clock)
	}
	return s.repo.ListOverdue(ctx, clock.DateOf(asOf))
}

func (s *service) ListByReader(ctx context.Context, readerID uint) ([]*Lending, error) {
	if _, err := s.readers.FindByID(ctx, readerID); err != nil {
		return nil, err
	}
	return s.repo.ListByReader(ctx, readerID)
}

func (s *service) ListIssuedBetween(ctx context.Context, from, to time.Time) ([]*Lending, error) {
	from, to = clock.DateOf(from), clock.DateOf(to)
	if from.After(to) {
		return nil, ErrInvalidPeriod
	}
	return s.repo.ListIssuedBetween(ctx, from, to)
}
