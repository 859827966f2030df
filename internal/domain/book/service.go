package book

import (
	"context"
)

// Service 图书领域服务接口
type Service interface {
	// RegisterBook 登记图书
	// 业务规则:(书名,作者,出版社)不能重复
	RegisterBook(ctx context.Context, book *Book) (*Book, error)

	// UpdateBook 覆盖图书全部可变字段
	// 业务规则:新三元组不能与其他图书重复(不与自身比较)
	UpdateBook(ctx context.Context, id uint, data *Book) (*Book, error)

	// DeleteBook 删除图书
	// 业务规则:存在未归还借阅时不可删除
	DeleteBook(ctx context.Context, id uint) error

	// GetBookByID 根据ID获取图书
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// ListBooks 分页查询/搜索图书
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo  Repository
	loans LoanChecker
}

// NewService 创建图书领域服务
func NewService(repo Repository, loans LoanChecker) Service {
	return &service{repo: repo, loans: loans}
}

func (s *service) RegisterBook(ctx context.Context, book *Book) (*Book, error) {
	exists, err := s.repo.ExistsByIdentity(ctx, book.Identity(), 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBookDuplicate
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) UpdateBook(ctx context.Context, id uint, data *Book) (*Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByIdentity(ctx, data.Identity(), id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBookDuplicate.WithDetail("book_id", id)
	}

	book.Overwrite(data)
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	open, err := s.loans.ExistsOpenByBookID(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return ErrBookHasActiveLoan.WithDetail("book_id", id)
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if !params.Field.Valid() {
		return nil, 0, ErrInvalidSearchField
	}
	params.Normalize()
	return s.repo.List(ctx, params)
}
