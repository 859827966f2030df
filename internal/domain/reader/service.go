package reader

import (
	"context"

	"github.com/xiebiao/library/pkg/clock"
)

// Service 读者领域服务接口
type Service interface {
	// RegisterReader 登记读者
	// 业务规则:读者证号不能重复;(名,姓,出生日期)不能重复
	RegisterReader(ctx context.Context, reader *Reader) (*Reader, error)

	// UpdateReader 覆盖读者全部可变字段
	// 业务规则:三元组和读者证号不能与其他读者重复
	UpdateReader(ctx context.Context, id uint, data *Reader) (*Reader, error)

	// DeleteReader 删除读者
	// 业务规则:存在未归还借阅时不可删除
	DeleteReader(ctx context.Context, id uint) error

	GetReaderByID(ctx context.Context, id uint) (*Reader, error)
	GetReaderByTicket(ctx context.Context, ticket string) (*Reader, error)
	ListReaders(ctx context.Context, params ListParams) ([]*Reader, int64, error)
}

type service struct {
	repo  Repository
	loans LoanChecker
}

// NewService 创建读者领域服务
func NewService(repo Repository, loans LoanChecker) Service {
	return &service{repo: repo, loans: loans}
}

func (s *service) RegisterReader(ctx context.Context, reader *Reader) (*Reader, error) {
	reader.DateOfBirth = clock.DateOf(reader.DateOfBirth)
	if err := s.checkUnique(ctx, reader, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, reader); err != nil {
		return nil, err
	}
	return reader, nil
}

func (s *service) UpdateReader(ctx context.Context, id uint, data *Reader) (*Reader, error) {
	reader, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data.DateOfBirth = clock.DateOf(data.DateOfBirth)
	if err := s.checkUnique(ctx, data, id); err != nil {
		return nil, err
	}

	reader.Overwrite(data)
	if err := s.repo.Update(ctx, reader); err != nil {
		return nil, err
	}
	return reader, nil
}

func (s *service) checkUnique(ctx context.Context, r *Reader, excludeID uint) error {
	taken, err := s.repo.ExistsByTicket(ctx, r.ReadersTicket, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrTicketDuplicate.WithDetail("readers_ticket", r.ReadersTicket)
	}

	taken, err = s.repo.ExistsByIdentity(ctx, r.Identity(), excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrReaderDuplicate
	}
	return nil
}

func (s *service) DeleteReader(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	open, err := s.loans.ExistsOpenByReaderID(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return ErrReaderHasActiveLoan.WithDetail("reader_id", id)
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) GetReaderByID(ctx context.Context, id uint) (*Reader, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetReaderByTicket(ctx context.Context, ticket string) (*Reader, error) {
	return s.repo.FindByTicket(ctx, ticket)
}

func (s *service) ListReaders(ctx context.Context, params ListParams) ([]*Reader, int64, error) {
	if !params.Field.Valid() {
		return nil, 0, ErrInvalidSearchField
	}
	params.Normalize()
	return s.repo.List(ctx, params)
}
