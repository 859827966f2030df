package reader

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/reader"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReaderRequest 登记/更新读者的输入
type ReaderRequest struct {
	ReadersTicket string
	LastName      string
	FirstName     string
	MiddleName    string
	DateOfBirth   time.Time
	Email         string
	Phone         string
}

func (r ReaderRequest) toEntity() *reader.Reader {
	return &reader.Reader{
		ReadersTicket: r.ReadersTicket,
		LastName:      r.LastName,
		FirstName:     r.FirstName,
		MiddleName:    r.MiddleName,
		DateOfBirth:   clock.DateOf(r.DateOfBirth),
		Email:         r.Email,
		Phone:         r.Phone,
	}
}

// RegisterReaderUseCase 登记读者用例
type RegisterReaderUseCase struct {
	readers   reader.Service
	txManager application.TxManager
	validator application.Validator
}

// NewRegisterReaderUseCase 创建登记用例
func NewRegisterReaderUseCase(readers reader.Service, txManager application.TxManager, v application.Validator) *RegisterReaderUseCase {
	return &RegisterReaderUseCase{readers: readers, txManager: txManager, validator: v}
}

// Execute 执行登记
// 证号重复返回ErrTicketDuplicate,三元组重复返回ErrReaderDuplicate
func (uc *RegisterReaderUseCase) Execute(ctx context.Context, req ReaderRequest) (r *reader.Reader, err error) {
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "RegisterReader")
	defer func() { tracing.End(span, err) }()

	data := req.toEntity()
	if err = uc.validator.Struct(data); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = uc.readers.RegisterReader(ctx, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReaderUseCase 更新读者用例
type UpdateReaderUseCase struct {
	readers   reader.Service
	txManager application.TxManager
	validator application.Validator
}

// NewUpdateReaderUseCase 创建更新用例
func NewUpdateReaderUseCase(readers reader.Service, txManager application.TxManager, v application.Validator) *UpdateReaderUseCase {
	return &UpdateReaderUseCase{readers: readers, txManager: txManager, validator: v}
}

// Execute 执行更新
func (uc *UpdateReaderUseCase) Execute(ctx context.Context, id uint, req ReaderRequest) (r *reader.Reader, err error) {
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "UpdateReader")
	defer func() { tracing.End(span, err) }()

	data := req.toEntity()
	if err = uc.validator.Struct(data); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = uc.readers.UpdateReader(ctx, id, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReaderUseCase 删除读者用例
type DeleteReaderUseCase struct {
	readers   reader.Service
	txManager application.TxManager
}

// NewDeleteReaderUseCase 创建删除用例
func NewDeleteReaderUseCase(readers reader.Service, txManager application.TxManager) *DeleteReaderUseCase {
	return &DeleteReaderUseCase{readers: readers, txManager: txManager}
}

// Execute 执行删除,读者有未归还借阅时返回ErrReaderHasActiveLoan
func (uc *DeleteReaderUseCase) Execute(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "DeleteReader")
	defer func() { tracing.End(span, err) }()

	return uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		return uc.readers.DeleteReader(ctx, id)
	})
}
