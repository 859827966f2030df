package book

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/tracing"
)

// BookRequest 登记/更新图书的输入
type BookRequest struct {
	Name              string
	Author            string
	Genre             string
	PublishingHouse   string
	YearOfPublication *int
}

func (r BookRequest) toEntity() *book.Book {
	return book.NewBook(r.Name, r.Author, r.Genre, r.PublishingHouse, r.YearOfPublication)
}

// RegisterBookUseCase 登记图书用例
// 1. 先做字段校验,失败时不触达数据库
// 2. 三元组查重和写入在同一个事务内
type RegisterBookUseCase struct {
	books     book.Service
	txManager application.TxManager
	validator application.Validator
}

// NewRegisterBookUseCase 创建登记用例
func NewRegisterBookUseCase(books book.Service, txManager application.TxManager, v application.Validator) *RegisterBookUseCase {
	return &RegisterBookUseCase{books: books, txManager: txManager, validator: v}
}

// Execute 执行登记
func (uc *RegisterBookUseCase) Execute(ctx context.Context, req BookRequest) (b *book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "RegisterBook")
	defer func() { tracing.End(span, err) }()

	data := req.toEntity()
	if err = uc.validator.Struct(data); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = uc.books.RegisterBook(ctx, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBookUseCase 更新图书用例(覆盖全部可变字段)
type UpdateBookUseCase struct {
	books     book.Service
	txManager application.TxManager
	validator application.Validator
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(books book.Service, txManager application.TxManager, v application.Validator) *UpdateBookUseCase {
	return &UpdateBookUseCase{books: books, txManager: txManager, validator: v}
}

// Execute 执行更新
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, req BookRequest) (b *book.Book, err error) {
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "UpdateBook")
	defer func() { tracing.End(span, err) }()

	data := req.toEntity()
	if err = uc.validator.Struct(data); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = uc.books.UpdateBook(ctx, id, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	books     book.Service
	txManager application.TxManager
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(books book.Service, txManager application.TxManager) *DeleteBookUseCase {
	return &DeleteBookUseCase{books: books, txManager: txManager}
}

// Execute 执行删除,存在未归还借阅时返回ErrBookHasActiveLoan
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "DeleteBook")
	defer func() { tracing.End(span, err) }()

	return uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		return uc.books.DeleteBook(ctx, id)
	})
}
