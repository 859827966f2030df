package rdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var lendingColumns = []string{
	"reader_id", "book_id", "date_of_issue", "date_of_due", "return_date", "open_book_id",
}

// lendingRepository 借阅仓储实现
// 1. open_book_id随归还日期同步维护,唯一索引兜底同一本书的重复借出
// 2. 查询时预加载读者和图书(包含已软删除的记录)
type lendingRepository struct {
	db *gorm.DB
}

// NewLendingRepository 创建借阅仓储
func NewLendingRepository(db *gorm.DB) lending.Repository {
	return &lendingRepository{db: db}
}

// Create 创建借阅记录
func (r *lendingRepository) Create(ctx context.Context, l *lending.Lending) error {
	model := toLendingModel(l)
	if err := getDB(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return lendingWriteError(err, l, "创建借阅记录失败")
	}

	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *lendingRepository) FindByID(ctx context.Context, id uint) (*lending.Lending, error) {
	var model LendingModel
	if err := r.withSnapshots(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lending.ErrLendingNotFound.WithDetail("lending_id", id)
		}
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return toLendingEntity(&model), nil
}

// Update 覆盖借阅记录
func (r *lendingRepository) Update(ctx context.Context, l *lending.Lending) error {
	model := toLendingModel(l)
	result := getDB(ctx, r.db).Model(model).Select(lendingColumns).Updates(model)
	if result.Error != nil {
		return lendingWriteError(result.Error, l, "更新借阅记录失败")
	}
	if result.RowsAffected == 0 {
		return lending.ErrLendingNotFound.WithDetail("lending_id", l.ID)
	}

	l.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 物理删除
func (r *lendingRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&LendingModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除借阅记录失败")
	}
	if result.RowsAffected == 0 {
		return lending.ErrLendingNotFound.WithDetail("lending_id", id)
	}
	return nil
}

func (r *lendingRepository) FindOpenByBookID(ctx context.Context, bookID uint) (*lending.Lending, error) {
	var model LendingModel
	err := getDB(ctx, r.db).Where("open_book_id = ?", bookID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询未归还借阅失败")
	}
	return toLendingEntity(&model), nil
}

func (r *lendingRepository) ExistsOpenByBookID(ctx context.Context, bookID uint) (bool, error) {
	return r.exists(ctx, "open_book_id = ?", bookID)
}

func (r *lendingRepository) ExistsOpenByReaderID(ctx context.Context, readerID uint) (bool, error) {
	return r.exists(ctx, "reader_id = ? AND return_date IS NULL", readerID)
}

func (r *lendingRepository) exists(ctx context.Context, cond string, args ...interface{}) (bool, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&LendingModel{}).Where(cond, args...).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询未归还借阅失败")
	}
	return count > 0, nil
}

// List 分页查询,按借出日期倒序
func (r *lendingRepository) List(ctx context.Context, params lending.ListParams) ([]*lending.Lending, int64, error) {
	params.Normalize()

	var total int64
	if err := getDB(ctx, r.db).Model(&LendingModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅总数失败")
	}

	var models []LendingModel
	offset := (params.Page - 1) * params.PageSize
	err := r.withSnapshots(ctx).
		Order("date_of_issue DESC, id DESC").
		Offset(offset).Limit(params.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅列表失败")
	}
	return toLendingEntities(models), total, nil
}

// ListOpen return_date IS NULL
func (r *lendingRepository) ListOpen(ctx context.Context) ([]*lending.Lending, error) {
	return r.find(ctx, "date_of_due ASC, id ASC", "return_date IS NULL")
}

// ListOverdue return_date IS NULL AND date_of_due < asOf
func (r *lendingRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*lending.Lending, error) {
	return r.find(ctx, "date_of_due ASC, id ASC",
		"return_date IS NULL AND date_of_due < ?", clock.DateOf(asOf))
}

func (r *lendingRepository) ListByReader(ctx context.Context, readerID uint) ([]*lending.Lending, error) {
	return r.find(ctx, "date_of_issue DESC, id DESC", "reader_id = ?", readerID)
}

// ListIssuedBetween 借出日期在[from, to]之间(含两端)
func (r *lendingRepository) ListIssuedBetween(ctx context.Context, from, to time.Time) ([]*lending.Lending, error) {
	return r.find(ctx, "date_of_issue ASC, id ASC",
		"date_of_issue >= ? AND date_of_issue <= ?", clock.DateOf(from), clock.DateOf(to))
}

func (r *lendingRepository) find(ctx context.Context, order string, cond string, args ...interface{}) ([]*lending.Lending, error) {
	var models []LendingModel
	if err := r.withSnapshots(ctx).Where(cond, args...).Order(order).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询借阅记录失败")
	}
	return toLendingEntities(models), nil
}

// withSnapshots 预加载读者和图书,已软删除的也要加载,历史借阅仍需展示
func (r *lendingRepository) withSnapshots(ctx context.Context) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return getDB(ctx, r.db).Preload("Reader", unscoped).Preload("Book", unscoped)
}

func lendingWriteError(err error, l *lending.Lending, msg string) error {
	detail, dup := uniqueViolation(err)
	if !dup {
		return apperrors.Wrap(err, msg)
	}
	if violates(detail, idxLendingOpenBook, "open_book_id") {
		return lending.ErrBookAlreadyLent.WithDetail("book_id", l.BookID).WithCause(err)
	}
	return lending.ErrLendingDuplicate.WithCause(err)
}

func toLendingModel(l *lending.Lending) *LendingModel {
	m := &LendingModel{
		ID:          l.ID,
		ReaderID:    l.ReaderID,
		BookID:      l.BookID,
		DateOfIssue: clock.DateOf(l.DateOfIssue),
		DateOfDue:   clock.DateOf(l.DateOfDue),
		CreatedAt:   l.CreatedAt,
	}
	if l.ReturnDate != nil {
		d := clock.DateOf(*l.ReturnDate)
		m.ReturnDate = &d
	} else {
		bookID := l.BookID
		m.OpenBookID = &bookID
	}
	return m
}

func toLendingEntity(m *LendingModel) *lending.Lending {
	l := &lending.Lending{
		ID:          m.ID,
		ReaderID:    m.ReaderID,
		BookID:      m.BookID,
		DateOfIssue: clock.DateOf(m.DateOfIssue),
		DateOfDue:   clock.DateOf(m.DateOfDue),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.ReturnDate != nil {
		d := clock.DateOf(*m.ReturnDate)
		l.ReturnDate = &d
	}
	if m.Reader.ID != 0 {
		l.Reader = toReaderEntity(&m.Reader)
	}
	if m.Book.ID != 0 {
		l.Book = toBookEntity(&m.Book)
	}
	return l
}

func toLendingEntities(models []LendingModel) []*lending.Lending {
	out := make([]*lending.Lending, 0, len(models))
	for i := range models {
		out = append(out, toLendingEntity(&models[i]))
	}
	return out
}
