package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var bookColumns = []string{"name", "author", "genre", "publishing_house", "year_of_publication"}

// bookRepository 图书仓储实现
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 唯一索引冲突转换为ErrBookDuplicate
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if _, dup := uniqueViolation(err); dup {
			return book.ErrBookDuplicate.WithCause(err)
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound.WithDetail("book_id", id)
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// LockByID 悲观锁查询图书
// SELECT * FROM books WHERE id = ? FOR UPDATE
// 必须在事务中调用,锁在事务结束时释放(SQLite没有行锁,由库级写锁串行化)
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound.WithDetail("book_id", id)
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 覆盖图书可变字段
// 使用Select保证零值字段(如清空体裁)也会写入
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	result := getDB(ctx, r.db).Model(model).Select(bookColumns).Updates(model)
	if result.Error != nil {
		if _, dup := uniqueViolation(result.Error); dup {
			return book.ErrBookDuplicate.WithCause(result.Error)
		}
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound.WithDetail("book_id", b.ID)
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound.WithDetail("book_id", id)
	}
	return nil
}

// List 分页查询图书列表
// name/author包含匹配且忽略大小写,genre精确匹配
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	params.Normalize()
	db := getDB(ctx, r.db)
	query := db.Model(&BookModel{})

	if params.Query != "" {
		switch params.Field {
		case book.SearchByName:
			query = query.Where(containsFold(db, "name"), "%"+params.Query+"%")
		case book.SearchByAuthor:
			query = query.Where(containsFold(db, "author"), "%"+params.Query+"%")
		case book.SearchByGenre:
			query = query.Where("genre = ?", params.Query)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	var models []BookModel
	offset := (params.Page - 1) * params.PageSize
	if err := query.Order("id ASC").Offset(offset).Limit(params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books, total, nil
}

// ExistsByIdentity 检查三元组是否已被占用
// 包含已软删除的图书,与唯一索引的判定范围一致
func (r *bookRepository) ExistsByIdentity(ctx context.Context, identity book.Identity, excludeID uint) (bool, error) {
	query := getDB(ctx, r.db).Unscoped().Model(&BookModel{}).
		Where("name = ? AND author = ? AND publishing_house = ?",
			identity.Name, identity.Author, identity.PublishingHouse)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "检查图书唯一性失败")
	}
	return count > 0, nil
}

// containsFold 忽略大小写的包含匹配条件
// PostgreSQL使用ILIKE,其余方言使用LOWER(col) LIKE LOWER(?)
func containsFold(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "postgres" {
		return column + " ILIKE ?"
	}
	return "LOWER(" + column + ") LIKE LOWER(?)"
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:                b.ID,
		Name:              b.Name,
		Author:            b.Author,
		Genre:             b.Genre,
		PublishingHouse:   b.PublishingHouse,
		YearOfPublication: b.YearOfPublication,
		CreatedAt:         b.CreatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:                m.ID,
		Name:              m.Name,
		Author:            m.Author,
		Genre:             m.Genre,
		PublishingHouse:   m.PublishingHouse,
		YearOfPublication: m.YearOfPublication,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
