package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/reader"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var readerColumns = []string{
	"readers_ticket", "last_name", "first_name", "middle_name",
	"date_of_birth", "email", "phone",
}

type readerRepository struct {
	db *gorm.DB
}

// NewReaderRepository 创建读者仓储
func NewReaderRepository(db *gorm.DB) reader.Repository {
	return &readerRepository{db: db}
}

// Create 创建读者
// readers_ticket冲突返回ErrTicketDuplicate,三元组冲突返回ErrReaderDuplicate
func (r *readerRepository) Create(ctx context.Context, rd *reader.Reader) error {
	model := toReaderModel(rd)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return readerWriteError(err, "创建读者失败")
	}

	rd.ID = model.ID
	rd.CreatedAt = model.CreatedAt
	rd.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *readerRepository) FindByID(ctx context.Context, id uint) (*reader.Reader, error) {
	var model ReaderModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reader.ErrReaderNotFound.WithDetail("reader_id", id)
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}
	return toReaderEntity(&model), nil
}

func (r *readerRepository) FindByTicket(ctx context.Context, ticket string) (*reader.Reader, error) {
	var model ReaderModel
	if err := getDB(ctx, r.db).Where("readers_ticket = ?", ticket).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reader.ErrReaderNotFound.WithDetail("readers_ticket", ticket)
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}
	return toReaderEntity(&model), nil
}

func (r *readerRepository) Update(ctx context.Context, rd *reader.Reader) error {
	model := toReaderModel(rd)
	result := getDB(ctx, r.db).Model(model).Select(readerColumns).Updates(model)
	if result.Error != nil {
		return readerWriteError(result.Error, "更新读者失败")
	}
	if result.RowsAffected == 0 {
		return reader.ErrReaderNotFound.WithDetail("reader_id", rd.ID)
	}

	rd.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 软删除
func (r *readerRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&ReaderModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除读者失败")
	}
	if result.RowsAffected == 0 {
		return reader.ErrReaderNotFound.WithDetail("reader_id", id)
	}
	return nil
}

// List 分页查询读者,姓氏忽略大小写精确匹配,读者证号精确匹配
func (r *readerRepository) List(ctx context.Context, params reader.ListParams) ([]*reader.Reader, int64, error) {
	params.Normalize()
	query := getDB(ctx, r.db).Model(&ReaderModel{})

	if params.Query != "" {
		switch params.Field {
		case reader.SearchByLastName:
			query = query.Where("LOWER(last_name) = LOWER(?)", params.Query)
		case reader.SearchByTicket:
			query = query.Where("readers_ticket = ?", params.Query)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者总数失败")
	}

	var models []ReaderModel
	offset := (params.Page - 1) * params.PageSize
	if err := query.Order("last_name ASC, first_name ASC, id ASC").
		Offset(offset).Limit(params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者列表失败")
	}

	readers := make([]*reader.Reader, 0, len(models))
	for i := range models {
		readers = append(readers, toReaderEntity(&models[i]))
	}
	return readers, total, nil
}

// ExistsByIdentity 三元组是否已被占用(包含已软删除的读者)
func (r *readerRepository) ExistsByIdentity(ctx context.Context, identity reader.Identity, excludeID uint) (bool, error) {
	query := getDB(ctx, r.db).Unscoped().Model(&ReaderModel{}).
		Where("first_name = ? AND last_name = ? AND date_of_birth = ?",
			identity.FirstName, identity.LastName, clock.DateOf(identity.DateOfBirth))
	return r.exists(query, excludeID)
}

// ExistsByTicket 读者证号是否已被占用(包含已软删除的读者)
func (r *readerRepository) ExistsByTicket(ctx context.Context, ticket string, excludeID uint) (bool, error) {
	query := getDB(ctx, r.db).Unscoped().Model(&ReaderModel{}).
		Where("readers_ticket = ?", ticket)
	return r.exists(query, excludeID)
}

func (r *readerRepository) exists(query *gorm.DB, excludeID uint) (bool, error) {
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "检查读者唯一性失败")
	}
	return count > 0, nil
}

func readerWriteError(err error, msg string) error {
	detail, dup := uniqueViolation(err)
	if !dup {
		return apperrors.Wrap(err, msg)
	}
	if violates(detail, idxReaderTicket, "readers_ticket") {
		return reader.ErrTicketDuplicate.WithCause(err)
	}
	return reader.ErrReaderDuplicate.WithCause(err)
}

func toReaderModel(rd *reader.Reader) *ReaderModel {
	return &ReaderModel{
		ID:            rd.ID,
		ReadersTicket: rd.ReadersTicket,
		LastName:      rd.LastName,
		FirstName:     rd.FirstName,
		MiddleName:    rd.MiddleName,
		DateOfBirth:   clock.DateOf(rd.DateOfBirth),
		Email:         rd.Email,
		Phone:         rd.Phone,
		CreatedAt:     rd.CreatedAt,
	}
}

func toReaderEntity(m *ReaderModel) *reader.Reader {
	return &reader.Reader{
		ID:            m.ID,
		ReadersTicket: m.ReadersTicket,
		LastName:      m.LastName,
		FirstName:     m.FirstName,
		MiddleName:    m.MiddleName,
		DateOfBirth:   clock.DateOf(m.DateOfBirth),
		Email:         m.Email,
		Phone:         m.Phone,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
