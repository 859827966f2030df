package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建图书,唯一索引冲突返回ErrBookDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除,历史借阅记录仍可引用)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表,可按字段过滤
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
	// 借出图书时锁定图书行,串行化同一本书的并发借出
	LockByID(ctx context.Context, id uint) (*Book, error)

	// ExistsByIdentity 检查三元组是否已被其他图书占用
	// excludeID为0时不排除任何图书
	ExistsByIdentity(ctx context.Context, identity Identity, excludeID uint) (bool, error)
}

// LoanChecker 查询图书是否有未归还的借阅(由借阅仓储实现)
type LoanChecker interface {
	ExistsOpenByBookID(ctx context.Context, bookID uint) (bool, error)
}

// SearchField 搜索字段
type SearchField string

const (
	SearchByName   SearchField = "name"   // 书名包含,忽略大小写
	SearchByAuthor SearchField = "author" // 作者包含,忽略大小写
	SearchByGenre  SearchField = "genre"  // 体裁精确匹配
)

// Valid 是否为支持的搜索字段(空表示不过滤)
func (f SearchField) Valid() bool {
	switch f {
	case "", SearchByName, SearchByAuthor, SearchByGenre:
		return true
	}
	return false
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int         // 页码(从1开始)
	PageSize int         // 每页数量
	Field    SearchField // 搜索字段
	Query    string      // 搜索值
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
