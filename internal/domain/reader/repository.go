package reader

import (
	"context"
)

// Repository 读者仓储接口
type Repository interface {
	Create(ctx context.Context, reader *Reader) error
	FindByID(ctx context.Context, id uint) (*Reader, error)
	FindByTicket(ctx context.Context, ticket string) (*Reader, error)
	Update(ctx context.Context, reader *Reader) error

	// Delete 软删除,历史借阅记录仍可引用
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Reader, int64, error)

	// ExistsByIdentity 三元组是否被其他读者占用(excludeID为0不排除)
	ExistsByIdentity(ctx context.Context, identity Identity, excludeID uint) (bool, error)

	// ExistsByTicket 读者证号是否被其他读者占用(excludeID为0不排除)
	ExistsByTicket(ctx context.Context, ticket string, excludeID uint) (bool, error)
}

// LoanChecker 查询读者是否有未归还的借阅(由借阅仓储实现)
type LoanChecker interface {
	ExistsOpenByReaderID(ctx context.Context, readerID uint) (bool, error)
}

// SearchField 搜索字段
type SearchField string

const (
	SearchByLastName SearchField = "last_name" // 姓氏精确匹配,忽略大小写
	SearchByTicket   SearchField = "ticket"    // 读者证号精确匹配
)

// Valid 是否为支持的搜索字段(空表示不过滤)
func (f SearchField) Valid() bool {
	switch f {
	case "", SearchByLastName, SearchByTicket:
		return true
	}
	return false
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	Field    SearchField
	Query    string
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
