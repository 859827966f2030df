package book

import (
	"time"
)

// Book 图书实体(聚合根)
// 1. (书名, 作者, 出版社)三元组全局唯一(数据库唯一索引保证)
// 2. 出版年份可为空,非空时为4位数字且不晚于今年
// 3. 借阅记录引用图书,但不归图书所有
//
// validate标签由pkg/validator解释,应用层在调用服务前校验
type Book struct {
	ID                uint
	Name              string `validate:"required,max=225"`
	Author            string `validate:"required,max=100,ru_words"`
	Genre             string `validate:"omitempty,max=50,ru_text"`
	PublishingHouse   string `validate:"required,max=50"`
	YearOfPublication *int   `validate:"omitempty,pub_year"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Identity 图书唯一性三元组
type Identity struct {
	Name            string
	Author          string
	PublishingHouse string
}

// NewBook 创建新图书(工厂方法)
func NewBook(name, author, genre, publishingHouse string, year *int) *Book {
	return &Book{
		Name:              name,
		Author:            author,
		Genre:             genre,
		PublishingHouse:   publishingHouse,
		YearOfPublication: year,
	}
}

// Identity 返回唯一性三元组
func (b *Book) Identity() Identity {
	return Identity{Name: b.Name, Author: b.Author, PublishingHouse: b.PublishingHouse}
}

// Overwrite 用新数据覆盖全部可变字段
func (b *Book) Overwrite(data *Book) {
	b.Name = data.Name
	b.Author = data.Author
	b.Genre = data.Genre
	b.PublishingHouse = data.PublishingHouse
	b.YearOfPublication = data.YearOfPublication
}
