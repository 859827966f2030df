package rdb

import (
	"time"

	"gorm.io/gorm"
)

// 唯一索引名,错误翻译时据此区分冲突原因
const (
	idxBookIdentity    = "uq_book_identity"
	idxReaderTicket    = "uq_reader_ticket"
	idxReaderIdentity  = "uq_reader_identity"
	idxLendingIdentity = "uq_lending_reader_book_issue"
	idxLendingOpenBook = "uq_lending_open_book"
)

// LibrarianModel GORM馆员模型
type LibrarianModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null"`
	Password  string         `gorm:"size:255;not null"`
	FullName  string         `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName 指定表名
func (LibrarianModel) TableName() string {
	return "librarians"
}

// BookModel GORM图书模型
// (name, author, publishing_house)唯一
type BookModel struct {
	ID                uint           `gorm:"primaryKey"`
	Name              string         `gorm:"uniqueIndex:uq_book_identity;size:225;not null"`
	Author            string         `gorm:"uniqueIndex:uq_book_identity;size:100;not null"`
	Genre             string         `gorm:"index;size:50"`
	PublishingHouse   string         `gorm:"uniqueIndex:uq_book_identity;size:50;not null"`
	YearOfPublication *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReaderModel GORM读者模型
// readers_ticket唯一;(first_name, last_name, date_of_birth)唯一
type ReaderModel struct {
	ID            uint           `gorm:"primaryKey"`
	ReadersTicket string         `gorm:"uniqueIndex:uq_reader_ticket;size:20;not null"`
	LastName      string         `gorm:"uniqueIndex:uq_reader_identity;index;size:50;not null"`
	FirstName     string         `gorm:"uniqueIndex:uq_reader_identity;size:50;not null"`
	MiddleName    string         `gorm:"size:50"`
	DateOfBirth   time.Time      `gorm:"uniqueIndex:uq_reader_identity;type:date;not null"`
	Email         string         `gorm:"size:100"`
	Phone         string         `gorm:"size:10;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName 指定表名
func (ReaderModel) TableName() string {
	return "readers"
}

// LendingModel GORM借阅模型
// 1. (reader_id, book_id, date_of_issue)唯一
// 2. open_book_id在未归还时等于book_id,归还后为NULL;
//    其唯一索引保证同一本书最多一条未归还记录(NULL互不冲突)
// 3. 外键RESTRICT,图书和读者只做软删除
type LendingModel struct {
	ID          uint        `gorm:"primaryKey"`
	ReaderID    uint        `gorm:"uniqueIndex:uq_lending_reader_book_issue;not null"`
	BookID      uint        `gorm:"uniqueIndex:uq_lending_reader_book_issue;index;not null"`
	DateOfIssue time.Time   `gorm:"uniqueIndex:uq_lending_reader_book_issue;type:date;not null"`
	DateOfDue   time.Time   `gorm:"index;type:date;not null"`
	ReturnDate  *time.Time  `gorm:"type:date"`
	OpenBookID  *uint       `gorm:"uniqueIndex:uq_lending_open_book"`
	Reader      ReaderModel `gorm:"foreignKey:ReaderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Book        BookModel   `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定表名
func (LendingModel) TableName() string {
	return "book_lendings"
}
