package reader

import (
	"time"
)

// Reader 读者实体(聚合根)
// 1. 读者证号全局唯一
// 2. (名, 姓, 出生日期)三元组全局唯一
// 3. 姓名为首字母大写的西里尔字母,电话为10位数字
type Reader struct {
	ID            uint
	ReadersTicket string    `validate:"required,max=20"`
	LastName      string    `validate:"required,ru_name"`
	FirstName     string    `validate:"required,ru_name"`
	MiddleName    string    `validate:"omitempty,ru_name"`
	DateOfBirth   time.Time `validate:"required,past_date"`
	Email         string    `validate:"omitempty,max=100,email"`
	Phone         string    `validate:"required,phone10"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity 读者唯一性三元组
type Identity struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
}

// Identity 返回唯一性三元组
func (r *Reader) Identity() Identity {
	return Identity{FirstName: r.FirstName, LastName: r.LastName, DateOfBirth: r.DateOfBirth}
}

// FullName 姓 名 父称
func (r *Reader) FullName() string {
	name := r.LastName + " " + r.FirstName
	if r.MiddleName != "" {
		name += " " + r.MiddleName
	}
	return name
}

// Overwrite 用新数据覆盖全部可变字段
func (r *Reader) Overwrite(data *Reader) {
	r.ReadersTicket = data.ReadersTicket
	r.LastName = data.LastName
	r.FirstName = data.FirstName
	r.MiddleName = data.MiddleName
	r.DateOfBirth = data.DateOfBirth
	r.Email = data.Email
	r.Phone = data.Phone
}
