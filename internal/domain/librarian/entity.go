package librarian

import (
	"time"
)

// Librarian 馆员实体,使用本系统的工作人员
// Password为bcrypt哈希值,不提供读取明文的方法
type Librarian struct {
	ID        uint
	Email     string
	Password  string
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLibrarian 创建馆员(hashedPassword必须已加密)
func NewLibrarian(email, hashedPassword, fullName string) *Librarian {
	return &Librarian{
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
	}
}
