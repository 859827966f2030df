package librarian

import (
	"context"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/librarian"
)

// RegisterUseCase 创建馆员账号
type RegisterUseCase struct {
	librarians librarian.Service
	txManager  application.TxManager
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(librarians librarian.Service, txManager application.TxManager) *RegisterUseCase {
	return &RegisterUseCase{librarians: librarians, txManager: txManager}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	FullName string
}

// Info 馆员信息(不含密码)
type Info struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func infoOf(l *librarian.Librarian) Info {
	return Info{ID: l.ID, Email: l.Email, FullName: l.FullName}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*Info, error) {
	var l *librarian.Librarian
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		l, err = uc.librarians.Register(ctx, req.Email, req.Password, req.FullName)
		return err
	})
	if err != nil {
		return nil, err
	}
	info := infoOf(l)
	return &info, nil
}
