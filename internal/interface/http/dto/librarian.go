package dto

// RegisterLibrarianRequest 创建馆员请求
type RegisterLibrarianRequest struct {
	Email    string `json:"email" binding:"required,email" example:"anna@library.ru"`
	Password string `json:"password" binding:"required" example:"secret123"`
	FullName string `json:"full_name" binding:"required" example:"Анна Смирнова"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"anna@library.ru"`
	Password string `json:"password" binding:"required" example:"secret123"`
}
