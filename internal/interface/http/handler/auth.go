package handler

import (
	"github.com/gin-gonic/gin"

	applibrarian "github.com/xiebiao/library/internal/application/librarian"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// AuthHandler 馆员账号HTTP处理器
type AuthHandler struct {
	register *applibrarian.RegisterUseCase
	login    *applibrarian.LoginUseCase
	logout   *applibrarian.LogoutUseCase
}

// NewAuthHandler 创建账号处理器
func NewAuthHandler(
	register *applibrarian.RegisterUseCase,
	login *applibrarian.LoginUseCase,
	logout *applibrarian.LogoutUseCase,
) *AuthHandler {
	return &AuthHandler{register: register, login: login, logout: logout}
}

// Register 创建馆员账号
// @Summary      创建馆员
// @Description  由已登录馆员创建新账号
// @Tags         馆员
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterLibrarianRequest true "馆员信息"
// @Success      201 {object} response.Response{data=applibrarian.Info}
// @Failure      409 {object} response.Response "邮箱已存在或密码强度不足"
// @Router       /api/v1/librarians [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterLibrarianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	info, err := h.register.Execute(c.Request.Context(), applibrarian.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, info)
}

// Login 馆员登录
// @Summary      馆员登录
// @Description  验证邮箱密码,返回JWT Access Token
// @Tags         馆员
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=applibrarian.LoginResponse}
// @Failure      401 {object} response.Response "密码错误"
// @Failure      404 {object} response.Response "馆员不存在"
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	resp, err := h.login.Execute(c.Request.Context(), applibrarian.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Logout 馆员登出
// @Summary      馆员登出
// @Description  删除会话并使当前Token失效
// @Tags         馆员
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	if err := h.logout.Execute(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
