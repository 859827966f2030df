package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/application/dashboard"
	"github.com/xiebiao/library/pkg/response"
)

// DashboardHandler 首页统计
type DashboardHandler struct {
	summary *dashboard.SummaryUseCase
}

// NewDashboardHandler 创建统计处理器
func NewDashboardHandler(summary *dashboard.SummaryUseCase) *DashboardHandler {
	return &DashboardHandler{summary: summary}
}

// Summary 读者数、图书数、未归还和逾期借阅数
// @Summary      首页统计
// @Tags         统计
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dashboard.Summary}
// @Router       /api/v1/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	s, err := h.summary.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s)
}
