package handler

import (
	"github.com/gin-gonic/gin"

	applending "github.com/xiebiao/library/internal/application/lending"
	appreader "github.com/xiebiao/library/internal/application/reader"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/response"
)

// ReaderHandler 读者HTTP处理器
type ReaderHandler struct {
	register *appreader.RegisterReaderUseCase
	update   *appreader.UpdateReaderUseCase
	remove   *appreader.DeleteReaderUseCase
	query    *appreader.QueryReadersUseCase
	lendings *applending.QueryLendingsUseCase
	clock    clock.Clock
}

// NewReaderHandler 创建读者处理器
func NewReaderHandler(
	register *appreader.RegisterReaderUseCase,
	update *appreader.UpdateReaderUseCase,
	remove *appreader.DeleteReaderUseCase,
	query *appreader.QueryReadersUseCase,
	lendings *applending.QueryLendingsUseCase,
	c clock.Clock,
) *ReaderHandler {
	return &ReaderHandler{register: register, update: update, remove: remove, query: query, lendings: lendings, clock: c}
}

// Register 登记读者
// @Summary      登记读者
// @Description  读者证号唯一,(名, 姓, 出生日期)唯一
// @Tags         读者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReaderRequest true "读者信息"
// @Success      201 {object} response.Response{data=dto.ReaderResponse}
// @Failure      409 {object} response.Response "证号或读者已存在"
// @Failure      422 {object} response.Response "字段校验失败"
// @Router       /api/v1/readers [post]
func (h *ReaderHandler) Register(c *gin.Context) {
	var req dto.ReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	in, err := req.ToApp()
	if err != nil {
		response.Error(c, err)
		return
	}

	r, err := h.register.Execute(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewReaderResponse(r))
}

// Update 更新读者
// @Summary      更新读者
// @Tags         读者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "读者ID"
// @Param        request body dto.ReaderRequest true "读者信息"
// @Success      200 {object} response.Response{data=dto.ReaderResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Failure      409 {object} response.Response "证号或读者已存在"
// @Failure      422 {object} response.Response "字段校验失败"
// @Router       /api/v1/readers/{id} [put]
func (h *ReaderHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	in, err := req.ToApp()
	if err != nil {
		response.Error(c, err)
		return
	}

	r, err := h.update.Execute(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewReaderResponse(r))
}

// Delete 删除读者
// @Summary      删除读者
// @Description  读者有未归还借阅时不能删除
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "读者ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "读者有未归还借阅"
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/readers/{id} [delete]
func (h *ReaderHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.remove.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Get 读者详情
// @Summary      读者详情
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "读者ID"
// @Success      200 {object} response.Response{data=dto.ReaderResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/readers/{id} [get]
func (h *ReaderHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	r, err := h.query.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewReaderResponse(r))
}

// List 读者列表/搜索
// @Summary      读者列表
// @Description  field=last_name按姓氏精确匹配(忽略大小写),field=ticket按证号精确匹配
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        field query string false "搜索字段" Enums(last_name, ticket)
// @Param        q query string false "搜索值"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.ReaderResponse}}
// @Router       /api/v1/readers [get]
func (h *ReaderHandler) List(c *gin.Context) {
	var req dto.ListReadersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	res, err := h.query.List(c.Request.Context(), req.ToParams())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewReaderList(res.Readers), res.Total, res.Page, res.PageSize)
}

// Lendings 读者的借阅历史
// @Summary      读者借阅历史
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "读者ID"
// @Success      200 {object} response.Response{data=[]dto.LendingResponse}
// @Failure      404 {object} response.Response "读者不存在"
// @Router       /api/v1/readers/{id}/lendings [get]
func (h *ReaderHandler) Lendings(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.lendings.ListByReader(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLendingList(list, clock.Today(h.clock)))
}
