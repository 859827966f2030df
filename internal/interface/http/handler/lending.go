package handler

import (
	"github.com/gin-gonic/gin"

	applending "github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/response"
)

// LendingHandler 借阅HTTP处理器
type LendingHandler struct {
	issue  *applending.IssueBookUseCase
	ret    *applending.ReturnBookUseCase
	update *applending.UpdateLendingUseCase
	remove *applending.DeleteLendingUseCase
	query  *applending.QueryLendingsUseCase
	clock  clock.Clock
}

// NewLendingHandler 创建借阅处理器
func NewLendingHandler(
	issue *applending.IssueBookUseCase,
	ret *applending.ReturnBookUseCase,
	update *applending.UpdateLendingUseCase,
	remove *applending.DeleteLendingUseCase,
	query *applending.QueryLendingsUseCase,
	c clock.Clock,
) *LendingHandler {
	return &LendingHandler{issue: issue, ret: ret, update: update, remove: remove, query: query, clock: c}
}

// Issue 借出图书
// @Summary      借出图书
// @Description  借出日期为今天,应还日期为14天后;图书已借出时返回409
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.IssueRequest true "读者和图书"
// @Success      201 {object} response.Response{data=dto.LendingResponse}
// @Failure      404 {object} response.Response "读者或图书不存在"
// @Failure      409 {object} response.Response "图书已借出"
// @Router       /api/v1/lendings/issue [post]
func (h *LendingHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	l, err := h.issue.Execute(c.Request.Context(), applending.IssueBookRequest{ReaderID: req.ReaderID, BookID: req.BookID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewLendingResponse(l, clock.Today(h.clock)))
}

// Return 归还图书
// @Summary      归还图书
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=dto.LendingResponse}
// @Failure      404 {object} response.Response "借阅不存在"
// @Failure      409 {object} response.Response "已归还"
// @Router       /api/v1/lendings/{id}/return [post]
func (h *LendingHandler) Return(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	l, err := h.ret.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLendingResponse(l, clock.Today(h.clock)))
}

// Update 更正借阅记录
// @Summary      更正借阅记录
// @Description  可更换读者、图书和日期;return_date为null可重新打开已归还记录
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Param        request body dto.UpdateLendingRequest true "借阅信息"
// @Success      200 {object} response.Response{data=dto.LendingResponse}
// @Failure      404 {object} response.Response "借阅、读者或图书不存在"
// @Failure      409 {object} response.Response "图书已借出"
// @Failure      422 {object} response.Response "日期非法"
// @Router       /api/v1/lendings/{id} [put]
func (h *LendingHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateLendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	in, err := req.ToApp()
	if err != nil {
		response.Error(c, err)
		return
	}

	l, err := h.update.Execute(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLendingResponse(l, clock.Today(h.clock)))
}

// Delete 删除借阅记录
// @Summary      删除借阅记录
// @Description  只能删除已归还的记录
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "借阅未归还"
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /api/v1/lendings/{id} [delete]
func (h *LendingHandler) Delete(c *gin.Context) {
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

// Get 借阅详情
// @Summary      借阅详情
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=dto.LendingResponse}
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /api/v1/lendings/{id} [get]
func (h *LendingHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	l, err := h.query.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLendingResponse(l, clock.Today(h.clock)))
}

// List 借阅列表
// @Summary      借阅列表
// @Description  给出from和to时按借出日期区间查询(含两端,不分页),否则分页返回全部
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        from query string false "起始日期" format(date)
// @Param        to query string false "结束日期" format(date)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.LendingResponse}}
// @Router       /api/v1/lendings [get]
func (h *LendingHandler) List(c *gin.Context) {
	var req dto.ListLendingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	ctx := c.Request.Context()
	today := clock.Today(h.clock)

	if req.From != "" || req.To != "" {
		from, err := dto.ParseDate("from", req.From)
		if err != nil {
			response.Error(c, err)
			return
		}
		to, err := dto.ParseDate("to", req.To)
		if err != nil {
			response.Error(c, err)
			return
		}
		list, err := h.query.ListIssuedBetween(ctx, from, to)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.NewLendingList(list, today))
		return
	}

	params := lending.ListParams{Page: req.Page, PageSize: req.PageSize}
	params.Normalize()
	list, total, err := h.query.List(ctx, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewLendingList(list, today), total, params.Page, params.PageSize)
}

// Open 未归还借阅
// @Summary      未归还借阅
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.LendingResponse}
// @Router       /api/v1/lendings/open [get]
func (h *LendingHandler) Open(c *gin.Context) {
	list, err := h.query.ListOpen(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLendingList(list, clock.Today(h.clock)))
}

// Overdue 逾期借阅
// @Summary      逾期借阅
// @Description  未归还且应还日期早于as_of(缺省为今天)
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        as_of query string false "参考日期" format(date)
// @Success      200 {object} response.Response{data=[]dto.LendingResponse}
// @Failure      422 {object} response.Response "日期格式错误"
// @Router       /api/v1/lendings/overdue [get]
func (h *LendingHandler) Overdue(c *gin.Context) {
	var req dto.OverdueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	asOf, err := dto.ParseOptionalDate("as_of", req.AsOf)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.query.ListOverdue(c.Request.Context(), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}
	if asOf.IsZero() {
		asOf = clock.Today(h.clock)
	}
	response.Success(c, dto.NewLendingList(list, asOf))
}
