package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-schedule/internal/dto"
	"smart-schedule/internal/service"
	"smart-schedule/pkg/response"
)

// TimetableHandler 排课模块 Handler
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// Generate 按范围重新生成课表
// POST /api/v1/timetable/generate
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	// 空 body 表示整周、不限院系学期
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "参数校验失败", err.Error())
			return
		}
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), &req, callerID)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateEntry 手动录入课表条目，冲突时仍然创建
// POST /api/v1/timetable/entries
func (h *TimetableHandler) CreateEntry(c *gin.Context) {
	var req dto.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "参数校验失败", err.Error())
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.InsertManual(c.Request.Context(), &req, callerID)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.Created(c, result)
}

// CheckEntry 冲突预检
// POST /api/v1/timetable/entries/check
func (h *TimetableHandler) CheckEntry(c *gin.Context) {
	var req dto.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "参数校验失败", err.Error())
		return
	}

	result, err := h.svc.CheckEntry(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OK(c, result)
}

// ListEntries 查询课表条目
// GET /api/v1/timetable/entries
func (h *TimetableHandler) ListEntries(c *gin.Context) {
	var req dto.EntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "参数校验失败", err.Error())
		return
	}

	list, err := h.svc.ListEntries(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OKList(c, list)
}

// DeleteEntry 删除单条课表
// DELETE /api/v1/timetable/entries/:id
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	if err := h.svc.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, nil)
}

// ClearEntries 清空整张课表
// DELETE /api/v1/timetable/entries
func (h *TimetableHandler) ClearEntries(c *gin.Context) {
	result, err := h.svc.ClearEntries(c.Request.Context())
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, result)
}

// GetWorkload 教师课时统计
// GET /api/v1/timetable/workload
func (h *TimetableHandler) GetWorkload(c *gin.Context) {
	var req dto.WorkloadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 20001, "参数校验失败")
		return
	}

	list, err := h.svc.GetWorkload(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OKList(c, list)
}

// ListSlots 时段目录
// GET /api/v1/timetable/slots
func (h *TimetableHandler) ListSlots(c *gin.Context) {
	response.OKList(c, h.svc.ListSlots())
}

func handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingResources):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20002, "排课资源不足", err.Error())
	case errors.Is(err, service.ErrNoAvailableSlots):
		response.BadRequest(c, 20003, err.Error())
	case errors.Is(err, service.ErrInvalidDay):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20004, "无效的星期", err.Error())
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 20005, err.Error())
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 20006, err.Error())
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, 20007, err.Error())
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 20008, err.Error())
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 20009, err.Error())
	case errors.Is(err, service.ErrGenerationInProgress):
		response.Conflict(c, 20010, err.Error())
	default:
		response.InternalError(c)
	}
}
