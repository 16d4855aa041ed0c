package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"smart-schedule/internal/dto"
	"smart-schedule/internal/service"
	"smart-schedule/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportTimetable 导出课表
// GET /api/v1/export/timetable?department=CS&semester=1
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	var req dto.ExportTimetableRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 21000, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportFacultyCalendar 导出教师日历
// GET /api/v1/export/calendar/:faculty_id
func (h *ExportHandler) ExportFacultyCalendar(c *gin.Context) {
	data, filename, err := h.exportSvc.ExportFacultyCalendar(c.Request.Context(), c.Param("faculty_id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoEntries):
		response.NotFound(c, 21001, err.Error())
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, 21002, err.Error())
	default:
		response.InternalError(c)
	}
}
