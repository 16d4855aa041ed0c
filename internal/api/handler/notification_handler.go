package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"smart-schedule/internal/dto"
	"smart-schedule/internal/service"
	"smart-schedule/pkg/response"
)

// NotificationHandler 通知模块 Handler
type NotificationHandler struct {
	svc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler 实例
func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List 当前用户的通知
// GET /api/v1/notifications?unread_only=true&page=1&page_size=20
func (h *NotificationHandler) List(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), userID, &req)
	if err != nil {
		handleNotificationError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// MarkRead 标记已读
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleNotificationError(c, err)
		return
	}
	response.OK(c, nil)
}

func handleNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 22002, err.Error())
	default:
		response.InternalError(c)
	}
}
