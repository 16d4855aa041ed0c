package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-schedule/internal/dto"
	"smart-schedule/internal/model"
	"smart-schedule/internal/repository"
	pkgerrors "smart-schedule/pkg/errors"
)

// ── 通知模块业务错误 ──

var ErrNotificationNotFound = errors.New("通知不存在")

// 通知类型
const notificationTypeScheduleConflict = "schedule_conflict"

// Notice 一条待发送的通知
type Notice struct {
	Recipient string
	Title     string
	Message   string
	Severity  string // info | warning | error
	EntryID   string // 关联的课表条目，可为空
}

// Notifier 通知投递接口，排课引擎只依赖这一层
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// NotificationService 通知模块业务接口
//
// 当前投递方式为站内信：写入 notifications 表，由接收者拉取。
type NotificationService interface {
	Notifier
	// List 当前用户的通知列表
	List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	// MarkRead 标记已读，只能操作本人的通知
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, notice Notice) error {
	severity := notice.Severity
	if severity == "" {
		severity = model.SeverityInfo
	}

	n := &model.Notification{
		UserID:   notice.Recipient,
		Type:     notificationTypeScheduleConflict,
		Severity: severity,
		Title:    notice.Title,
		Content:  notice.Message,
	}
	if notice.EntryID != "" {
		relatedType := "schedule_entry"
		entryID := notice.EntryID
		n.RelatedType = &relatedType
		n.RelatedID = &entryID
	}

	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Error("写入通知失败", zap.String("recipient", notice.Recipient), zap.Error(err))
		return fmt.Errorf("%w: %w", pkgerrors.ErrDataAccess, err)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	list, total, err := s.repo.Notification.ListByUser(ctx, userID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, 0, fmt.Errorf("%w: %w", pkgerrors.ErrDataAccess, err)
	}

	result := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		n := &list[i]
		result = append(result, dto.NotificationResponse{
			ID:          n.NotificationID,
			Type:        n.Type,
			Severity:    n.Severity,
			Title:       n.Title,
			Content:     n.Content,
			IsRead:      n.IsRead,
			RelatedType: n.RelatedType,
			RelatedID:   n.RelatedID,
			CreatedAt:   n.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return result, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.Notification.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("标记通知已读失败", zap.String("notification_id", id), zap.Error(err))
		return fmt.Errorf("%w: %w", pkgerrors.ErrDataAccess, err)
	}
	return nil
}
