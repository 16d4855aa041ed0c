package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-schedule/internal/model"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var list []model.Notification
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}

// MarkRead 只能标记本人的通知，未命中返回 gorm.ErrRecordNotFound
func (r *notificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_by": userID,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
