package service

import (
	"go.uber.org/zap"

	"smart-schedule/config"
	"smart-schedule/internal/repository"
	"smart-schedule/internal/scheduler"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Timetable    TimetableService
	Export       ExportService
	Notification NotificationService
}

// NewService 创建 Service 聚合
//
// locker 由调用方按部署方式选择：Redis 可用时为租约锁，否则为进程内锁。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	catalog scheduler.Catalog,
	locker GenerationLocker,
	logger *zap.Logger,
) *Service {
	notification := NewNotificationService(repo, logger)
	return &Service{
		Timetable:    NewTimetableService(repo, catalog, locker, notification, logger),
		Export:       NewExportService(repo, &cfg.Scheduling, catalog, logger),
		Notification: notification,
	}
}
