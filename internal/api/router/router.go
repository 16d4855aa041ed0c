package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-schedule/config"
	"smart-schedule/internal/api/handler"
	"smart-schedule/internal/api/middleware"
	"smart-schedule/pkg/jwt"
	"smart-schedule/pkg/redis"
)

const (
	maxBodyBytes = 1 << 20

	// 排课生成每个管理员每分钟最多 5 次
	generateRateLimit  = 5
	generateRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		adminOnly := middleware.RoleAuth("admin")

		// 排课模块
		timetable := v1.Group("/timetable")
		{
			timetable.POST("/generate", adminOnly,
				middleware.RateLimit(rdb, generateRateLimit, generateRateWindow, logger),
				h.Timetable.Generate)
			timetable.GET("/slots", h.Timetable.ListSlots)
			timetable.GET("/workload", h.Timetable.GetWorkload)

			timetable.GET("/entries", h.Timetable.ListEntries)
			timetable.POST("/entries", adminOnly, h.Timetable.CreateEntry)
			timetable.POST("/entries/check", h.Timetable.CheckEntry)
			timetable.DELETE("/entries", adminOnly, h.Timetable.ClearEntries)
			timetable.DELETE("/entries/:id", adminOnly, h.Timetable.DeleteEntry)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/timetable", h.Export.ExportTimetable)
			export.GET("/calendar/:faculty_id", h.Export.ExportFacultyCalendar)
		}

		// 通知模块（仅本人）
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}
	}

	return r
}
