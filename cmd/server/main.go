package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"smart-schedule/config"
	"smart-schedule/internal/api/handler"
	"smart-schedule/internal/api/router"
	"smart-schedule/internal/repository"
	"smart-schedule/internal/scheduler"
	"smart-schedule/internal/service"
	"smart-schedule/pkg/database"
	"smart-schedule/pkg/jwt"
	applogger "smart-schedule/pkg/logger"
	"smart-schedule/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Int("slots", len(cfg.Scheduling.Slots)),
	)

	// 3. 时段目录
	catalog, err := scheduler.NewCatalog(lo.Map(cfg.Scheduling.Slots, func(s config.SlotConfig, _ int) scheduler.Slot {
		return scheduler.Slot{Start: s.Start, End: s.End}
	}))
	if err != nil {
		logger.Fatal("时段目录无效", zap.Error(err))
	}

	// 4. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：失败时生成锁降级为进程内锁，限流关闭）
	var locker service.GenerationLocker
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，排课锁降级为进程内锁，限流关闭", zap.Error(err))
		rdb = nil
		locker = service.NewLocalLocker()
	} else {
		locker = service.NewRedisLocker(rdb, cfg.Scheduling.LockTTL, logger)
	}

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, catalog, locker, logger)
	h := handler.NewHandler(svc)

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("注册参数校验规则失败", zap.Error(err))
	}

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // 整周重排与导出耗时较长
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
