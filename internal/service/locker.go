package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	pkgerrors "smart-schedule/pkg/errors"
	"smart-schedule/pkg/redis"
)

// generateLockKey 排课生成的全局锁键，不同范围的生成也可能互相覆盖，因此不按范围拆分
const generateLockKey = "timetable:generate"

// GenerationLocker 排课生成互斥锁
//
// TryLock 不等待：锁被占用时立即返回 ErrGenerationInProgress。
// 成功时返回的 unlock 必须调用且只调用一次。
type GenerationLocker interface {
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}

// ── Redis 租约锁 ──

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLocker 基于 Redis SET NX PX 的租约锁，多实例部署时使用
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) GenerationLocker {
	return &redisLocker{client: client, ttl: ttl, logger: logger}
}

func (l *redisLocker) TryLock(ctx context.Context, key string) (func(), error) {
	token, err := l.client.AcquireLock(ctx, key, l.ttl)
	if err != nil {
		if errors.Is(err, redis.ErrLockHeld) {
			return nil, ErrGenerationInProgress
		}
		l.logger.Error("获取排课锁失败", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrDataAccess, err)
	}

	return func() {
		// 请求 ctx 可能已取消，释放锁使用独立的超时
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := l.client.ReleaseLock(releaseCtx, key, token); err != nil {
			l.logger.Warn("释放排课锁失败，等待租约过期", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// ── 进程内锁（未配置 Redis 时降级） ──

type localLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalLocker 进程内 try-lock，仅适用于单实例部署
func NewLocalLocker() GenerationLocker {
	return &localLocker{held: make(map[string]bool)}
}

func (l *localLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[key] {
		return nil, ErrGenerationInProgress
	}
	l.held[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
