package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smart-schedule/config"
)

// ErrLockHeld 锁已被其他持有者占用
var ErrLockHeld = errors.New("锁已被占用")

// Client Redis 客户端封装
// 当前用于排课生成互斥锁与接口限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromClient 包装已有连接（测试或复用连接池时使用）
func NewFromClient(rdb *goredis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── 分布式锁 ──

const lockPrefix = "lock:"

// 仅当 value 与持有者 token 一致时才删除，避免误删他人续上的锁
var releaseLockScript = goredis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// AcquireLock 以 SET NX PX 获取租约锁，返回持有者 token
func (c *Client) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	ok, err := c.rdb.SetNX(ctx, lockPrefix+key, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrLockHeld
	}
	return token, nil
}

// ReleaseLock 释放由 token 持有的锁
func (c *Client) ReleaseLock(ctx context.Context, key, token string) error {
	return releaseLockScript.Run(ctx, c.rdb, []string{lockPrefix + key}, token).Err()
}

// ── 限流 ──

const rateLimitPrefix = "rate_limit:"

// CheckRateLimit 滑动窗口限流：窗口内请求数未超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	fullKey := rateLimitPrefix + key
	windowStart := now.Add(-window).UnixNano()

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, fullKey, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.New().String()})
		card = pipe.ZCard(ctx, fullKey)
		pipe.Expire(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return card.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
