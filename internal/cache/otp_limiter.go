package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logi-events/internal/model"
	"logi-events/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OTPRateLimiter 固定視窗計數，限制驗證碼的發送與驗證次數
type OTPRateLimiter interface {
	// Allow 計數加一；超過上限時回傳 false 與剩餘等待時間
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
	// Reset 清除計數（驗證成功後呼叫）
	Reset(ctx context.Context, key string) error
}

type RedisOTPRateLimiter struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisOTPRateLimiter(client *redis.Client) OTPRateLimiter {
	return &RedisOTPRateLimiter{
		client: client,
		log:    logger.WithComponent("otp_limiter"),
	}
}

// 發送次數的 key
func IssueKey(purpose model.OTPPurpose, userID, subjectID uuid.UUID) string {
	return fmt.Sprintf("otp:%s:%s:%s:issue", purpose, userID, subjectID)
}

// 驗證失敗次數的 key
func VerifyKey(purpose model.OTPPurpose, userID, subjectID uuid.UUID) string {
	return fmt.Sprintf("otp:%s:%s:%s:verify", purpose, userID, subjectID)
}

/*
*

	計數 (使用Lua腳本確保原子性)
	1. 計數加一
	2. 第一次計數時設定視窗
	3. 與上限比較並回傳剩餘 TTL
*/
func (l *RedisOTPRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	if limit <= 0 {
		return true, 0, nil
	}

	script := `
		-- 1. 取得參數
		local counter_key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local window_ms = tonumber(ARGV[2])

		-- 2. 計數加一，第一次時設定視窗
		local count = redis.call('INCR', counter_key)
		if count == 1 then
			redis.call('PEXPIRE', counter_key, window_ms)
		end

		-- 3. 超過上限
		local ttl = redis.call('PTTL', counter_key)
		if count > limit then
			return {0, ttl}
		end

		return {1, ttl}
	`

	result, err := l.client.Eval(ctx, script, []string{key}, limit, window.Milliseconds()).Result()
	if err != nil {
		// Redis 無法使用時不阻擋請求
		l.log.Warn("rate limiter unavailable, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return true, 0, nil
	}

	resSlice, ok := result.([]interface{})
	if !ok || len(resSlice) != 2 {
		return false, 0, errors.New("unexpected result")
	}
	allowed, _ := resSlice[0].(int64)
	ttlMs, _ := resSlice[1].(int64)
	if ttlMs < 0 {
		ttlMs = 0
	}

	return allowed == 1, time.Duration(ttlMs) * time.Millisecond, nil
}

func (l *RedisOTPRateLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
