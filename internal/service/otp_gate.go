package service

import (
	"context"
	"fmt"
	"time"

	"logi-events/config"
	"logi-events/internal/cache"
	"logi-events/internal/database"
	"logi-events/internal/model"
	apperrors "logi-events/pkg/app_errors"
	"logi-events/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// GatedAction 需要一次性驗證碼確認的操作
type GatedAction struct {
	Purpose   model.OTPPurpose
	UserID    uuid.UUID
	SubjectID uuid.UUID

	// 發碼前檢查，失敗時不產生驗證碼
	Precondition func(ctx context.Context) error
	// 寄送驗證碼，錯誤只記錄
	Deliver func(ctx context.Context, code string) error
	// 與驗證碼消耗在同一交易內執行
	Effect func(ctx context.Context, tx pgx.Tx) error
	// 交易提交後執行
	AfterCommit func(ctx context.Context)
}

type OTPGate interface {
	Request(ctx context.Context, action GatedAction) error
	Confirm(ctx context.Context, action GatedAction, code string) error
}

type OTPGateImpl struct {
	txManager database.TxManager
	store     OTPStore
	limiter   cache.OTPRateLimiter
	cfg       config.OTPConfig
	log       *zap.Logger
}

func NewOTPGate(
	txManager database.TxManager,
	store OTPStore,
	limiter cache.OTPRateLimiter,
	cfg config.OTPConfig,
) OTPGate {
	return &OTPGateImpl{
		txManager: txManager,
		store:     store,
		limiter:   limiter,
		cfg:       cfg,
		log:       logger.WithComponent("otp_gate"),
	}
}

func (g *OTPGateImpl) Request(ctx context.Context, action GatedAction) error {
	// 1. 前置檢查
	if action.Precondition != nil {
		if err := action.Precondition(ctx); err != nil {
			return err
		}
	}

	// 2. 發碼頻率限制
	key := cache.IssueKey(action.Purpose, action.UserID, action.SubjectID)
	if err := g.checkLimit(ctx, key, g.cfg.IssueLimit, g.cfg.IssueWindow); err != nil {
		return err
	}

	// 3. 產生驗證碼
	code, _, err := g.store.Issue(ctx, action.UserID, action.Purpose, action.SubjectID)
	if err != nil {
		return err
	}

	// 4. 寄送
	if action.Deliver != nil {
		if err := action.Deliver(ctx, code); err != nil {
			g.log.Error("deliver verification code failed",
				zap.String("purpose", string(action.Purpose)),
				zap.String("user_id", action.UserID.String()),
				zap.String("subject_id", action.SubjectID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (g *OTPGateImpl) Confirm(ctx context.Context, action GatedAction, code string) error {
	// 1. 驗證次數限制
	verifyKey := cache.VerifyKey(action.Purpose, action.UserID, action.SubjectID)
	if err := g.checkLimit(ctx, verifyKey, g.cfg.VerifyLimit, g.cfg.VerifyWindow); err != nil {
		return err
	}

	// 2. 驗證、執行、消耗在同一交易；任一步失敗驗證碼維持未使用
	err := g.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		record, err := g.store.Verify(ctx, tx, action.UserID, action.Purpose, action.SubjectID, code)
		if err != nil {
			return err
		}

		if action.Effect != nil {
			if err := action.Effect(ctx, tx); err != nil {
				return err
			}
		}

		return g.store.Consume(ctx, tx, record)
	})
	if err != nil {
		return err
	}

	// 3. 成功後清除計數
	if err := g.limiter.Reset(ctx, verifyKey); err != nil {
		g.log.Warn("reset verify counter failed", zap.String("key", verifyKey), zap.Error(err))
	}

	if action.AfterCommit != nil {
		action.AfterCommit(ctx)
	}

	return nil
}

func (g *OTPGateImpl) checkLimit(ctx context.Context, key string, limit int, window time.Duration) error {
	allowed, retryIn, err := g.limiter.Allow(ctx, key, limit, window)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: try again in %s", apperrors.ErrTooManyRequests, retryIn.Round(time.Second))
	}
	return nil
}
