package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"logi-events/config"
	"logi-events/internal/clock"
	"logi-events/internal/database"
	"logi-events/internal/model"
	"logi-events/internal/repository"
	apperrors "logi-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zeebo/blake3"
)

const (
	alphaCharset   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numericCharset = "0123456789"
)

type OTPStore interface {
	// 產生新驗證碼並讓同一鍵下的舊碼失效，回傳明碼（只用於寄送）
	Issue(ctx context.Context, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID) (string, *model.OneTimeCode, error)
	// 鎖定符合的紀錄，不會標記為已使用
	Verify(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID, code string) (*model.OneTimeCode, error)
	Consume(ctx context.Context, tx pgx.Tx, record *model.OneTimeCode) error
}

type OTPStoreImpl struct {
	txManager  database.TxManager
	repository repository.OTPRepository
	clock      clock.Clock
	cfg        config.OTPConfig
	key        [32]byte
}

func NewOTPStore(
	txManager database.TxManager,
	otpRepository repository.OTPRepository,
	c clock.Clock,
	cfg config.OTPConfig,
) OTPStore {
	if cfg.Length <= 0 {
		cfg.Length = 6
	}
	return &OTPStoreImpl{
		txManager:  txManager,
		repository: otpRepository,
		clock:      c,
		cfg:        cfg,
		key:        blake3.Sum256([]byte(cfg.Secret)),
	}
}

func (s *OTPStoreImpl) charset() string {
	if s.cfg.Charset == config.CharsetNumeric {
		return numericCharset
	}
	return alphaCharset
}

func (s *OTPStoreImpl) generate() (string, error) {
	charset := s.charset()
	max := big.NewInt(int64(len(charset)))

	var b strings.Builder
	b.Grow(s.cfg.Length)
	for i := 0; i < s.cfg.Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b.WriteByte(charset[n.Int64()])
	}
	return b.String(), nil
}

func (s *OTPStoreImpl) normalize(code string) string {
	code = strings.TrimSpace(code)
	if s.cfg.Charset != config.CharsetNumeric {
		code = strings.ToUpper(code)
	}
	return code
}

// digest 以 purpose、使用者、對象綁定驗證碼，資料庫只存摘要
func (s *OTPStoreImpl) digest(userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID, code string) ([]byte, error) {
	hasher, err := blake3.NewKeyed(s.key[:])
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(hasher, "%s|%s|%s|%s", purpose, userID, subjectID, code)
	return hasher.Sum(nil), nil
}

func (s *OTPStoreImpl) Issue(ctx context.Context, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID) (string, *model.OneTimeCode, error) {
	code, err := s.generate()
	if err != nil {
		return "", nil, err
	}

	hash, err := s.digest(userID, purpose, subjectID, code)
	if err != nil {
		return "", nil, err
	}

	var record *model.OneTimeCode
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.repository.Supersede(ctx, tx, userID, purpose, subjectID); err != nil {
			return err
		}
		created, err := s.repository.Create(ctx, tx, &model.OneTimeCode{
			UserID:    userID,
			Purpose:   purpose,
			SubjectID: subjectID,
			CodeHash:  hash,
			ExpiresAt: s.clock.Now().Add(s.cfg.TTL),
		})
		if err != nil {
			return err
		}
		record = created
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	return code, record, nil
}

func (s *OTPStoreImpl) Verify(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID, code string) (*model.OneTimeCode, error) {
	code = s.normalize(code)
	if code == "" {
		return nil, apperrors.ErrInvalidOTP
	}

	hash, err := s.digest(userID, purpose, subjectID, code)
	if err != nil {
		return nil, err
	}

	record, err := s.repository.FindActiveForUpdate(ctx, tx, userID, purpose, subjectID, hash)
	if err != nil {
		return nil, err
	}

	if record.IsExpired(s.clock.Now()) {
		return nil, apperrors.ErrOTPExpired
	}

	return record, nil
}

func (s *OTPStoreImpl) Consume(ctx context.Context, tx pgx.Tx, record *model.OneTimeCode) error {
	return s.repository.MarkUsed(ctx, tx, record.ID, s.clock.Now())
}
