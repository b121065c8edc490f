package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logi-events/internal/model"
	apperrors "logi-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OTPRepository 一次性驗證碼；所有操作都在呼叫端的交易內
type OTPRepository interface {
	Create(ctx context.Context, tx pgx.Tx, code *model.OneTimeCode) (*model.OneTimeCode, error)
	Supersede(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID) (int64, error)
	FindActiveForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID, codeHash []byte) (*model.OneTimeCode, error)
	MarkUsed(ctx context.Context, tx pgx.Tx, id uuid.UUID, usedAt time.Time) error
}

type OTPRepositoryImpl struct{}

func NewOTPRepository() OTPRepository {
	return &OTPRepositoryImpl{}
}

const otpColumns = `id, user_id, purpose, subject_id, code_hash, expires_at, used, used_at, created_at`

func scanOTP(row pgx.Row) (*model.OneTimeCode, error) {
	var code model.OneTimeCode
	err := row.Scan(
		&code.ID,
		&code.UserID,
		&code.Purpose,
		&code.SubjectID,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.Used,
		&code.UsedAt,
		&code.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *OTPRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, code *model.OneTimeCode) (*model.OneTimeCode, error) {
	query := `
		INSERT INTO one_time_codes (user_id, purpose, subject_id, code_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + otpColumns

	created, err := scanOTP(tx.QueryRow(ctx, query,
		code.UserID, code.Purpose, code.SubjectID, code.CodeHash, code.ExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create one-time code: %w", err)
	}
	return created, nil
}

// Supersede 讓同一鍵下尚未使用的舊驗證碼失效
func (r *OTPRepositoryImpl) Supersede(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID) (int64, error) {
	query := `
		UPDATE one_time_codes
		SET used = TRUE, used_at = $1
		WHERE user_id = $2 AND purpose = $3 AND subject_id = $4 AND used = FALSE
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), userID, purpose, subjectID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *OTPRepositoryImpl) FindActiveForUpdate(
	ctx context.Context,
	tx pgx.Tx,
	userID uuid.UUID,
	purpose model.OTPPurpose,
	subjectID uuid.UUID,
	codeHash []byte,
) (*model.OneTimeCode, error) {
	query := `
		SELECT ` + otpColumns + `
		FROM one_time_codes
		WHERE user_id = $1 AND purpose = $2 AND subject_id = $3 AND code_hash = $4 AND used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`

	code, err := scanOTP(tx.QueryRow(ctx, query, userID, purpose, subjectID, codeHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidOTP
		}
		return nil, err
	}
	return code, nil
}

// MarkUsed 只會成功一次，重複使用回傳 ErrInvalidOTP
func (r *OTPRepositoryImpl) MarkUsed(ctx context.Context, tx pgx.Tx, id uuid.UUID, usedAt time.Time) error {
	query := `
		UPDATE one_time_codes
		SET used = TRUE, used_at = $1
		WHERE id = $2 AND used = FALSE
	`

	result, err := tx.Exec(ctx, query, usedAt.UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidOTP
	}

	return nil
}
