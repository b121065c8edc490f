package model

import (
	"time"

	"github.com/google/uuid"
)

// OTPPurpose 驗證碼用途，與使用者、對象一起構成查詢鍵
type OTPPurpose string

const (
	OTPPurposeRegistration  OTPPurpose = "registration"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
	OTPPurposeReservation   OTPPurpose = "reservation"
	OTPPurposeEventDeletion OTPPurpose = "event_deletion"
)

type OneTimeCode struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	Purpose   OTPPurpose `json:"purpose" db:"purpose"`
	SubjectID uuid.UUID  `json:"subjectId" db:"subject_id"`
	CodeHash  []byte     `json:"-" db:"code_hash"`
	ExpiresAt time.Time  `json:"expiresAt" db:"expires_at"`
	Used      bool       `json:"used" db:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty" db:"used_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

func (c *OneTimeCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
