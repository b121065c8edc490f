package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleGod   Role = "god"
)

// CanManageEvents 可建立、修改、刪除活動
func (r Role) CanManageEvents() bool {
	return r == RoleAdmin || r == RoleGod
}

type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FirstName   string    `json:"firstName" db:"first_name"`
	LastName    string    `json:"lastName" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	Role        Role      `json:"role" db:"role"`
	Verified    bool      `json:"verified" db:"verified"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// MayActOn admin 只能操作自己建立的活動，god 不受限
func (u *User) MayActOn(event *Event) bool {
	if u.Role == RoleGod {
		return true
	}
	return u.Role == RoleAdmin && event.CreatedBy == u.ID
}
