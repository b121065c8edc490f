package model

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus 活動狀態
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusSoldOut   EventStatus = "sold_out"
	EventStatusPast      EventStatus = "past"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusUpcoming  EventStatus = "upcoming"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusActive, EventStatusSoldOut, EventStatusPast, EventStatusCancelled, EventStatusUpcoming:
		return true
	}
	return false
}

// IsReservable 是否可接受預約；售完由名額檢查處理
func (s EventStatus) IsReservable() bool {
	switch s {
	case EventStatusActive, EventStatusUpcoming, EventStatusSoldOut:
		return true
	}
	return false
}

type Event struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	ScheduledAt    time.Time   `json:"scheduledAt" db:"scheduled_at"`
	Location       string      `json:"location" db:"location"`
	Description    string      `json:"description" db:"description"`
	Price          float64     `json:"price" db:"price"`
	Category       string      `json:"category" db:"category"`
	Capacity       int         `json:"capacity" db:"capacity"`
	AvailableSpots int         `json:"availableSpots" db:"available_spots"`
	Status         EventStatus `json:"status" db:"status"`
	CreatedBy      uuid.UUID   `json:"createdBy" db:"created_by"`
	IsDeleted      bool        `json:"isDeleted" db:"is_deleted"`
	DeletedAt      *time.Time  `json:"deletedAt,omitempty" db:"deleted_at"`
	DeletedBy      *uuid.UUID  `json:"deletedBy,omitempty" db:"deleted_by"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`

	Attendees []uuid.UUID `json:"attendees,omitempty" db:"-"`
}

// ReservedSpots 已確認的名額
func (e *Event) ReservedSpots() int {
	return e.Capacity - e.AvailableSpots
}

type UpdateEventParams struct {
	Name        *string
	ScheduledAt *time.Time
	Location    *string
	Description *string
	Price       *float64
	Category    *string
	Capacity    *int
	Status      *EventStatus
}

// IsEmpty 沒有任何欄位需要更新
func (p UpdateEventParams) IsEmpty() bool {
	return p.Name == nil && p.ScheduledAt == nil && p.Location == nil && p.Description == nil &&
		p.Price == nil && p.Category == nil && p.Capacity == nil && p.Status == nil
}
