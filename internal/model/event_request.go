package model

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "logi-events/pkg/app_errors"
)

const (
	DateLayout = "02/01/2006"
	HourLayout = "15:04"
)

// CreateEventRequest 建立活動請求，日期為 dd/mm/yyyy、時間為 HH:MM
type CreateEventRequest struct {
	Name        string       `json:"name" binding:"required"`
	Date        string       `json:"date" binding:"required"`
	Hour        string       `json:"hour" binding:"required"`
	Location    string       `json:"location" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Price       *float64     `json:"price" binding:"required,gte=0"`
	Capacity    int          `json:"capacity" binding:"required,min=1"`
	Category    string       `json:"category" binding:"required"`
	Status      *EventStatus `json:"status"`
}

// UpdateEventRequest 更新活動請求，未帶的欄位維持原值
type UpdateEventRequest struct {
	Name        *string      `json:"name" binding:"omitempty,min=1"`
	Date        *string      `json:"date"`
	Hour        *string      `json:"hour"`
	Location    *string      `json:"location" binding:"omitempty,min=1"`
	Description *string      `json:"description"`
	Price       *float64     `json:"price" binding:"omitempty,gte=0"`
	Capacity    *int         `json:"capacity" binding:"omitempty,min=1"`
	Category    *string      `json:"category" binding:"omitempty,min=1"`
	Status      *EventStatus `json:"status"`
}

// ParseSchedule 合併日期與時間（UTC）
func ParseSchedule(date, hour string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("date", "Invalid date format, expected dd/mm/yyyy")
	}
	h, err := time.Parse(HourLayout, strings.TrimSpace(hour))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("hour", "Invalid hour format, expected HH:MM")
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h.Hour(), h.Minute(), 0, 0, time.UTC), nil
}

func (r CreateEventRequest) ToEvent() (*Event, error) {
	scheduledAt, err := ParseSchedule(r.Date, r.Hour)
	if err != nil {
		return nil, err
	}

	status := EventStatusActive
	if r.Status != nil {
		if !r.Status.IsValid() {
			return nil, apperrors.NewValidationError("status", "Invalid status")
		}
		status = *r.Status
	}

	var price float64
	if r.Price != nil {
		price = *r.Price
	}

	return &Event{
		Name:           r.Name,
		ScheduledAt:    scheduledAt,
		Location:       r.Location,
		Description:    r.Description,
		Price:          price,
		Category:       r.Category,
		Capacity:       r.Capacity,
		AvailableSpots: r.Capacity,
		Status:         status,
	}, nil
}

// ToParams 只帶日期或只帶時間時，另一半取自 current
func (r UpdateEventRequest) ToParams(current *Event) (UpdateEventParams, error) {
	params := UpdateEventParams{
		Name:        r.Name,
		Location:    r.Location,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Capacity:    r.Capacity,
	}

	if r.Status != nil {
		if !r.Status.IsValid() {
			return UpdateEventParams{}, apperrors.NewValidationError("status", "Invalid status")
		}
		params.Status = r.Status
	}

	if r.Date != nil || r.Hour != nil {
		date := current.ScheduledAt.Format(DateLayout)
		hour := current.ScheduledAt.Format(HourLayout)
		if r.Date != nil {
			date = *r.Date
		}
		if r.Hour != nil {
			hour = *r.Hour
		}
		scheduledAt, err := ParseSchedule(date, hour)
		if err != nil {
			return UpdateEventParams{}, err
		}
		params.ScheduledAt = &scheduledAt
	}

	if params.IsEmpty() {
		return UpdateEventParams{}, apperrors.NewValidationError("", "At least one field is required")
	}
	return params, nil
}

// MarshalJSON 額外輸出 date（dd/mm/yyyy）與 hour
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
		Hour string `json:"hour"`
	}{
		alias: alias(e),
		Date:  e.ScheduledAt.UTC().Format(DateLayout),
		Hour:  e.ScheduledAt.UTC().Format(HourLayout),
	})
}
