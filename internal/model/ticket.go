package model

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusCancelled TicketStatus = "cancelled"
)

type TicketType string

const TicketTypeGeneral TicketType = "general"

// Ticket 確認後的預約；建立後只允許取消
type Ticket struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	EventID     uuid.UUID    `json:"eventId" db:"event_id"`
	UserID      uuid.UUID    `json:"userId" db:"user_id"`
	HolderName  string       `json:"holderName" db:"holder_name"`
	HolderEmail string       `json:"holderEmail" db:"holder_email"`
	PhoneNumber string       `json:"phoneNumber" db:"phone_number"`
	UnitPrice   float64      `json:"unitPrice" db:"unit_price"`
	Type        TicketType   `json:"ticketType" db:"ticket_type"`
	Status      TicketStatus `json:"ticketStatus" db:"status"`
	Quantity    int          `json:"quantity" db:"quantity"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	CancelledAt *time.Time   `json:"cancelledAt,omitempty" db:"cancelled_at"`
}

func (t *Ticket) TotalPrice() float64 {
	return t.UnitPrice * float64(t.Quantity)
}

func (t *Ticket) IsActive() bool {
	return t.Status == TicketStatusActive
}
