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
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Ticket, error)
	ListAttendeeIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error)
	SumActiveQuantity(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (int, error)
	CancelByEventAndUser(ctx context.Context, tx pgx.Tx, eventID, userID uuid.UUID) (int, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, event_id, user_id, holder_name, holder_email, phone_number,
	unit_price, ticket_type, status, quantity, created_at, cancelled_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.HolderName,
		&ticket.HolderEmail,
		&ticket.PhoneNumber,
		&ticket.UnitPrice,
		&ticket.Type,
		&ticket.Status,
		&ticket.Quantity,
		&ticket.CreatedAt,
		&ticket.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (
			event_id, user_id, holder_name, holder_email, phone_number,
			unit_price, ticket_type, status, quantity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + ticketColumns

	created, err := scanTicket(tx.QueryRow(ctx, query,
		ticket.EventID, ticket.UserID, ticket.HolderName, ticket.HolderEmail, ticket.PhoneNumber,
		ticket.UnitPrice, ticket.Type, ticket.Status, ticket.Quantity,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return created, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE event_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

// ListAttendeeIDs 持有有效票券的使用者
func (r *TicketRepositoryImpl) ListAttendeeIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT user_id
		FROM tickets
		WHERE event_id = $1 AND status = $2
		GROUP BY user_id
		ORDER BY MIN(created_at) ASC
	`

	rows, err := r.pool.Query(ctx, query, eventID, model.TicketStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *TicketRepositoryImpl) SumActiveQuantity(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM tickets
		WHERE event_id = $1 AND status = $2
	`

	var total int
	err := tx.QueryRow(ctx, query, eventID, model.TicketStatusActive).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// CancelByEventAndUser 取消使用者在該活動的所有有效票券，回傳釋出的名額
func (r *TicketRepositoryImpl) CancelByEventAndUser(ctx context.Context, tx pgx.Tx, eventID, userID uuid.UUID) (int, error) {
	query := `
		WITH cancelled AS (
			UPDATE tickets
			SET status = $1, cancelled_at = $2
			WHERE event_id = $3 AND user_id = $4 AND status = $5
			RETURNING quantity
		)
		SELECT COALESCE(SUM(quantity), 0) FROM cancelled
	`

	var released int
	err := tx.QueryRow(ctx, query,
		model.TicketStatusCancelled, time.Now().UTC(), eventID, userID, model.TicketStatusActive,
	).Scan(&released)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel tickets: %w", err)
	}

	return released, nil
}
