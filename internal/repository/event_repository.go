package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"logi-events/internal/model"
	apperrors "logi-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*model.Event, error)
	ListByAttendee(ctx context.Context, userID uuid.UUID) ([]*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error)
	DecrementSpots(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error
	IncrementSpots(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error
	SoftDelete(ctx context.Context, tx pgx.Tx, id uuid.UUID, deletedBy uuid.UUID) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, name, scheduled_at, location, description, price, category,
	capacity, available_spots, status, created_by, is_deleted, deleted_at, deleted_by,
	created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.ScheduledAt,
		&event.Location,
		&event.Description,
		&event.Price,
		&event.Category,
		&event.Capacity,
		&event.AvailableSpots,
		&event.Status,
		&event.CreatedBy,
		&event.IsDeleted,
		&event.DeletedAt,
		&event.DeletedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (name, scheduled_at, location, description, price, category,
			capacity, available_spots, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.Name, event.ScheduledAt, event.Location, event.Description, event.Price,
		event.Category, event.Capacity, event.AvailableSpots, event.Status, event.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE is_deleted = FALSE
		ORDER BY scheduled_at ASC
	`
	return r.queryEvents(ctx, query)
}

func (r *EventRepositoryImpl) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE created_by = $1 AND is_deleted = FALSE
		ORDER BY scheduled_at ASC
	`
	return r.queryEvents(ctx, query, userID)
}

// ListByAttendee 使用者持有有效票券的活動
func (r *EventRepositoryImpl) ListByAttendee(ctx context.Context, userID uuid.UUID) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		WHERE e.is_deleted = FALSE
		  AND EXISTS (
			SELECT 1 FROM tickets t
			WHERE t.event_id = e.id AND t.user_id = $1 AND t.status = $2
		  )
		ORDER BY e.scheduled_at ASC
	`
	return r.queryEvents(ctx, query, userID, model.TicketStatusActive)
}

func (r *EventRepositoryImpl) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND is_deleted = FALSE
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND is_deleted = FALSE
		FOR UPDATE
	`

	event, err := scanEvent(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

// Update 部分更新；調整 capacity 時同步平移 available_spots，
// 且新容量不得低於已確認的名額
func (r *EventRepositoryImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.ScheduledAt != nil {
		add("scheduled_at", params.ScheduledAt.UTC())
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.Category != nil {
		add("category", *params.Category)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}

	capacityPos := 0
	if params.Capacity != nil {
		capacityPos = argPos
		args = append(args, *params.Capacity)
		argPos++
		// 右側的 capacity 仍是更新前的值
		sets = append(sets,
			fmt.Sprintf("capacity = $%d", capacityPos),
			fmt.Sprintf("available_spots = available_spots + ($%d - capacity)", capacityPos),
		)
		if params.Status == nil {
			sets = append(sets, fmt.Sprintf(`status = CASE
				WHEN status = '%s' AND available_spots + ($%d - capacity) > 0 THEN '%s'
				WHEN status = '%s' AND available_spots + ($%d - capacity) = 0 THEN '%s'
				ELSE status END`,
				model.EventStatusSoldOut, capacityPos, model.EventStatusActive,
				model.EventStatusActive, capacityPos, model.EventStatusSoldOut,
			))
		}
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	add("updated_at", time.Now().UTC())

	// add id
	args = append(args, id)
	where := fmt.Sprintf("id = $%d AND is_deleted = FALSE", argPos)
	if capacityPos > 0 {
		where += fmt.Sprintf(" AND capacity - available_spots <= $%d", capacityPos)
	}

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE %s
		RETURNING %s
	`, strings.Join(sets, ", "), where, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if capacityPos == 0 {
				return nil, apperrors.ErrEventNotFound
			}
			// 區分活動不存在與容量低於已預約數
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, apperrors.ErrCapacityBelowReserved
		}
		return nil, err
	}

	return event, nil
}

// DecrementSpots 原子扣減名額，剩餘不足時不更新任何資料
func (r *EventRepositoryImpl) DecrementSpots(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error {
	query := `
		UPDATE events
		SET available_spots = available_spots - $1,
			status = CASE WHEN available_spots - $1 = 0 AND status = $4 THEN $5 ELSE status END,
			updated_at = $2
		WHERE id = $3 AND is_deleted = FALSE AND available_spots >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, time.Now().UTC(), id,
		model.EventStatusActive, model.EventStatusSoldOut)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		var available int
		err := tx.QueryRow(ctx,
			`SELECT available_spots FROM events WHERE id = $1 AND is_deleted = FALSE`, id,
		).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrEventNotFound
			}
			return err
		}
		return &apperrors.CapacityError{Requested: quantity, Available: available}
	}

	return nil
}

// IncrementSpots 歸還名額，不超過 capacity
func (r *EventRepositoryImpl) IncrementSpots(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return apperrors.ErrInvalidInput
	}

	query := `
		UPDATE events
		SET available_spots = LEAST(capacity, available_spots + $1),
			status = CASE WHEN status = $4 THEN $5 ELSE status END,
			updated_at = $2
		WHERE id = $3 AND is_deleted = FALSE
	`

	result, err := tx.Exec(ctx, query, quantity, time.Now().UTC(), id,
		model.EventStatusSoldOut, model.EventStatusActive)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) SoftDelete(ctx context.Context, tx pgx.Tx, id uuid.UUID, deletedBy uuid.UUID) error {
	query := `
		UPDATE events
		SET is_deleted = TRUE, deleted_at = $1, deleted_by = $2, updated_at = $1
		WHERE id = $3 AND is_deleted = FALSE
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), deletedBy, id)
	if err != nil {
		return err
	}

	// check if event exists and not already deleted
	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
