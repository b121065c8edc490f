package service

import (
	"context"

	"logi-events/internal/model"
	"logi-events/internal/repository"
	apperrors "logi-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CapacityLedger 名額的檢查、扣減與歸還
type CapacityLedger interface {
	CheckAvailability(event *model.Event, quantity int) error
	Commit(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, quantity int) error
	Release(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, quantity int) error
}

type CapacityLedgerImpl struct {
	eventRepository repository.EventRepository
}

func NewCapacityLedger(eventRepository repository.EventRepository) CapacityLedger {
	return &CapacityLedgerImpl{eventRepository: eventRepository}
}

// CheckAvailability 只讀檢查，真正的保證在 Commit
func (l *CapacityLedgerImpl) CheckAvailability(event *model.Event, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity", "quantity must be at least 1")
	}
	if event.AvailableSpots < quantity {
		return &apperrors.CapacityError{Requested: quantity, Available: event.AvailableSpots}
	}
	return nil
}

func (l *CapacityLedgerImpl) Commit(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("quantity", "quantity must be at least 1")
	}
	return l.eventRepository.DecrementSpots(ctx, tx, eventID, quantity)
}

func (l *CapacityLedgerImpl) Release(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return nil
	}
	return l.eventRepository.IncrementSpots(ctx, tx, eventID, quantity)
}
