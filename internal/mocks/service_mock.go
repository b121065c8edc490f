package mocks

import (
	"context"

	"logi-events/internal/model"
	"logi-events/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

var (
	_ service.OTPStore           = (*OTPStoreMock)(nil)
	_ service.EventService       = (*EventServiceMock)(nil)
	_ service.ReservationService = (*ReservationServiceMock)(nil)
	_ service.DeletionService    = (*DeletionServiceMock)(nil)
)

type OTPStoreMock struct {
	mock.Mock
}

func (m *OTPStoreMock) Issue(ctx context.Context, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID) (string, *model.OneTimeCode, error) {
	args := m.Called(ctx, userID, purpose, subjectID)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.OneTimeCode), args.Error(2)
}

func (m *OTPStoreMock) Verify(ctx context.Context, tx pgx.Tx, userID uuid.UUID, purpose model.OTPPurpose, subjectID uuid.UUID, code string) (*model.OneTimeCode, error) {
	args := m.Called(ctx, tx, userID, purpose, subjectID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OneTimeCode), args.Error(1)
}

func (m *OTPStoreMock) Consume(ctx context.Context, tx pgx.Tx, record *model.OneTimeCode) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

type EventServiceMock struct {
	mock.Mock
}

func (m *EventServiceMock) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) ListForUser(ctx context.Context, callerID, userID uuid.UUID) ([]*model.Event, error) {
	args := m.Called(ctx, callerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) GetByID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Create(ctx context.Context, actorID uuid.UUID, req model.CreateEventRequest) (*model.Event, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Update(ctx context.Context, actorID, eventID uuid.UUID, req model.UpdateEventRequest) (*model.Event, error) {
	args := m.Called(ctx, actorID, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

type ReservationServiceMock struct {
	mock.Mock
}

func (m *ReservationServiceMock) RequestReservation(ctx context.Context, userID, eventID uuid.UUID, req model.ReserveRequest) error {
	args := m.Called(ctx, userID, eventID, req)
	return args.Error(0)
}

func (m *ReservationServiceMock) ConfirmReservation(ctx context.Context, userID, eventID uuid.UUID, req model.ConfirmReservationRequest) (*model.Ticket, error) {
	args := m.Called(ctx, userID, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *ReservationServiceMock) CancelReservation(ctx context.Context, userID, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

type DeletionServiceMock struct {
	mock.Mock
}

func (m *DeletionServiceMock) RequestDeletion(ctx context.Context, actorID, eventID uuid.UUID) error {
	args := m.Called(ctx, actorID, eventID)
	return args.Error(0)
}

func (m *DeletionServiceMock) ConfirmDeletion(ctx context.Context, actorID, eventID uuid.UUID, code string) error {
	args := m.Called(ctx, actorID, eventID, code)
	return args.Error(0)
}
