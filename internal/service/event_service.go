package service

import (
	"context"

	"logi-events/internal/model"
	"logi-events/internal/repository"
	apperrors "logi-events/pkg/app_errors"
	"logi-events/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	// ListForUser admin 看自己建立的活動，一般使用者看有票的活動
	ListForUser(ctx context.Context, callerID, userID uuid.UUID) ([]*model.Event, error)
	GetByID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, actorID uuid.UUID, req model.CreateEventRequest) (*model.Event, error)
	Update(ctx context.Context, actorID, eventID uuid.UUID, req model.UpdateEventRequest) (*model.Event, error)
}

type EventServiceImpl struct {
	repo       repository.EventRepository
	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
	log        *zap.Logger
}

func NewEventService(
	repo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
) EventService {
	return &EventServiceImpl{
		repo:       repo,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		log:        logger.WithComponent("event_service"),
	}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) ListForUser(ctx context.Context, callerID, userID uuid.UUID) ([]*model.Event, error) {
	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.ID != userID && caller.Role != model.RoleGod {
		return nil, apperrors.ErrForbidden
	}

	user := caller
	if caller.ID != userID {
		user, err = s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if user.Role.CanManageEvents() {
		return s.repo.ListByCreator(ctx, user.ID)
	}
	return s.repo.ListByAttendee(ctx, user.ID)
}

func (s *EventServiceImpl) GetByID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	attendees, err := s.ticketRepo.ListAttendeeIDs(ctx, eventID)
	if err != nil {
		return nil, err
	}
	event.Attendees = attendees

	return event, nil
}

func (s *EventServiceImpl) loadManager(ctx context.Context, actorID uuid.UUID) (*model.User, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageEvents() {
		return nil, apperrors.ErrForbidden
	}
	return actor, nil
}

func (s *EventServiceImpl) Create(ctx context.Context, actorID uuid.UUID, req model.CreateEventRequest) (*model.Event, error) {
	actor, err := s.loadManager(ctx, actorID)
	if err != nil {
		return nil, err
	}

	event, err := req.ToEvent()
	if err != nil {
		return nil, err
	}
	event.CreatedBy = actor.ID

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		logFailure(s.log, "create_event", uuid.Nil, err)
		return nil, err
	}

	s.log.Info("event created",
		zap.String("event_id", created.ID.String()),
		zap.String("actor_id", actor.ID.String()),
		zap.Int("capacity", created.Capacity),
	)
	return created, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, actorID, eventID uuid.UUID, req model.UpdateEventRequest) (*model.Event, error) {
	actor, err := s.loadManager(ctx, actorID)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !actor.MayActOn(event) {
		return nil, apperrors.ErrForbidden
	}

	params, err := req.ToParams(event)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, eventID, params)
	if err != nil {
		logFailure(s.log, "update_event", eventID, err)
		return nil, err
	}
	return updated, nil
}
