package service

import (
	"context"
	"fmt"
	"html"

	"logi-events/internal/database"
	"logi-events/internal/model"
	"logi-events/internal/notify"
	"logi-events/internal/repository"
	apperrors "logi-events/pkg/app_errors"
	"logi-events/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationService interface {
	// 檢查名額後寄出驗證碼；重複呼叫即為重寄
	RequestReservation(ctx context.Context, userID, eventID uuid.UUID, req model.ReserveRequest) error
	// 驗證碼正確時建立票券並扣減名額
	ConfirmReservation(ctx context.Context, userID, eventID uuid.UUID, req model.ConfirmReservationRequest) (*model.Ticket, error)
	// 取消使用者在該活動的票券並歸還名額
	CancelReservation(ctx context.Context, userID, eventID uuid.UUID) (*model.Event, error)
}

type ReservationServiceImpl struct {
	gate             OTPGate
	ledger           CapacityLedger
	dispatcher       notify.Dispatcher
	eventRepository  repository.EventRepository
	ticketRepository repository.TicketRepository
	txManager        database.TxManager
	log              *zap.Logger
}

func NewReservationService(
	gate OTPGate,
	ledger CapacityLedger,
	dispatcher notify.Dispatcher,
	eventRepository repository.EventRepository,
	ticketRepository repository.TicketRepository,
	txManager database.TxManager,
) ReservationService {
	return &ReservationServiceImpl{
		gate:             gate,
		ledger:           ledger,
		dispatcher:       dispatcher,
		eventRepository:  eventRepository,
		ticketRepository: ticketRepository,
		txManager:        txManager,
		log:              logger.WithComponent("reservation_service"),
	}
}

func (s *ReservationServiceImpl) RequestReservation(ctx context.Context, userID, eventID uuid.UUID, req model.ReserveRequest) error {
	err := s.gate.Request(ctx, GatedAction{
		Purpose:   model.OTPPurposeReservation,
		UserID:    userID,
		SubjectID: eventID,
		Precondition: func(ctx context.Context) error {
			event, err := s.eventRepository.FindByID(ctx, eventID)
			if err != nil {
				return err
			}
			if !event.Status.IsReservable() {
				return apperrors.ErrEventNotReservable
			}
			return s.ledger.CheckAvailability(event, req.Quantity)
		},
		Deliver: func(ctx context.Context, code string) error {
			return s.dispatcher.SendVerificationCode(ctx, req.PhoneNumber, code)
		},
	})
	if err != nil {
		logFailure(s.log, "request_reservation", eventID, err)
		return err
	}

	s.log.Info("reservation code issued",
		zap.String("event_id", eventID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("quantity", req.Quantity),
	)
	return nil
}

func (s *ReservationServiceImpl) ConfirmReservation(ctx context.Context, userID, eventID uuid.UUID, req model.ConfirmReservationRequest) (*model.Ticket, error) {
	if req.Quantity < 1 {
		return nil, apperrors.NewValidationError("quantity", "quantity must be at least 1")
	}

	// 活動不存在時不消耗驗證碼
	if _, err := s.eventRepository.FindByID(ctx, eventID); err != nil {
		logFailure(s.log, "confirm_reservation", eventID, err)
		return nil, err
	}

	var (
		ticket *model.Ticket
		event  *model.Event
	)
	err := s.gate.Confirm(ctx, GatedAction{
		Purpose:   model.OTPPurposeReservation,
		UserID:    userID,
		SubjectID: eventID,
		Effect: func(ctx context.Context, tx pgx.Tx) error {
			// 1. 交易內重新讀取並檢查名額
			locked, err := s.eventRepository.FindByIDWithLock(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if !locked.Status.IsReservable() {
				return apperrors.ErrEventNotReservable
			}
			if err := s.ledger.CheckAvailability(locked, req.Quantity); err != nil {
				return err
			}

			// 2. 建立票券
			created, err := s.ticketRepository.Create(ctx, tx, &model.Ticket{
				EventID:     eventID,
				UserID:      userID,
				HolderName:  req.FullName,
				HolderEmail: req.Email,
				PhoneNumber: req.PhoneNumber,
				UnitPrice:   locked.Price,
				Type:        model.TicketTypeGeneral,
				Status:      model.TicketStatusActive,
				Quantity:    req.Quantity,
			})
			if err != nil {
				return err
			}

			// 3. 扣減名額（條件式更新）
			if err := s.ledger.Commit(ctx, tx, eventID, req.Quantity); err != nil {
				return err
			}

			ticket = created
			event = locked
			return nil
		},
		AfterCommit: func(ctx context.Context) {
			s.sendConfirmation(ctx, event, ticket)
		},
	}, req.Code)
	if err != nil {
		logFailure(s.log, "confirm_reservation", eventID, err)
		return nil, err
	}

	s.log.Info("reservation confirmed",
		zap.String("event_id", eventID.String()),
		zap.String("user_id", userID.String()),
		zap.String("ticket_id", ticket.ID.String()),
		zap.Int("quantity", ticket.Quantity),
	)
	return ticket, nil
}

func (s *ReservationServiceImpl) sendConfirmation(ctx context.Context, event *model.Event, ticket *model.Ticket) {
	text := fmt.Sprintf("You have successfully reserved %d ticket(s) for the event: %s.", ticket.Quantity, event.Name)
	err := s.dispatcher.SendEmail(ctx, notify.Email{
		To:      ticket.HolderEmail,
		Subject: "Reservation Confirmation",
		Text:    text,
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>%s</p><p>Total: %.2f</p>",
			html.EscapeString(ticket.HolderName), html.EscapeString(text), ticket.TotalPrice()),
	})
	if err != nil {
		s.log.Error("send reservation confirmation failed",
			zap.String("event_id", event.ID.String()),
			zap.String("ticket_id", ticket.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ReservationServiceImpl) CancelReservation(ctx context.Context, userID, eventID uuid.UUID) (*model.Event, error) {
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.eventRepository.FindByIDWithLock(ctx, tx, eventID); err != nil {
			return err
		}

		released, err := s.ticketRepository.CancelByEventAndUser(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}
		if released == 0 {
			return apperrors.ErrNotAttending
		}

		return s.ledger.Release(ctx, tx, eventID, released)
	})
	if err != nil {
		logFailure(s.log, "cancel_reservation", eventID, err)
		return nil, err
	}

	return s.eventRepository.FindByID(ctx, eventID)
}
