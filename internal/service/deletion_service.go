package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logi-events/config"
	"logi-events/internal/model"
	"logi-events/internal/notify"
	"logi-events/internal/repository"
	apperrors "logi-events/pkg/app_errors"
	"logi-events/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DeletionService interface {
	// 寄出刪除驗證碼（簡訊與郵件）
	RequestDeletion(ctx context.Context, actorID, eventID uuid.UUID) error
	// 驗證碼綁定操作者本人，成功後軟刪除活動
	ConfirmDeletion(ctx context.Context, actorID, eventID uuid.UUID, code string) error
}

type DeletionServiceImpl struct {
	gate            OTPGate
	dispatcher      notify.Dispatcher
	eventRepository repository.EventRepository
	userRepository  repository.UserRepository
	codeTTL         time.Duration
	log             *zap.Logger
}

func NewDeletionService(
	gate OTPGate,
	dispatcher notify.Dispatcher,
	eventRepository repository.EventRepository,
	userRepository repository.UserRepository,
	cfg config.OTPConfig,
) DeletionService {
	return &DeletionServiceImpl{
		gate:            gate,
		dispatcher:      dispatcher,
		eventRepository: eventRepository,
		userRepository:  userRepository,
		codeTTL:         cfg.TTL,
		log:             logger.WithComponent("deletion_service"),
	}
}

// loadActor 角色以資料庫為準，不只看 token
func (s *DeletionServiceImpl) loadActor(ctx context.Context, actorID uuid.UUID) (*model.User, error) {
	actor, err := s.userRepository.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageEvents() {
		return nil, apperrors.ErrForbidden
	}
	return actor, nil
}

func (s *DeletionServiceImpl) RequestDeletion(ctx context.Context, actorID, eventID uuid.UUID) error {
	var actor *model.User

	err := s.gate.Request(ctx, GatedAction{
		Purpose:   model.OTPPurposeEventDeletion,
		UserID:    actorID,
		SubjectID: eventID,
		Precondition: func(ctx context.Context) error {
			var err error
			actor, err = s.loadActor(ctx, actorID)
			if err != nil {
				return err
			}
			event, err := s.eventRepository.FindByID(ctx, eventID)
			if err != nil {
				return err
			}
			if !actor.MayActOn(event) {
				return apperrors.ErrForbidden
			}
			return nil
		},
		Deliver: func(ctx context.Context, code string) error {
			return s.deliver(ctx, actor, code)
		},
	})
	if err != nil {
		logFailure(s.log, "request_deletion", eventID, err)
		return err
	}

	s.log.Info("deletion code issued",
		zap.String("event_id", eventID.String()),
		zap.String("actor_id", actorID.String()),
	)
	return nil
}

// deliver 兩個管道都會嘗試
func (s *DeletionServiceImpl) deliver(ctx context.Context, actor *model.User, code string) error {
	var errs []error

	if actor.PhoneNumber == "" {
		errs = append(errs, errors.New("actor has no phone number"))
	} else if err := s.dispatcher.SendVerificationCode(ctx, actor.PhoneNumber, code); err != nil {
		errs = append(errs, err)
	}

	minutes := int(s.codeTTL.Minutes())
	err := s.dispatcher.SendEmail(ctx, notify.Email{
		To:      actor.Email,
		Subject: "Event Deletion OTP",
		Text:    fmt.Sprintf("Your OTP code for event deletion is %s. It will expire in %d minutes.", code, minutes),
		HTML:    fmt.Sprintf("<p>Your OTP code for event deletion is <strong>%s</strong>.</p><p>It will expire in %d minutes.</p>", code, minutes),
	})
	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *DeletionServiceImpl) ConfirmDeletion(ctx context.Context, actorID, eventID uuid.UUID, code string) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		logFailure(s.log, "confirm_deletion", eventID, err)
		return err
	}

	err = s.gate.Confirm(ctx, GatedAction{
		Purpose:   model.OTPPurposeEventDeletion,
		UserID:    actorID,
		SubjectID: eventID,
		Effect: func(ctx context.Context, tx pgx.Tx) error {
			event, err := s.eventRepository.FindByIDWithLock(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if !actor.MayActOn(event) {
				return apperrors.ErrForbidden
			}
			return s.eventRepository.SoftDelete(ctx, tx, eventID, actorID)
		},
	}, code)
	if err != nil {
		logFailure(s.log, "confirm_deletion", eventID, err)
		return err
	}

	s.log.Info("event deleted",
		zap.String("event_id", eventID.String()),
		zap.String("actor_id", actorID.String()),
	)
	return nil
}
