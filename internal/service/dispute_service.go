package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/services-marketplace/internal/goroutine"
	"github.com/ignatzorin/services-marketplace/internal/identity"
	"github.com/ignatzorin/services-marketplace/internal/logger"
	"github.com/ignatzorin/services-marketplace/internal/metrics"
	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/services-marketplace/internal/validation"
)

// DisputeService управляет спорами по этапам оплаты: тредом сообщений и
// переговорами из встречных предложений с дедлайном подключения команды.
// На этап может существовать не более одного открытого спора.
type DisputeService struct {
	jobs              JobStore
	disputes          DisputeStore
	notifier          Notifier
	metrics           *metrics.LifecycleMetrics
	interventionDelay time.Duration
	now               func() time.Time
}

// NewDisputeService создаёт новый сервис споров.
// interventionDelay — SLA до ожидаемого подключения команды поддержки.
func NewDisputeService(jobs JobStore, disputes DisputeStore, notifier Notifier, m *metrics.LifecycleMetrics, interventionDelay time.Duration) *DisputeService {
	return &DisputeService{
		jobs:              jobs,
		disputes:          disputes,
		notifier:          notifier,
		metrics:           m,
		interventionDelay: interventionDelay,
		now:               time.Now,
	}
}

// CreateDisputeInput описывает входные данные спора.
// RespondentName передаётся вызывающей стороной из провайдера идентификации;
// для ответчика-исполнителя при пустом значении берётся снимок из отклика.
type CreateDisputeInput struct {
	Reason         string
	Evidence       *string
	RespondentName string
}

// CreateDispute открывает спор по этапу оплаты. Сумма спора — снимок суммы
// этапа на момент открытия. Этап переводится в disputed и получает ссылку
// на спор в той же критической секции заявки: обе записи фиксируются
// атомарно либо не фиксируются вовсе.
func (s *DisputeService) CreateDispute(ctx context.Context, actor identity.Actor, jobID, milestoneID uuid.UUID, in CreateDisputeInput) (*models.Dispute, error) {
	if actor.IsZero() {
		return nil, apperror.ErrUnauthorized
	}
	if err := validation.ValidateDisputeReason(in.Reason); err != nil {
		return nil, err
	}

	now := s.now()
	var dispute *models.Dispute

	_, err := s.jobs.Update(ctx, jobID, func(job *models.Job) error {
		milestone := job.FindMilestone(milestoneID)
		if milestone == nil {
			return apperror.ErrMilestoneNotFound
		}
		if err := requireJobParty(job, actor); err != nil {
			return err
		}
		if milestone.DisputeID != nil {
			// По этапу допустим только один незакрытый спор; после
			// урегулирования прежнего новый спор открыть можно.
			prev, err := s.disputes.GetByMilestoneID(ctx, milestone.ID)
			if err != nil && !apperror.IsNotFound(err) {
				return err
			}
			if prev != nil && prev.Status == models.DisputeStatusOpen {
				return apperror.New(apperror.ErrCodeConflict, "по этому этапу уже открыт спор")
			}
		}
		if !models.CanMilestoneTransition(milestone.Status, models.MilestoneStatusDisputed) {
			s.metrics.RecordTransitionError("milestone")
			return apperror.Newf(apperror.ErrCodeInvalidTransition,
				"переход этапа %s -> %s недопустим", milestone.Status, models.MilestoneStatusDisputed)
		}

		respondentID, respondentName, err := resolveRespondent(job, actor, in.RespondentName)
		if err != nil {
			return err
		}

		dispute = &models.Dispute{
			ID:             uuid.New(),
			JobID:          job.ID,
			MilestoneID:    milestone.ID,
			ClaimantID:     actor.ID,
			ClaimantName:   actor.Name,
			RespondentID:   respondentID,
			RespondentName: respondentName,
			Amount:         milestone.Amount,
			Reason:         in.Reason,
			Evidence:       in.Evidence,
			Status:         models.DisputeStatusOpen,
			Messages: []models.DisputeMessage{{
				ID:        uuid.New(),
				UserID:    actor.ID,
				UserName:  actor.Name,
				Message:   in.Reason,
				Timestamp: now,
			}},
			CreatedAt:          now,
			TeamInterventionAt: now.Add(s.interventionDelay),
		}

		milestone.Status = models.MilestoneStatusDisputed
		disputeID := dispute.ID
		milestone.DisputeID = &disputeID

		// Вставка спора внутри критической секции заявки: откат fn
		// означает, что спор не создан, а этап не изменён.
		return s.disputes.Create(ctx, dispute)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDisputeOpened()
	if s.notifier != nil {
		respondentID := dispute.RespondentID
		payload := dispute
		goroutine.SafeGo(func() {
			if err := s.notifier.BroadcastToUser(respondentID, EventDisputeOpened, payload); err != nil {
				logger.WithComponent("dispute_service").WithError(err).Warn("не удалось отправить уведомление")
			}
		})
	}
	logger.WithComponent("dispute_service").
		WithField("dispute_id", dispute.ID).
		WithField("job_id", jobID).
		WithField("milestone_id", milestoneID).
		WithField("amount", dispute.Amount).
		Info("спор открыт")
	return dispute, nil
}

// GetDisputeByID возвращает спор. Доступен сторонам спора и администраторам.
func (s *DisputeService) GetDisputeByID(ctx context.Context, actor identity.Actor, disputeID uuid.UUID) (*models.Dispute, error) {
	dispute, err := s.disputes.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !dispute.IsParty(actor.ID) && !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	return dispute, nil
}

// AddDisputeMessage добавляет сообщение в тред спора.
// Писать могут только стороны спора и команда поддержки.
func (s *DisputeService) AddDisputeMessage(ctx context.Context, actor identity.Actor, disputeID uuid.UUID, message string) (*models.Dispute, error) {
	if err := validation.ValidateNonEmpty("сообщение", message); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength("сообщение", message, 0, validation.MaxDisputeMessageLength); err != nil {
		return nil, err
	}

	return s.disputes.Update(ctx, disputeID, func(d *models.Dispute) error {
		if !d.IsParty(actor.ID) && !actor.IsAdmin() {
			return apperror.ErrForbidden
		}
		if d.Status != models.DisputeStatusOpen {
			return apperror.Newf(apperror.ErrCodeConflict, "спор в статусе %s закрыт для сообщений", d.Status)
		}
		d.Messages = append(d.Messages, models.DisputeMessage{
			ID:             uuid.New(),
			UserID:         actor.ID,
			UserName:       actor.Name,
			Message:        validation.SanitizeText(message),
			Timestamp:      s.now(),
			IsTeamResponse: actor.IsAdmin(),
		})
		return nil
	})
}

// MakeOffer фиксирует предложение урегулирования от одной из сторон.
// Новое предложение той же стороны замещает предыдущее. Совпадение
// встречных предложений спор не закрывает: урегулирование — явный
// отдельный шаг.
func (s *DisputeService) MakeOffer(ctx context.Context, actor identity.Actor, disputeID uuid.UUID, amount int64) (*models.Dispute, error) {
	if amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма предложения должна быть положительной")
	}

	return s.disputes.Update(ctx, disputeID, func(d *models.Dispute) error {
		if !d.IsParty(actor.ID) {
			return apperror.ErrForbidden
		}
		if d.Status != models.DisputeStatusOpen {
			return apperror.Newf(apperror.ErrCodeConflict, "спор в статусе %s закрыт для предложений", d.Status)
		}
		offer := &models.DisputeOffer{
			UserID:    actor.ID,
			Amount:    amount,
			Timestamp: s.now(),
		}
		if actor.ID == d.ClaimantID {
			d.ClaimantOffer = offer
		} else {
			d.RespondentOffer = offer
		}
		return nil
	})
}

// ResolveDispute закрывает спор решением команды поддержки.
// reopenMilestone возвращает этап в in-progress для продолжения работ;
// иначе этап остаётся в disputed как урегулированный, а его DisputeID
// продолжает указывать на разрешённый спор.
func (s *DisputeService) ResolveDispute(ctx context.Context, actor identity.Actor, disputeID uuid.UUID, status string, reopenMilestone bool) (*models.Dispute, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if status != models.DisputeStatusResolved && status != models.DisputeStatusClosed {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "недопустимый итоговый статус спора: %s", status)
	}

	var jobID, milestoneID uuid.UUID
	dispute, err := s.disputes.Update(ctx, disputeID, func(d *models.Dispute) error {
		if d.Status != models.DisputeStatusOpen {
			s.metrics.RecordTransitionError("dispute")
			return apperror.Newf(apperror.ErrCodeInvalidTransition,
				"переход спора %s -> %s недопустим", d.Status, status)
		}
		now := s.now()
		d.Status = status
		d.ResolvedAt = &now
		jobID = d.JobID
		milestoneID = d.MilestoneID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reopenMilestone {
		// Возврат этапа в работу — прерогатива движка споров, таблица
		// переходов этапов этот путь намеренно не содержит.
		if _, err := s.jobs.Update(ctx, jobID, func(job *models.Job) error {
			milestone := job.FindMilestone(milestoneID)
			if milestone == nil {
				return apperror.ErrMilestoneNotFound
			}
			if milestone.Status == models.MilestoneStatusDisputed {
				milestone.Status = models.MilestoneStatusInProgress
			}
			return nil
		}); err != nil {
			logger.WithComponent("dispute_service").WithError(err).
				WithField("dispute_id", disputeID).
				Warn("спор урегулирован, но этап не удалось вернуть в работу")
		}
	}

	s.metrics.RecordDisputeSettled()
	if s.notifier != nil {
		payload := dispute
		for _, uid := range []uuid.UUID{dispute.ClaimantID, dispute.RespondentID} {
			userID := uid
			goroutine.SafeGo(func() {
				if err := s.notifier.BroadcastToUser(userID, EventDisputeResolved, payload); err != nil {
					logger.WithComponent("dispute_service").WithError(err).Warn("не удалось отправить уведомление")
				}
			})
		}
	}
	logger.WithComponent("dispute_service").
		WithField("dispute_id", disputeID).
		WithField("status", status).
		Info("спор урегулирован")
	return dispute, nil
}

// ListUserDisputes возвращает споры, где пользователь — одна из сторон.
func (s *DisputeService) ListUserDisputes(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error) {
	return s.disputes.ListByUser(ctx, userID)
}

// resolveRespondent определяет ответчика: для клиента это назначенный
// исполнитель, для исполнителя — клиент.
func resolveRespondent(job *models.Job, actor identity.Actor, fallbackName string) (uuid.UUID, string, error) {
	if actor.ID == job.ClientID {
		if job.AwardedProfessionalID == nil {
			return uuid.Nil, "", apperror.New(apperror.ErrCodeConflict, "у заявки нет назначенного исполнителя")
		}
		name := fallbackName
		if name == "" {
			if quote := job.FindQuoteByProfessional(*job.AwardedProfessionalID); quote != nil {
				name = quote.ProfessionalName
			}
		}
		return *job.AwardedProfessionalID, name, nil
	}
	return job.ClientID, fallbackName, nil
}
