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
)

// DefaultMilestoneDescription — описание этапа, создаваемого при назначении.
const DefaultMilestoneDescription = "Milestone payment"

// AwardService координирует назначение исполнителя: переводит отклик,
// заявку и этапы оплаты согласованно, в одной критической секции заявки.
// Это единственное место, где заявке проставляется AwardedProfessionalID.
type AwardService struct {
	repo     JobStore
	notifier Notifier
	metrics  *metrics.LifecycleMetrics
	now      func() time.Time
}

// NewAwardService создаёт координатор назначений.
func NewAwardService(repo JobStore, notifier Notifier, m *metrics.LifecycleMetrics) *AwardService {
	return &AwardService{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

// AwardWithMilestone назначает исполнителя и создаёт первый этап оплаты.
// Этап добавляется к существующему списку: повторное назначение не
// уничтожает ранее созданные этапы. Прежний awarded-отклик автоматически
// не отклоняется — вызывающая сторона отклоняет его явно.
func (s *AwardService) AwardWithMilestone(ctx context.Context, actor identity.Actor, jobID, quoteID, professionalID uuid.UUID, milestoneAmount int64) (*models.Job, error) {
	if milestoneAmount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма этапа должна быть положительной")
	}

	now := s.now()
	milestone := &models.Milestone{
		ID:          uuid.New(),
		Description: DefaultMilestoneDescription,
		Amount:      milestoneAmount,
		Status:      models.MilestoneStatusAwaitingAccept,
		CreatedAt:   now,
	}

	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		if job.ClientID != actor.ID && !actor.IsAdmin() {
			return apperror.ErrForbidden
		}
		return applyAward(job, quoteID, professionalID, milestone, s.metrics)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAward("with_milestone")
	s.notifyProfessional(professionalID, EventQuoteAwarded, job)
	logger.WithComponent("award_service").
		WithField("job_id", jobID).
		WithField("professional_id", professionalID).
		WithField("milestone_amount", milestoneAmount).
		Info("исполнитель назначен с этапом оплаты")
	return job, nil
}

// AwardWithoutMilestone назначает исполнителя без создания этапа.
// Статус заявки не меняется: дальнейшее продвижение — ответственность
// вызывающей стороны.
func (s *AwardService) AwardWithoutMilestone(ctx context.Context, actor identity.Actor, jobID, quoteID, professionalID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		if job.ClientID != actor.ID && !actor.IsAdmin() {
			return apperror.ErrForbidden
		}
		return applyAward(job, quoteID, professionalID, nil, s.metrics)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAward("without_milestone")
	s.notifyProfessional(professionalID, EventQuoteAwarded, job)
	logger.WithComponent("award_service").
		WithField("job_id", jobID).
		WithField("professional_id", professionalID).
		Info("исполнитель назначен без этапа оплаты")
	return job, nil
}

// AcceptAward принимает назначение от имени исполнителя: отклик становится
// accepted, заявка — in-progress, все этапы awaiting-accept — in-progress.
func (s *AwardService) AcceptAward(ctx context.Context, actor identity.Actor, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		return applyAcceptAward(job, actor.ID, s.metrics)
	})
	if err != nil {
		return nil, err
	}

	s.notifyClient(job, EventAwardAccepted)
	logger.WithComponent("award_service").
		WithField("job_id", jobID).
		WithField("professional_id", actor.ID).
		Info("назначение принято исполнителем")
	return job, nil
}

// RejectAward отклоняет назначение от имени исполнителя.
// Заявка и этапы намеренно остаются как есть: возврат заявки в active —
// отдельное продуктовое решение, см. DESIGN.md.
func (s *AwardService) RejectAward(ctx context.Context, actor identity.Actor, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		quote := job.FindQuoteByProfessional(actor.ID)
		if quote == nil {
			return apperror.ErrQuoteNotFound
		}
		if !models.CanQuoteTransition(quote.Status, models.QuoteStatusRejected) {
			s.metrics.RecordTransitionError("quote")
			return apperror.Newf(apperror.ErrCodeInvalidTransition,
				"переход отклика %s -> %s недопустим", quote.Status, models.QuoteStatusRejected)
		}
		quote.Status = models.QuoteStatusRejected
		// AwardedProfessionalID держится, только пока есть awarded/accepted отклик.
		if job.AwardedProfessionalID != nil && *job.AwardedProfessionalID == actor.ID {
			job.AwardedProfessionalID = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyClient(job, EventQuoteRejected)
	logger.WithComponent("award_service").
		WithField("job_id", jobID).
		WithField("professional_id", actor.ID).
		Info("назначение отклонено исполнителем")
	return job, nil
}

// applyAward переводит отклик в awarded и закрепляет исполнителя за заявкой.
// Единственная точка записи семантики назначения: и координатор, и
// QuoteService проходят через неё.
func applyAward(job *models.Job, quoteID, professionalID uuid.UUID, milestone *models.Milestone, m *metrics.LifecycleMetrics) error {
	quote := job.FindQuote(quoteID)
	if quote == nil {
		return apperror.ErrQuoteNotFound
	}
	if quote.ProfessionalID != professionalID {
		return apperror.New(apperror.ErrCodeValidation, "отклик принадлежит другому специалисту")
	}
	if !models.CanQuoteTransition(quote.Status, models.QuoteStatusAwarded) {
		m.RecordTransitionError("quote")
		return apperror.Newf(apperror.ErrCodeInvalidTransition,
			"переход отклика %s -> %s недопустим", quote.Status, models.QuoteStatusAwarded)
	}

	if milestone != nil {
		// Повторное назначение остаётся в awaiting-accept; из остальных
		// статусов переход проверяется по таблице.
		if job.Status != models.JobStatusAwaitingAccept {
			if !models.CanJobTransition(job.Status, models.JobStatusAwaitingAccept) {
				m.RecordTransitionError("job")
				return apperror.Newf(apperror.ErrCodeInvalidTransition,
					"переход заявки %s -> %s недопустим", job.Status, models.JobStatusAwaitingAccept)
			}
			job.Status = models.JobStatusAwaitingAccept
		}
		job.Milestones = append(job.Milestones, *milestone)
	}

	quote.Status = models.QuoteStatusAwarded
	pid := professionalID
	job.AwardedProfessionalID = &pid
	return nil
}

// applyAcceptAward переводит awarded-отклик исполнителя в accepted,
// заявку — в in-progress и принимает все этапы awaiting-accept.
// Принять назначение может только исполнитель, закреплённый за заявкой:
// после переназначения прежний awarded-отклик считается устаревшим.
func applyAcceptAward(job *models.Job, professionalID uuid.UUID, m *metrics.LifecycleMetrics) error {
	quote := job.FindQuoteByProfessional(professionalID)
	if quote == nil {
		return apperror.ErrQuoteNotFound
	}
	if job.AwardedProfessionalID == nil || *job.AwardedProfessionalID != professionalID {
		m.RecordTransitionError("quote")
		return apperror.New(apperror.ErrCodeInvalidTransition,
			"назначение закреплено за другим исполнителем")
	}
	if !models.CanQuoteTransition(quote.Status, models.QuoteStatusAccepted) {
		m.RecordTransitionError("quote")
		return apperror.Newf(apperror.ErrCodeInvalidTransition,
			"переход отклика %s -> %s недопустим", quote.Status, models.QuoteStatusAccepted)
	}
	if !models.CanJobTransition(job.Status, models.JobStatusInProgress) {
		m.RecordTransitionError("job")
		return apperror.Newf(apperror.ErrCodeInvalidTransition,
			"переход заявки %s -> %s недопустим", job.Status, models.JobStatusInProgress)
	}

	quote.Status = models.QuoteStatusAccepted
	job.Status = models.JobStatusInProgress
	for i := range job.Milestones {
		if job.Milestones[i].Status == models.MilestoneStatusAwaitingAccept {
			job.Milestones[i].Status = models.MilestoneStatusInProgress
		}
	}
	return nil
}

func (s *AwardService) notifyProfessional(professionalID uuid.UUID, event string, job *models.Job) {
	if s.notifier == nil {
		return
	}
	goroutine.SafeGo(func() {
		if err := s.notifier.BroadcastToUser(professionalID, event, job); err != nil {
			logger.WithComponent("award_service").WithError(err).Warn("не удалось отправить уведомление")
		}
	})
}

func (s *AwardService) notifyClient(job *models.Job, event string) {
	if s.notifier == nil {
		return
	}
	clientID := job.ClientID
	goroutine.SafeGo(func() {
		if err := s.notifier.BroadcastToUser(clientID, event, job); err != nil {
			logger.WithComponent("award_service").WithError(err).Warn("не удалось отправить уведомление")
		}
	})
}
