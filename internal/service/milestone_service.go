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

// MilestoneService управляет этапами оплаты заявки.
//
// Машина состояний этапа:
//
//	awaiting-accept --accept(исполнитель)--> in-progress
//	awaiting-accept --delete(клиент)------> [удалён]
//	in-progress --release(клиент)---------> released (терминальный)
//	in-progress --dispute(любая сторона)--> disputed (через DisputeService)
type MilestoneService struct {
	repo     JobStore
	notifier Notifier
	metrics  *metrics.LifecycleMetrics
	now      func() time.Time
}

// NewMilestoneService создаёт новый сервис этапов оплаты.
func NewMilestoneService(repo JobStore, notifier Notifier, m *metrics.LifecycleMetrics) *MilestoneService {
	return &MilestoneService{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

// AddMilestone добавляет этап оплаты. Предложить дополнительный этап может
// любая из двух сторон заявки.
func (s *MilestoneService) AddMilestone(ctx context.Context, actor identity.Actor, jobID uuid.UUID, description string, amount int64) (*models.Job, error) {
	if amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма этапа должна быть положительной")
	}
	if description == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "описание этапа обязательно")
	}

	milestone := models.Milestone{
		ID:          uuid.New(),
		Description: description,
		Amount:      amount,
		Status:      models.MilestoneStatusAwaitingAccept,
		CreatedAt:   s.now(),
	}

	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		if err := requireJobParty(job, actor); err != nil {
			return err
		}
		job.Milestones = append(job.Milestones, milestone)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithComponent("milestone_service").
		WithField("job_id", jobID).
		WithField("milestone_id", milestone.ID).
		WithField("amount", amount).
		Info("этап оплаты добавлен")
	return job, nil
}

// DeleteMilestone удаляет непринятый этап. Принятый, выплаченный или
// оспоренный этап удалению не подлежит.
func (s *MilestoneService) DeleteMilestone(ctx context.Context, actor identity.Actor, jobID, milestoneID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		if job.ClientID != actor.ID && !actor.IsAdmin() {
			return apperror.ErrForbidden
		}
		for i := range job.Milestones {
			if job.Milestones[i].ID != milestoneID {
				continue
			}
			if job.Milestones[i].Status != models.MilestoneStatusAwaitingAccept {
				s.metrics.RecordTransitionError("milestone")
				return apperror.Newf(apperror.ErrCodeInvalidTransition,
					"удалить можно только этап awaiting-accept, текущий статус %s", job.Milestones[i].Status)
			}
			job.Milestones = append(job.Milestones[:i], job.Milestones[i+1:]...)
			return nil
		}
		return apperror.ErrMilestoneNotFound
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// AcceptMilestone принимает этап от имени исполнителя и при необходимости
// продвигает заявку в in-progress.
func (s *MilestoneService) AcceptMilestone(ctx context.Context, actor identity.Actor, jobID, milestoneID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		if !actor.IsAdmin() {
			if job.AwardedProfessionalID == nil || *job.AwardedProfessionalID != actor.ID {
				return apperror.ErrForbidden
			}
		}
		milestone := job.FindMilestone(milestoneID)
		if milestone == nil {
			return apperror.ErrMilestoneNotFound
		}
		if !models.CanMilestoneTransition(milestone.Status, models.MilestoneStatusInProgress) {
			s.metrics.RecordTransitionError("milestone")
			return apperror.Newf(apperror.ErrCodeInvalidTransition,
				"переход этапа %s -> %s недопустим", milestone.Status, models.MilestoneStatusInProgress)
		}
		milestone.Status = models.MilestoneStatusInProgress
		if models.CanJobTransition(job.Status, models.JobStatusInProgress) {
			job.Status = models.JobStatusInProgress
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithComponent("milestone_service").
		WithField("job_id", jobID).
		WithField("milestone_id", milestoneID).
		Info("этап оплаты принят исполнителем")
	return job, nil
}

// SetMilestoneStatus переводит этап в указанный статус с проверкой таблицы
// переходов. Выплата (released) ставит отметку времени и доступна только
// клиенту; повторная выплата возвращает ошибку перехода, не трогая
// исходную отметку. Статус disputed проставляется исключительно
// DisputeService вместе с привязкой спора.
func (s *MilestoneService) SetMilestoneStatus(ctx context.Context, actor identity.Actor, jobID, milestoneID uuid.UUID, status string) (*models.Job, error) {
	if _, ok := models.ValidMilestoneStatuses[status]; !ok {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "некорректный статус этапа: %s", status)
	}
	if status == models.MilestoneStatusDisputed {
		return nil, apperror.New(apperror.ErrCodeValidation, "статус disputed проставляется только при открытии спора")
	}

	var releasedAmount int64
	var professionalID *uuid.UUID
	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		milestone := job.FindMilestone(milestoneID)
		if milestone == nil {
			return apperror.ErrMilestoneNotFound
		}

		switch status {
		case models.MilestoneStatusReleased:
			if job.ClientID != actor.ID && !actor.IsAdmin() {
				return apperror.ErrForbidden
			}
		case models.MilestoneStatusInProgress:
			if !actor.IsAdmin() {
				if job.AwardedProfessionalID == nil || *job.AwardedProfessionalID != actor.ID {
					return apperror.ErrForbidden
				}
			}
		default:
			if err := requireJobParty(job, actor); err != nil {
				return err
			}
		}

		if !models.CanMilestoneTransition(milestone.Status, status) {
			s.metrics.RecordTransitionError("milestone")
			return apperror.Newf(apperror.ErrCodeInvalidTransition,
				"переход этапа %s -> %s недопустим", milestone.Status, status)
		}

		milestone.Status = status
		if status == models.MilestoneStatusReleased {
			now := s.now()
			milestone.ReleasedAt = &now
			releasedAmount = milestone.Amount
			professionalID = job.AwardedProfessionalID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == models.MilestoneStatusReleased {
		s.metrics.RecordMilestoneReleased(releasedAmount)
		if s.notifier != nil && professionalID != nil {
			pid := *professionalID
			payload := job
			goroutine.SafeGo(func() {
				if err := s.notifier.BroadcastToUser(pid, EventMilestoneReleased, payload); err != nil {
					logger.WithComponent("milestone_service").WithError(err).Warn("не удалось отправить уведомление")
				}
			})
		}
		logger.WithComponent("milestone_service").
			WithField("job_id", jobID).
			WithField("milestone_id", milestoneID).
			WithField("amount", releasedAmount).
			Info("этап оплаты выплачен")
	}
	return job, nil
}

// requireJobParty проверяет, что актор — клиент заявки, назначенный
// исполнитель или администратор.
func requireJobParty(job *models.Job, actor identity.Actor) error {
	if actor.IsAdmin() || job.ClientID == actor.ID {
		return nil
	}
	if job.AwardedProfessionalID != nil && *job.AwardedProfessionalID == actor.ID {
		return nil
	}
	return apperror.ErrForbidden
}
