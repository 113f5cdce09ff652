package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/services-marketplace/internal/identity"
	"github.com/ignatzorin/services-marketplace/internal/logger"
	"github.com/ignatzorin/services-marketplace/internal/metrics"
	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/services-marketplace/internal/validation"
)

// JobService содержит бизнес-логику работы с заявками.
// Кросс-сущностные инварианты (статус заявки против статусов откликов и
// этапов) поддерживают AwardService и MilestoneService, не этот слой.
type JobService struct {
	repo    JobStore
	metrics *metrics.LifecycleMetrics
	now     func() time.Time
}

// NewJobService создаёт новый сервис заявок.
func NewJobService(repo JobStore, m *metrics.LifecycleMetrics) *JobService {
	return &JobService{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// CreateJobInput описывает входные данные новой заявки.
type CreateJobInput struct {
	Title        string
	Description  string
	Sector       string
	Categories   []string
	City         string
	Postcode     string
	TimingMode   string
	TimingDate   *time.Time
	BudgetType   string
	BudgetAmount int64
}

// UpdateJobInput описывает изменяемые поля заявки.
// Nil-поле означает «не менять».
type UpdateJobInput struct {
	Title        *string
	Description  *string
	Sector       *string
	Categories   []string
	City         *string
	Postcode     *string
	TimingMode   *string
	TimingDate   *time.Time
	BudgetType   *string
	BudgetAmount *int64
	Status       *string
}

// CreateJob создаёт заявку и возвращает её.
func (s *JobService) CreateJob(ctx context.Context, actor identity.Actor, in CreateJobInput) (*models.Job, error) {
	if actor.IsZero() {
		return nil, apperror.ErrUnauthorized
	}
	if err := validation.ValidateJobTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateJobDescription(in.Description); err != nil {
		return nil, err
	}
	if len(in.Categories) > validation.MaxCategoriesCount {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "не более %d категорий на заявку", validation.MaxCategoriesCount)
	}
	if in.BudgetAmount < 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "бюджет не может быть отрицательным")
	}
	if in.TimingMode != "" {
		if _, ok := models.ValidTimingModes[in.TimingMode]; !ok {
			return nil, apperror.Newf(apperror.ErrCodeValidation, "некорректный режим сроков: %s", in.TimingMode)
		}
	} else {
		in.TimingMode = models.TimingModeFlexible
	}
	if in.TimingMode == models.TimingModeSpecific && in.TimingDate == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "для режима specific требуется дата выполнения")
	}

	job := &models.Job{
		ID:           uuid.New(),
		ClientID:     actor.ID,
		Title:        in.Title,
		Description:  in.Description,
		Sector:       in.Sector,
		Categories:   append([]string(nil), in.Categories...),
		City:         in.City,
		Postcode:     in.Postcode,
		TimingMode:   in.TimingMode,
		TimingDate:   in.TimingDate,
		BudgetType:   in.BudgetType,
		BudgetAmount: in.BudgetAmount,
		Status:       models.JobStatusActive,
		PostedAt:     s.now(),
		Quotes:       []models.Quote{},
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.metrics.RecordJobCreated()
	logger.WithComponent("job_service").WithField("job_id", job.ID).Info("заявка создана")
	return job, nil
}

// UpdateJob обновляет поля существующей заявки.
// Переход статуса проверяется по таблице переходов; запрещённый переход
// возвращает типизированную ошибку и не меняет заявку.
func (s *JobService) UpdateJob(ctx context.Context, actor identity.Actor, jobID uuid.UUID, in UpdateJobInput) (*models.Job, error) {
	updated, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		if job.ClientID != actor.ID && !actor.IsAdmin() {
			return apperror.ErrForbidden
		}
		if in.Title != nil {
			if err := validation.ValidateJobTitle(*in.Title); err != nil {
				return err
			}
			job.Title = *in.Title
		}
		if in.Description != nil {
			if err := validation.ValidateJobDescription(*in.Description); err != nil {
				return err
			}
			job.Description = *in.Description
		}
		if in.Sector != nil {
			job.Sector = *in.Sector
		}
		if in.Categories != nil {
			job.Categories = append([]string(nil), in.Categories...)
		}
		if in.City != nil {
			job.City = *in.City
		}
		if in.Postcode != nil {
			job.Postcode = *in.Postcode
		}
		if in.TimingMode != nil {
			if _, ok := models.ValidTimingModes[*in.TimingMode]; !ok {
				return apperror.Newf(apperror.ErrCodeValidation, "некорректный режим сроков: %s", *in.TimingMode)
			}
			job.TimingMode = *in.TimingMode
		}
		if in.TimingDate != nil {
			job.TimingDate = in.TimingDate
		}
		if in.BudgetType != nil {
			job.BudgetType = *in.BudgetType
		}
		if in.BudgetAmount != nil {
			if *in.BudgetAmount < 0 {
				return apperror.New(apperror.ErrCodeValidation, "бюджет не может быть отрицательным")
			}
			job.BudgetAmount = *in.BudgetAmount
		}
		if in.Status != nil && *in.Status != job.Status {
			if _, ok := models.ValidJobStatuses[*in.Status]; !ok {
				return apperror.Newf(apperror.ErrCodeValidation, "некорректный статус заявки: %s", *in.Status)
			}
			if !models.CanJobTransition(job.Status, *in.Status) {
				s.metrics.RecordTransitionError("job")
				return apperror.Newf(apperror.ErrCodeInvalidTransition,
					"переход заявки %s -> %s недопустим", job.Status, *in.Status)
			}
			job.Status = *in.Status
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteJob удаляет заявку владельца.
// После назначения исполнителя заявка содержит денежные обязательства
// и удалению не подлежит — только отмене через статус cancelled.
func (s *JobService) DeleteJob(ctx context.Context, actor identity.Actor, jobID uuid.UUID) error {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.ClientID != actor.ID && !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	if job.AwardedProfessionalID != nil {
		return apperror.New(apperror.ErrCodeConflict, "заявку с назначенным исполнителем нельзя удалить")
	}
	return s.repo.Delete(ctx, jobID)
}

// GetJobByID возвращает заявку по идентификатору.
func (s *JobService) GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return s.repo.GetByID(ctx, jobID)
}

// ListJobsByClient возвращает заявки клиента.
func (s *JobService) ListJobsByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListAvailableJobs возвращает активные заявки для просмотра специалистами.
func (s *JobService) ListAvailableJobs(ctx context.Context) ([]models.Job, error) {
	return s.repo.ListByStatus(ctx, models.JobStatusActive)
}
