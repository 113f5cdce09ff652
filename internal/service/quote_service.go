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

// QuoteService содержит бизнес-логику откликов специалистов.
type QuoteService struct {
	repo     JobStore
	notifier Notifier
	metrics  *metrics.LifecycleMetrics
	now      func() time.Time
}

// NewQuoteService создаёт новый сервис откликов.
func NewQuoteService(repo JobStore, notifier Notifier, m *metrics.LifecycleMetrics) *QuoteService {
	return &QuoteService{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

// SubmitQuoteInput описывает входные данные отклика.
// Поля Professional* — снимок профиля, передаваемый провайдером идентификации.
type SubmitQuoteInput struct {
	Price               int64
	DeliveryTime        string
	Message             string
	ProfessionalAvatar  string
	ProfessionalRating  float64
	ProfessionalReviews int
}

// QuoteWithJob связывает отклик с краткой информацией о заявке.
type QuoteWithJob struct {
	Quote    models.Quote `json:"quote"`
	JobID    uuid.UUID    `json:"job_id"`
	JobTitle string       `json:"job_title"`
}

// SubmitQuote подаёт отклик на заявку. Повторный отклик того же
// специалиста на ту же заявку отклоняется с ошибкой конфликта.
func (s *QuoteService) SubmitQuote(ctx context.Context, actor identity.Actor, jobID uuid.UUID, in SubmitQuoteInput) (*models.Quote, error) {
	if actor.IsZero() {
		return nil, apperror.ErrUnauthorized
	}
	if in.Price <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена отклика должна быть положительной")
	}
	if err := validation.ValidateQuoteMessage(in.Message); err != nil {
		return nil, err
	}

	quote := models.Quote{
		ID:                  uuid.New(),
		ProfessionalID:      actor.ID,
		ProfessionalName:    actor.Name,
		ProfessionalAvatar:  in.ProfessionalAvatar,
		ProfessionalRating:  in.ProfessionalRating,
		ProfessionalReviews: in.ProfessionalReviews,
		Price:               in.Price,
		DeliveryTime:        in.DeliveryTime,
		Message:             validation.SanitizeText(in.Message),
		SubmittedAt:         s.now(),
		Status:              models.QuoteStatusPending,
	}

	_, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		if job.ClientID == actor.ID {
			return apperror.New(apperror.ErrCodeValidation, "нельзя откликнуться на свою заявку")
		}
		if job.Status != models.JobStatusActive {
			return apperror.Newf(apperror.ErrCodeConflict,
				"заявка в статусе %s не принимает отклики", job.Status)
		}
		if job.FindQuoteByProfessional(actor.ID) != nil {
			return apperror.ErrDuplicateQuote
		}
		job.Quotes = append(job.Quotes, quote)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordQuoteSubmitted()
	logger.WithComponent("quote_service").
		WithField("job_id", jobID).
		WithField("professional_id", actor.ID).
		Info("отклик подан")
	return &quote, nil
}

// SetQuoteStatus переводит отклик в один из статусов accepted, rejected,
// awarded. Семантика awarded и accepted делегируется тем же функциям,
// что использует AwardService, поэтому статус заявки всегда пишется из
// одного места.
func (s *QuoteService) SetQuoteStatus(ctx context.Context, actor identity.Actor, jobID, quoteID uuid.UUID, status string) (*models.Job, error) {
	switch status {
	case models.QuoteStatusAccepted, models.QuoteStatusRejected, models.QuoteStatusAwarded:
	default:
		return nil, apperror.Newf(apperror.ErrCodeValidation, "недопустимый целевой статус отклика: %s", status)
	}

	var rejectedProfessional uuid.UUID
	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		quote := job.FindQuote(quoteID)
		if quote == nil {
			return apperror.ErrQuoteNotFound
		}

		switch status {
		case models.QuoteStatusAwarded:
			if job.ClientID != actor.ID && !actor.IsAdmin() {
				return apperror.ErrForbidden
			}
			return applyAward(job, quoteID, quote.ProfessionalID, nil, s.metrics)
		case models.QuoteStatusAccepted:
			if quote.ProfessionalID != actor.ID && !actor.IsAdmin() {
				return apperror.ErrForbidden
			}
			return applyAcceptAward(job, quote.ProfessionalID, s.metrics)
		default: // rejected
			if job.ClientID != actor.ID && !actor.IsAdmin() {
				return apperror.ErrForbidden
			}
			if !models.CanQuoteTransition(quote.Status, models.QuoteStatusRejected) {
				s.metrics.RecordTransitionError("quote")
				return apperror.Newf(apperror.ErrCodeInvalidTransition,
					"переход отклика %s -> %s недопустим", quote.Status, models.QuoteStatusRejected)
			}
			wasAwarded := quote.Status == models.QuoteStatusAwarded
			quote.Status = models.QuoteStatusRejected
			if wasAwarded && job.AwardedProfessionalID != nil && *job.AwardedProfessionalID == quote.ProfessionalID {
				job.AwardedProfessionalID = nil
			}
			rejectedProfessional = quote.ProfessionalID
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	if status == models.QuoteStatusRejected && s.notifier != nil {
		pid := rejectedProfessional
		payload := job
		goroutine.SafeGo(func() {
			if err := s.notifier.BroadcastToUser(pid, EventQuoteRejected, payload); err != nil {
				logger.WithComponent("quote_service").WithError(err).Warn("не удалось отправить уведомление")
			}
		})
	}
	return job, nil
}

// RejectQuote отклоняет pending-отклик (удобная обёртка для клиента).
// Awarded-отклик отклоняется явным SetQuoteStatus при переназначении.
func (s *QuoteService) RejectQuote(ctx context.Context, actor identity.Actor, jobID, quoteID uuid.UUID) (*models.Job, error) {
	var rejectedProfessional uuid.UUID
	job, err := s.repo.Update(ctx, jobID, func(job *models.Job) error {
		if job.ClientID != actor.ID && !actor.IsAdmin() {
			return apperror.ErrForbidden
		}
		quote := job.FindQuote(quoteID)
		if quote == nil {
			return apperror.ErrQuoteNotFound
		}
		if quote.Status != models.QuoteStatusPending {
			s.metrics.RecordTransitionError("quote")
			return apperror.Newf(apperror.ErrCodeInvalidTransition,
				"отклонить можно только pending-отклик, текущий статус %s", quote.Status)
		}
		quote.Status = models.QuoteStatusRejected
		rejectedProfessional = quote.ProfessionalID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		pid := rejectedProfessional
		payload := job
		goroutine.SafeGo(func() {
			if err := s.notifier.BroadcastToUser(pid, EventQuoteRejected, payload); err != nil {
				logger.WithComponent("quote_service").WithError(err).Warn("не удалось отправить уведомление")
			}
		})
	}
	return job, nil
}

// ListProfessionalQuotes возвращает все отклики специалиста по всем заявкам.
func (s *QuoteService) ListProfessionalQuotes(ctx context.Context, professionalID uuid.UUID) ([]QuoteWithJob, error) {
	jobs, err := s.repo.List(ctx, func(job *models.Job) bool {
		return job.FindQuoteByProfessional(professionalID) != nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]QuoteWithJob, 0, len(jobs))
	for i := range jobs {
		quote := jobs[i].FindQuoteByProfessional(professionalID)
		if quote == nil {
			continue
		}
		result = append(result, QuoteWithJob{
			Quote:    *quote,
			JobID:    jobs[i].ID,
			JobTitle: jobs[i].Title,
		})
	}
	return result, nil
}

// ListProfessionalActiveJobs возвращает заявки, где специалист назначен
// исполнителем и работа ещё не завершена.
func (s *QuoteService) ListProfessionalActiveJobs(ctx context.Context, professionalID uuid.UUID) ([]models.Job, error) {
	return s.repo.List(ctx, func(job *models.Job) bool {
		if job.AwardedProfessionalID == nil || *job.AwardedProfessionalID != professionalID {
			return false
		}
		return job.Status == models.JobStatusAwaitingAccept || job.Status == models.JobStatusInProgress
	})
}
