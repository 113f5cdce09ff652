package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/services-marketplace/internal/models"
)

// JobStore описывает взаимодействие сервисов с хранилищем заявок.
// Update обязан выполнять fn атомарно относительно других мутаций той же
// заявки и фиксировать результат только при отсутствии ошибки.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Update(ctx context.Context, id uuid.UUID, fn func(job *models.Job) error) (*models.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter func(job *models.Job) bool) ([]models.Job, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error)
	ListByStatus(ctx context.Context, status string) ([]models.Job, error)
}

// DisputeStore описывает взаимодействие сервисов с хранилищем споров.
type DisputeStore interface {
	Create(ctx context.Context, d *models.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	GetByMilestoneID(ctx context.Context, milestoneID uuid.UUID) (*models.Dispute, error)
	Update(ctx context.Context, id uuid.UUID, fn func(d *models.Dispute) error) (*models.Dispute, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error)
}
