package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/pkg/apperror"
)

// JobRepository хранит заявки в памяти. Заявка вместе с откликами и этапами
// образует одну единицу консистентности: все мутации выполняются под
// эксклюзивной блокировкой конкретной заявки по принципу read-modify-replace,
// поэтому две конкурирующие операции над одной заявкой не перемешиваются.
type JobRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*jobEntry
}

type jobEntry struct {
	mu  sync.Mutex
	job *models.Job
}

func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: make(map[uuid.UUID]*jobEntry)}
}

// Create сохраняет новую заявку.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return apperror.Newf(apperror.ErrCodeConflict, "заявка %s уже существует", job.ID)
	}
	r.jobs[job.ID] = &jobEntry{job: job.Clone()}
	return nil
}

// GetByID возвращает копию заявки.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.job.Clone(), nil
}

// Update выполняет fn над копией заявки под её блокировкой и фиксирует
// результат только при отсутствии ошибки. Неудачная мутация не оставляет
// никаких следов (всё-или-ничего на операцию).
func (r *JobRepository) Update(ctx context.Context, id uuid.UUID, fn func(job *models.Job) error) (*models.Job, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	draft := entry.job.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	entry.job = draft
	return draft.Clone(), nil
}

// Delete удаляет заявку.
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[id]; !exists {
		return apperror.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

// List возвращает копии заявок, удовлетворяющих фильтру,
// отсортированные по дате публикации (новые первыми).
func (r *JobRepository) List(ctx context.Context, filter func(job *models.Job) bool) ([]models.Job, error) {
	r.mu.RLock()
	entries := make([]*jobEntry, 0, len(r.jobs))
	for _, entry := range r.jobs {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	result := make([]models.Job, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		if filter == nil || filter(entry.job) {
			result = append(result, *entry.job.Clone())
		}
		entry.mu.Unlock()
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PostedAt.After(result[j].PostedAt)
	})
	return result, nil
}

// ListByClient возвращает заявки конкретного клиента.
func (r *JobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	return r.List(ctx, func(job *models.Job) bool {
		return job.ClientID == clientID
	})
}

// ListByStatus возвращает заявки в указанном статусе.
func (r *JobRepository) ListByStatus(ctx context.Context, status string) ([]models.Job, error) {
	return r.List(ctx, func(job *models.Job) bool {
		return job.Status == status
	})
}

func (r *JobRepository) entry(id uuid.UUID) (*jobEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.jobs[id]
	if !ok {
		return nil, apperror.ErrJobNotFound
	}
	return entry, nil
}
