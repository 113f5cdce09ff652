package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/pkg/apperror"
)

// DisputeRepository хранит споры в памяти. Каждый спор — отдельная единица
// консистентности со своей блокировкой, по той же схеме, что и JobRepository.
type DisputeRepository struct {
	mu       sync.RWMutex
	disputes map[uuid.UUID]*disputeEntry
}

type disputeEntry struct {
	mu      sync.Mutex
	dispute *models.Dispute
}

func NewDisputeRepository() *DisputeRepository {
	return &DisputeRepository{disputes: make(map[uuid.UUID]*disputeEntry)}
}

// Create сохраняет новый спор.
func (r *DisputeRepository) Create(ctx context.Context, d *models.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.disputes[d.ID]; exists {
		return apperror.Newf(apperror.ErrCodeConflict, "спор %s уже существует", d.ID)
	}
	r.disputes[d.ID] = &disputeEntry{dispute: d.Clone()}
	return nil
}

// GetByID возвращает копию спора.
func (r *DisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.dispute.Clone(), nil
}

// GetByMilestoneID возвращает спор, привязанный к этапу оплаты.
func (r *DisputeRepository) GetByMilestoneID(ctx context.Context, milestoneID uuid.UUID) (*models.Dispute, error) {
	r.mu.RLock()
	entries := make([]*disputeEntry, 0, len(r.disputes))
	for _, entry := range r.disputes {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	for _, entry := range entries {
		entry.mu.Lock()
		if entry.dispute.MilestoneID == milestoneID {
			d := entry.dispute.Clone()
			entry.mu.Unlock()
			return d, nil
		}
		entry.mu.Unlock()
	}
	return nil, apperror.ErrDisputeNotFound
}

// Update выполняет fn над копией спора под его блокировкой и фиксирует
// результат только при отсутствии ошибки.
func (r *DisputeRepository) Update(ctx context.Context, id uuid.UUID, fn func(d *models.Dispute) error) (*models.Dispute, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	draft := entry.dispute.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	entry.dispute = draft
	return draft.Clone(), nil
}

// ListByUser возвращает споры, где пользователь — одна из сторон,
// отсортированные по дате создания (новые первыми).
func (r *DisputeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error) {
	r.mu.RLock()
	entries := make([]*disputeEntry, 0, len(r.disputes))
	for _, entry := range r.disputes {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	result := make([]models.Dispute, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		if entry.dispute.IsParty(userID) {
			result = append(result, *entry.dispute.Clone())
		}
		entry.mu.Unlock()
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *DisputeRepository) entry(id uuid.UUID) (*disputeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.disputes[id]
	if !ok {
		return nil, apperror.ErrDisputeNotFound
	}
	return entry, nil
}
