package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/services-marketplace/internal/identity"
	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/repository"
)

var testTime = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// recordingNotifier собирает отправленные уведомления для проверок.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID uuid.UUID
	Event  string
}

func (n *recordingNotifier) BroadcastToUser(userID uuid.UUID, event string, data interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{UserID: userID, Event: event})
	return nil
}

func (n *recordingNotifier) has(userID uuid.UUID, event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e.UserID == userID && e.Event == event {
			return true
		}
	}
	return false
}

type testEnv struct {
	jobs     *repository.JobRepository
	disputes *repository.DisputeRepository
	notifier *recordingNotifier

	jobService       *JobService
	quoteService     *QuoteService
	awardService     *AwardService
	milestoneService *MilestoneService
	disputeService   *DisputeService

	client       identity.Actor
	professional identity.Actor
	admin        identity.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	jobs := repository.NewJobRepository()
	disputes := repository.NewDisputeRepository()
	notifier := &recordingNotifier{}
	clock := func() time.Time { return testTime }

	jobService := NewJobService(jobs, nil)
	jobService.now = clock
	quoteService := NewQuoteService(jobs, notifier, nil)
	quoteService.now = clock
	awardService := NewAwardService(jobs, notifier, nil)
	awardService.now = clock
	milestoneService := NewMilestoneService(jobs, notifier, nil)
	milestoneService.now = clock
	disputeService := NewDisputeService(jobs, disputes, notifier, nil, time.Hour)
	disputeService.now = clock

	return &testEnv{
		jobs:             jobs,
		disputes:         disputes,
		notifier:         notifier,
		jobService:       jobService,
		quoteService:     quoteService,
		awardService:     awardService,
		milestoneService: milestoneService,
		disputeService:   disputeService,
		client:           identity.Actor{ID: uuid.New(), Name: "Анна Клиент", Role: identity.RoleClient},
		professional:     identity.Actor{ID: uuid.New(), Name: "Пётр Мастер", Role: identity.RoleProfessional},
		admin:            identity.Actor{ID: uuid.New(), Name: "Поддержка", Role: identity.RoleAdmin},
	}
}

// outsider возвращает пользователя, не являющегося стороной заявки.
func outsider() identity.Actor {
	return identity.Actor{ID: uuid.New(), Name: "Посторонний", Role: identity.RoleProfessional}
}

// createActiveJob создаёт активную заявку от имени клиента окружения.
func (env *testEnv) createActiveJob(t *testing.T) *models.Job {
	t.Helper()
	job, err := env.jobService.CreateJob(context.Background(), env.client, CreateJobInput{
		Title:        "Ремонт ванной комнаты",
		Description:  "Полная замена плитки и сантехники в ванной",
		Sector:       "home-improvement",
		Categories:   []string{"plumbing", "tiling"},
		City:         "Казань",
		Postcode:     "420000",
		TimingMode:   models.TimingModeFlexible,
		BudgetType:   models.BudgetTypeFixed,
		BudgetAmount: 150000,
	})
	require.NoError(t, err)
	return job
}

// submitQuote подаёт отклик исполнителя окружения на заявку.
func (env *testEnv) submitQuote(t *testing.T, jobID uuid.UUID) *models.Quote {
	t.Helper()
	quote, err := env.quoteService.SubmitQuote(context.Background(), env.professional, jobID, SubmitQuoteInput{
		Price:        120000,
		DeliveryTime: "2 недели",
		Message:      "Сделаю качественно, опыт больше десяти лет",
	})
	require.NoError(t, err)
	return quote
}

// awardedJob доводит заявку до назначения с этапом оплаты.
func (env *testEnv) awardedJob(t *testing.T, milestoneAmount int64) *models.Job {
	t.Helper()
	job := env.createActiveJob(t)
	quote := env.submitQuote(t, job.ID)
	job, err := env.awardService.AwardWithMilestone(context.Background(), env.client, job.ID, quote.ID, env.professional.ID, milestoneAmount)
	require.NoError(t, err)
	return job
}

// inProgressJob доводит заявку до принятого назначения (in-progress).
func (env *testEnv) inProgressJob(t *testing.T, milestoneAmount int64) *models.Job {
	t.Helper()
	job := env.awardedJob(t, milestoneAmount)
	job, err := env.awardService.AcceptAward(context.Background(), env.professional, job.ID)
	require.NoError(t, err)
	return job
}
