package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/services-marketplace/internal/identity"
	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/pkg/apperror"
)

func TestAwardService_AwardWithMilestone_Success(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)
	quote := env.submitQuote(t, job.ID)
	ctx := context.Background()

	awarded, err := env.awardService.AwardWithMilestone(ctx, env.client, job.ID, quote.ID, env.professional.ID, 50000)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusAwaitingAccept, awarded.Status)
	require.NotNil(t, awarded.AwardedProfessionalID)
	assert.Equal(t, env.professional.ID, *awarded.AwardedProfessionalID)
	assert.Equal(t, models.QuoteStatusAwarded, awarded.Quotes[0].Status)
	require.Len(t, awarded.Milestones, 1)
	assert.Equal(t, models.MilestoneStatusAwaitingAccept, awarded.Milestones[0].Status)
	assert.Equal(t, int64(50000), awarded.Milestones[0].Amount)
	assert.Equal(t, DefaultMilestoneDescription, awarded.Milestones[0].Description)

	require.Eventually(t, func() bool {
		return env.notifier.has(env.professional.ID, EventQuoteAwarded)
	}, time.Second, 10*time.Millisecond)
}

func TestAwardService_AwardWithMilestone_Validation(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)
	quote := env.submitQuote(t, job.ID)
	ctx := context.Background()

	// Нулевая сумма этапа.
	_, err := env.awardService.AwardWithMilestone(ctx, env.client, job.ID, quote.ID, env.professional.ID, 0)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	// Чужой отклик: professionalID не совпадает с автором отклика.
	_, err = env.awardService.AwardWithMilestone(ctx, env.client, job.ID, quote.ID, env.admin.ID, 50000)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	// Не владелец заявки.
	_, err = env.awardService.AwardWithMilestone(ctx, env.professional, job.ID, quote.ID, env.professional.ID, 50000)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	// Заявка осталась нетронутой.
	stored, err := env.jobService.GetJobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusActive, stored.Status)
	assert.Nil(t, stored.AwardedProfessionalID)
	assert.Empty(t, stored.Milestones)
}

func TestAwardService_AwardWithoutMilestone_KeepsJobStatus(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)
	quote := env.submitQuote(t, job.ID)

	awarded, err := env.awardService.AwardWithoutMilestone(context.Background(), env.client, job.ID, quote.ID, env.professional.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusActive, awarded.Status)
	assert.Equal(t, models.QuoteStatusAwarded, awarded.Quotes[0].Status)
	require.NotNil(t, awarded.AwardedProfessionalID)
	assert.Empty(t, awarded.Milestones)
}

func TestAwardService_AcceptAward_PromotesJobAndMilestones(t *testing.T) {
	env := newTestEnv(t)
	job := env.awardedJob(t, 50000)

	accepted, err := env.awardService.AcceptAward(context.Background(), env.professional, job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusInProgress, accepted.Status)
	assert.Equal(t, models.QuoteStatusAccepted, accepted.Quotes[0].Status)
	require.Len(t, accepted.Milestones, 1)
	assert.Equal(t, models.MilestoneStatusInProgress, accepted.Milestones[0].Status)

	require.Eventually(t, func() bool {
		return env.notifier.has(env.client.ID, EventAwardAccepted)
	}, time.Second, 10*time.Millisecond)
}

func TestAwardService_AcceptAward_RequiresAwardedQuote(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)
	env.submitQuote(t, job.ID)
	ctx := context.Background()

	// Отклик ещё pending: принятие недопустимо.
	_, err := env.awardService.AcceptAward(ctx, env.professional, job.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))

	// Посторонний специалист без отклика.
	_, err = env.awardService.AcceptAward(ctx, env.admin, job.ID)
	require.Error(t, err)
}

func TestAwardService_AcceptAward_SupersededProfessionalRejected(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)
	ctx := context.Background()

	second := identity.Actor{ID: uuid.New(), Name: "Иван Запасной", Role: identity.RoleProfessional}

	first := env.submitQuote(t, job.ID)
	secondQuote, err := env.quoteService.SubmitQuote(ctx, second, job.ID, SubmitQuoteInput{
		Price:   90000,
		Message: "Готов приступить на этой неделе",
	})
	require.NoError(t, err)

	_, err = env.awardService.AwardWithoutMilestone(ctx, env.client, job.ID, first.ID, env.professional.ID)
	require.NoError(t, err)

	// Клиент переназначил заявку второму исполнителю; отклик первого
	// остаётся awarded, но закрепление уже не за ним.
	reawarded, err := env.awardService.AwardWithoutMilestone(ctx, env.client, job.ID, secondQuote.ID, second.ID)
	require.NoError(t, err)
	require.NotNil(t, reawarded.AwardedProfessionalID)
	assert.Equal(t, second.ID, *reawarded.AwardedProfessionalID)

	// Устаревшее назначение первого исполнителя принять нельзя.
	_, err = env.awardService.AcceptAward(ctx, env.professional, job.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))

	stored, err := env.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusActive, stored.Status)
	assert.Equal(t, models.QuoteStatusAwarded, stored.Quotes[0].Status)
	require.NotNil(t, stored.AwardedProfessionalID)
	assert.Equal(t, second.ID, *stored.AwardedProfessionalID)

	// Текущий закреплённый исполнитель принимает назначение штатно.
	accepted, err := env.awardService.AcceptAward(ctx, second, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, accepted.Status)
	assert.Equal(t, models.QuoteStatusAccepted, accepted.Quotes[1].Status)
}

func TestAwardService_RejectAward_ClearsAssignment(t *testing.T) {
	env := newTestEnv(t)
	job := env.awardedJob(t, 50000)

	rejected, err := env.awardService.RejectAward(context.Background(), env.professional, job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.QuoteStatusRejected, rejected.Quotes[0].Status)
	assert.Nil(t, rejected.AwardedProfessionalID)
	// Заявка и этапы остаются как есть: решение о возврате в active
	// принимает клиент.
	assert.Equal(t, models.JobStatusAwaitingAccept, rejected.Status)
	require.Len(t, rejected.Milestones, 1)
	assert.Equal(t, models.MilestoneStatusAwaitingAccept, rejected.Milestones[0].Status)
}

func TestAwardService_ReAward_AppendsMilestone(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)
	ctx := context.Background()

	second := identity.Actor{ID: uuid.New(), Name: "Иван Запасной", Role: identity.RoleProfessional}

	first := env.submitQuote(t, job.ID)
	secondQuote, err := env.quoteService.SubmitQuote(ctx, second, job.ID, SubmitQuoteInput{
		Price:   90000,
		Message: "Сделаю ту же работу немного дешевле",
	})
	require.NoError(t, err)

	_, err = env.awardService.AwardWithMilestone(ctx, env.client, job.ID, first.ID, env.professional.ID, 50000)
	require.NoError(t, err)

	// Первый исполнитель отказался.
	_, err = env.awardService.RejectAward(ctx, env.professional, job.ID)
	require.NoError(t, err)

	// Повторное назначение по второму отклику добавляет новый этап,
	// не уничтожая этап первого назначения.
	reawarded, err := env.awardService.AwardWithMilestone(ctx, env.client, job.ID, secondQuote.ID, second.ID, 60000)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusAwaitingAccept, reawarded.Status)
	require.NotNil(t, reawarded.AwardedProfessionalID)
	assert.Equal(t, second.ID, *reawarded.AwardedProfessionalID)
	require.Len(t, reawarded.Milestones, 2)
	assert.Equal(t, int64(50000), reawarded.Milestones[0].Amount)
	assert.Equal(t, int64(60000), reawarded.Milestones[1].Amount)

	// Отклики: первый отклонён, второй назначен.
	assert.Equal(t, models.QuoteStatusRejected, reawarded.Quotes[0].Status)
	assert.Equal(t, models.QuoteStatusAwarded, reawarded.Quotes[1].Status)
}

func TestAwardService_SubmitQuoteAfterAward_Conflict(t *testing.T) {
	env := newTestEnv(t)
	job := env.awardedJob(t, 50000)

	// Заявка в awaiting-accept отклики не принимает.
	_, err := env.quoteService.SubmitQuote(context.Background(), env.admin, job.ID, SubmitQuoteInput{
		Price:   80000,
		Message: "Возьмусь вместо назначенного исполнителя",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestAwardService_FullEscrowLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Заявка -> отклик -> назначение с этапом -> принятие -> выплата.
	job := env.createActiveJob(t)
	quote := env.submitQuote(t, job.ID)

	awarded, err := env.awardService.AwardWithMilestone(ctx, env.client, job.ID, quote.ID, env.professional.ID, 50000)
	require.NoError(t, err)
	require.Len(t, awarded.Milestones, 1)

	accepted, err := env.awardService.AcceptAward(ctx, env.professional, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, accepted.Status)

	released, err := env.milestoneService.SetMilestoneStatus(ctx, env.client, job.ID, accepted.Milestones[0].ID, models.MilestoneStatusReleased)
	require.NoError(t, err)
	require.Len(t, released.Milestones, 1)
	assert.Equal(t, models.MilestoneStatusReleased, released.Milestones[0].Status)
	require.NotNil(t, released.Milestones[0].ReleasedAt)
	assert.Equal(t, testTime, *released.Milestones[0].ReleasedAt)

	require.Eventually(t, func() bool {
		return env.notifier.has(env.professional.ID, EventMilestoneReleased)
	}, time.Second, 10*time.Millisecond)
}
