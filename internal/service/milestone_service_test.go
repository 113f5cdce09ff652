package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/pkg/apperror"
)

func TestMilestoneService_AddMilestone_BothParties(t *testing.T) {
	env := newTestEnv(t)
	job := env.inProgressJob(t, 50000)
	ctx := context.Background()

	// Этап может предложить клиент.
	updated, err := env.milestoneService.AddMilestone(ctx, env.client, job.ID, "Закупка материалов", 20000)
	require.NoError(t, err)
	require.Len(t, updated.Milestones, 2)
	assert.Equal(t, models.MilestoneStatusAwaitingAccept, updated.Milestones[1].Status)

	// И назначенный исполнитель.
	updated, err = env.milestoneService.AddMilestone(ctx, env.professional, job.ID, "Финальная уборка", 5000)
	require.NoError(t, err)
	assert.Len(t, updated.Milestones, 3)

	// Но не посторонний пользователь.
	_, err = env.milestoneService.AddMilestone(ctx, outsider(), job.ID, "Чужой этап", 1000)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestMilestoneService_AddMilestone_Validation(t *testing.T) {
	env := newTestEnv(t)
	job := env.inProgressJob(t, 50000)
	ctx := context.Background()

	_, err := env.milestoneService.AddMilestone(ctx, env.client, job.ID, "Этап без суммы", 0)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = env.milestoneService.AddMilestone(ctx, env.client, job.ID, "", 1000)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestMilestoneService_DeleteMilestone_AwaitingAcceptOnly(t *testing.T) {
	env := newTestEnv(t)
	job := env.inProgressJob(t, 50000)
	ctx := context.Background()

	added, err := env.milestoneService.AddMilestone(ctx, env.client, job.ID, "Лишний этап", 10000)
	require.NoError(t, err)
	extra := added.Milestones[1]

	// Непринятый этап удаляется.
	updated, err := env.milestoneService.DeleteMilestone(ctx, env.client, job.ID, extra.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Milestones, 1)

	// Принятый (in-progress) этап удалить нельзя.
	_, err = env.milestoneService.DeleteMilestone(ctx, env.client, job.ID, updated.Milestones[0].ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestMilestoneService_AcceptMilestone_ByAwardedProfessional(t *testing.T) {
	env := newTestEnv(t)
	job := env.inProgressJob(t, 50000)
	ctx := context.Background()

	added, err := env.milestoneService.AddMilestone(ctx, env.client, job.ID, "Дополнительные работы", 15000)
	require.NoError(t, err)
	extra := added.Milestones[1]

	// Клиент принять этап не может.
	_, err = env.milestoneService.AcceptMilestone(ctx, env.client, job.ID, extra.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	updated, err := env.milestoneService.AcceptMilestone(ctx, env.professional, job.ID, extra.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusInProgress, updated.Milestones[1].Status)
}

func TestMilestoneService_AcceptMilestone_PromotesAwaitingJob(t *testing.T) {
	env := newTestEnv(t)
	job := env.awardedJob(t, 50000)
	require.Equal(t, models.JobStatusAwaitingAccept, job.Status)

	// Принятие этапа исполнителем продвигает и заявку: обе сущности
	// переходят в in-progress одним действием.
	updated, err := env.milestoneService.AcceptMilestone(context.Background(), env.professional, job.ID, job.Milestones[0].ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusInProgress, updated.Status)
	assert.Equal(t, models.MilestoneStatusInProgress, updated.Milestones[0].Status)
}

func TestMilestoneService_Release_IdempotencyGuard(t *testing.T) {
	env := newTestEnv(t)
	job := env.inProgressJob(t, 50000)
	milestoneID := job.Milestones[0].ID
	ctx := context.Background()

	released, err := env.milestoneService.SetMilestoneStatus(ctx, env.client, job.ID, milestoneID, models.MilestoneStatusReleased)
	require.NoError(t, err)
	require.NotNil(t, released.Milestones[0].ReleasedAt)
	firstReleasedAt := *released.Milestones[0].ReleasedAt

	// Повторная выплата — ошибка перехода, отметка времени не меняется.
	_, err = env.milestoneService.SetMilestoneStatus(ctx, env.client, job.ID, milestoneID, models.MilestoneStatusReleased)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))

	stored, err := env.jobService.GetJobByID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Milestones[0].ReleasedAt)
	assert.Equal(t, firstReleasedAt, *stored.Milestones[0].ReleasedAt)
	assert.Equal(t, models.MilestoneStatusReleased, stored.Milestones[0].Status)
}

func TestMilestoneService_Release_ClientOnly(t *testing.T) {
	env := newTestEnv(t)
	job := env.inProgressJob(t, 50000)
	ctx := context.Background()

	// Исполнитель не может выплатить этап самому себе.
	_, err := env.milestoneService.SetMilestoneStatus(ctx, env.professional, job.ID, job.Milestones[0].ID, models.MilestoneStatusReleased)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	// Администратор может.
	released, err := env.milestoneService.SetMilestoneStatus(ctx, env.admin, job.ID, job.Milestones[0].ID, models.MilestoneStatusReleased)
	require.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusReleased, released.Milestones[0].Status)
}

func TestMilestoneService_SetStatus_DisputedRejected(t *testing.T) {
	env := newTestEnv(t)
	job := env.inProgressJob(t, 50000)

	// disputed проставляется только движком споров.
	_, err := env.milestoneService.SetMilestoneStatus(context.Background(), env.client, job.ID, job.Milestones[0].ID, models.MilestoneStatusDisputed)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestMilestoneService_Release_RequiresInProgress(t *testing.T) {
	env := newTestEnv(t)
	job := env.awardedJob(t, 50000)

	// Этап ещё awaiting-accept: выплата недопустима.
	_, err := env.milestoneService.SetMilestoneStatus(context.Background(), env.client, job.ID, job.Milestones[0].ID, models.MilestoneStatusReleased)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}
