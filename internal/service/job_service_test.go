package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/pkg/apperror"
)

func TestJobService_CreateJob_Success(t *testing.T) {
	env := newTestEnv(t)

	job := env.createActiveJob(t)

	assert.Equal(t, models.JobStatusActive, job.Status)
	assert.Equal(t, env.client.ID, job.ClientID)
	assert.Equal(t, testTime, job.PostedAt)
	assert.Nil(t, job.AwardedProfessionalID)
	assert.Empty(t, job.Quotes)
}

func TestJobService_CreateJob_ValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateJobInput
	}{
		{
			name: "короткий заголовок",
			in:   CreateJobInput{Title: "ab", Description: "Достаточно длинное описание работ"},
		},
		{
			name: "короткое описание",
			in:   CreateJobInput{Title: "Ремонт кухни", Description: "мало"},
		},
		{
			name: "отрицательный бюджет",
			in: CreateJobInput{
				Title:        "Ремонт кухни",
				Description:  "Достаточно длинное описание работ",
				BudgetAmount: -100,
			},
		},
		{
			name: "specific без даты",
			in: CreateJobInput{
				Title:       "Ремонт кухни",
				Description: "Достаточно длинное описание работ",
				TimingMode:  models.TimingModeSpecific,
			},
		},
		{
			name: "неизвестный режим сроков",
			in: CreateJobInput{
				Title:       "Ремонт кухни",
				Description: "Достаточно длинное описание работ",
				TimingMode:  "someday",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.jobService.CreateJob(ctx, env.client, tt.in)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestJobService_CreateJob_DefaultsTimingMode(t *testing.T) {
	env := newTestEnv(t)

	job, err := env.jobService.CreateJob(context.Background(), env.client, CreateJobInput{
		Title:       "Сборка мебели",
		Description: "Собрать шкаф и две тумбочки из ИКЕА",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TimingModeFlexible, job.TimingMode)
}

func TestJobService_UpdateJob_OnlyOwner(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)

	title := "Новый заголовок заявки"
	_, err := env.jobService.UpdateJob(context.Background(), env.professional, job.ID, UpdateJobInput{Title: &title})
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	updated, err := env.jobService.UpdateJob(context.Background(), env.client, job.ID, UpdateJobInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestJobService_UpdateJob_StatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)
	ctx := context.Background()

	// active -> completed запрещён
	completed := models.JobStatusCompleted
	_, err := env.jobService.UpdateJob(ctx, env.client, job.ID, UpdateJobInput{Status: &completed})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))

	// active -> cancelled разрешён
	cancelled := models.JobStatusCancelled
	updated, err := env.jobService.UpdateJob(ctx, env.client, job.ID, UpdateJobInput{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, updated.Status)

	// cancelled терминален
	active := models.JobStatusActive
	_, err = env.jobService.UpdateJob(ctx, env.client, job.ID, UpdateJobInput{Status: &active})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestJobService_UpdateJob_InvalidTransitionDoesNotMutate(t *testing.T) {
	env := newTestEnv(t)
	job := env.createActiveJob(t)
	ctx := context.Background()

	// Валидное изменение заголовка вместе с недопустимым переходом
	// статуса не должно фиксироваться вовсе.
	title := "Совсем другой заголовок"
	completed := models.JobStatusCompleted
	_, err := env.jobService.UpdateJob(ctx, env.client, job.ID, UpdateJobInput{Title: &title, Status: &completed})
	require.Error(t, err)

	stored, err := env.jobService.GetJobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, stored.Title)
	assert.Equal(t, models.JobStatusActive, stored.Status)
}

func TestJobService_DeleteJob_ForbiddenAfterAward(t *testing.T) {
	env := newTestEnv(t)
	job := env.awardedJob(t, 50000)
	ctx := context.Background()

	err := env.jobService.DeleteJob(ctx, env.client, job.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	// Заявка без назначенного исполнителя удаляется владельцем.
	free := env.createActiveJob(t)
	require.NoError(t, env.jobService.DeleteJob(ctx, env.client, free.ID))
	_, err = env.jobService.GetJobByID(ctx, free.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestJobService_ListAvailableJobs_OnlyActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createActiveJob(t)
	awarded := env.awardedJob(t, 50000)

	jobs, err := env.jobService.ListAvailableJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.NotEqual(t, awarded.ID, jobs[0].ID)
	assert.Equal(t, models.JobStatusActive, jobs[0].Status)
}
