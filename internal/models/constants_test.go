package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanJobTransition_Terminal(t *testing.T) {
	// completed и cancelled терминальны.
	assert.False(t, CanJobTransition(JobStatusCompleted, JobStatusActive))
	assert.False(t, CanJobTransition(JobStatusCancelled, JobStatusActive))

	// cancelled достижим из любого нетерминального статуса.
	assert.True(t, CanJobTransition(JobStatusActive, JobStatusCancelled))
	assert.True(t, CanJobTransition(JobStatusAwaitingAccept, JobStatusCancelled))
	assert.True(t, CanJobTransition(JobStatusInProgress, JobStatusCancelled))

	// Заявка движется только вперёд.
	assert.False(t, CanJobTransition(JobStatusInProgress, JobStatusActive))
	assert.False(t, CanJobTransition(JobStatusActive, JobStatusCompleted))
}

func TestCanQuoteTransition(t *testing.T) {
	assert.True(t, CanQuoteTransition(QuoteStatusPending, QuoteStatusAwarded))
	assert.True(t, CanQuoteTransition(QuoteStatusAwarded, QuoteStatusAccepted))
	assert.True(t, CanQuoteTransition(QuoteStatusAwarded, QuoteStatusRejected))

	// Принятый или отклонённый отклик не переигрывается.
	assert.False(t, CanQuoteTransition(QuoteStatusAccepted, QuoteStatusRejected))
	assert.False(t, CanQuoteTransition(QuoteStatusRejected, QuoteStatusAwarded))
	// Назначение минует pending только явным переходом.
	assert.False(t, CanQuoteTransition(QuoteStatusPending, QuoteStatusAccepted))
}

func TestCanMilestoneTransition(t *testing.T) {
	assert.True(t, CanMilestoneTransition(MilestoneStatusAwaitingAccept, MilestoneStatusInProgress))
	assert.True(t, CanMilestoneTransition(MilestoneStatusInProgress, MilestoneStatusReleased))
	assert.True(t, CanMilestoneTransition(MilestoneStatusInProgress, MilestoneStatusDisputed))

	// released терминален, повторная выплата невозможна.
	assert.False(t, CanMilestoneTransition(MilestoneStatusReleased, MilestoneStatusReleased))
	assert.False(t, CanMilestoneTransition(MilestoneStatusReleased, MilestoneStatusInProgress))
	// Из awaiting-accept нельзя сразу выплатить или оспорить.
	assert.False(t, CanMilestoneTransition(MilestoneStatusAwaitingAccept, MilestoneStatusReleased))
	assert.False(t, CanMilestoneTransition(MilestoneStatusAwaitingAccept, MilestoneStatusDisputed))
}
