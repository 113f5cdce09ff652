package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DisputeStatusOpen     = "open"
	DisputeStatusResolved = "resolved"
	DisputeStatusClosed   = "closed"
)

// ValidDisputeStatuses список валидных статусов споров
var ValidDisputeStatuses = map[string]struct{}{
	DisputeStatusOpen:     {},
	DisputeStatusResolved: {},
	DisputeStatusClosed:   {},
}

// Dispute описывает спор по одному этапу оплаты.
// Amount — снимок суммы этапа на момент открытия спора.
type Dispute struct {
	ID                 uuid.UUID        `json:"id"`
	JobID              uuid.UUID        `json:"job_id"`
	MilestoneID        uuid.UUID        `json:"milestone_id"`
	ClaimantID         uuid.UUID        `json:"claimant_id"`
	ClaimantName       string           `json:"claimant_name"`
	RespondentID       uuid.UUID        `json:"respondent_id"`
	RespondentName     string           `json:"respondent_name"`
	Amount             int64            `json:"amount"`
	Reason             string           `json:"reason"`
	Evidence           *string          `json:"evidence,omitempty"`
	Status             string           `json:"status"`
	Messages           []DisputeMessage `json:"messages"`
	ClaimantOffer      *DisputeOffer    `json:"claimant_offer,omitempty"`
	RespondentOffer    *DisputeOffer    `json:"respondent_offer,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	ResolvedAt         *time.Time       `json:"resolved_at,omitempty"`
	TeamInterventionAt time.Time        `json:"team_intervention_at"`
}

// DisputeMessage — одно сообщение в треде спора.
type DisputeMessage struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	UserName       string    `json:"user_name"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	IsTeamResponse bool      `json:"is_team_response"`
}

// DisputeOffer — предложение урегулирования от одной из сторон.
// Новое предложение той же стороны замещает предыдущее.
type DisputeOffer struct {
	UserID    uuid.UUID `json:"user_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Clone возвращает глубокую копию спора.
func (d *Dispute) Clone() *Dispute {
	cp := *d
	if d.Evidence != nil {
		e := *d.Evidence
		cp.Evidence = &e
	}
	if d.ResolvedAt != nil {
		t := *d.ResolvedAt
		cp.ResolvedAt = &t
	}
	if d.ClaimantOffer != nil {
		o := *d.ClaimantOffer
		cp.ClaimantOffer = &o
	}
	if d.RespondentOffer != nil {
		o := *d.RespondentOffer
		cp.RespondentOffer = &o
	}
	cp.Messages = append([]DisputeMessage(nil), d.Messages...)
	return &cp
}

// IsParty проверяет, является ли пользователь одной из сторон спора.
func (d *Dispute) IsParty(userID uuid.UUID) bool {
	return d.ClaimantID == userID || d.RespondentID == userID
}
