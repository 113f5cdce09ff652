package models

import (
	"time"

	"github.com/google/uuid"
)

// Job описывает заявку клиента на выполнение работ.
// Quotes и Milestones хранятся внутри заявки и изменяются только вместе с ней.
type Job struct {
	ID                    uuid.UUID   `json:"id"`
	ClientID              uuid.UUID   `json:"client_id"`
	Title                 string      `json:"title"`
	Description           string      `json:"description"`
	Sector                string      `json:"sector"`
	Categories            []string    `json:"categories"`
	City                  string      `json:"city,omitempty"`
	Postcode              string      `json:"postcode,omitempty"`
	TimingMode            string      `json:"timing_mode"`
	TimingDate            *time.Time  `json:"timing_date,omitempty"`
	BudgetType            string      `json:"budget_type"`
	BudgetAmount          int64       `json:"budget_amount"`
	Status                string      `json:"status"`
	PostedAt              time.Time   `json:"posted_at"`
	AwardedProfessionalID *uuid.UUID  `json:"awarded_professional_id,omitempty"`
	Quotes                []Quote     `json:"quotes"`
	Milestones            []Milestone `json:"milestones,omitempty"`
}

// Quote представляет отклик специалиста на заявку.
// Поля Professional* — снимок профиля на момент подачи отклика.
type Quote struct {
	ID                  uuid.UUID `json:"id"`
	ProfessionalID      uuid.UUID `json:"professional_id"`
	ProfessionalName    string    `json:"professional_name"`
	ProfessionalAvatar  string    `json:"professional_avatar,omitempty"`
	ProfessionalRating  float64   `json:"professional_rating"`
	ProfessionalReviews int       `json:"professional_reviews"`
	Price               int64     `json:"price"`
	DeliveryTime        string    `json:"delivery_time"`
	Message             string    `json:"message"`
	SubmittedAt         time.Time `json:"submitted_at"`
	Status              string    `json:"status"`
}

// Milestone описывает этап оплаты по заявке. Все суммы — в минорных единицах валюты.
type Milestone struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Amount      int64      `json:"amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
	DisputeID   *uuid.UUID `json:"dispute_id,omitempty"`
}

// Clone возвращает глубокую копию заявки вместе с откликами и этапами.
func (j *Job) Clone() *Job {
	cp := *j
	if j.TimingDate != nil {
		t := *j.TimingDate
		cp.TimingDate = &t
	}
	if j.AwardedProfessionalID != nil {
		id := *j.AwardedProfessionalID
		cp.AwardedProfessionalID = &id
	}
	cp.Categories = append([]string(nil), j.Categories...)
	cp.Quotes = append([]Quote(nil), j.Quotes...)
	cp.Milestones = make([]Milestone, len(j.Milestones))
	for i, m := range j.Milestones {
		cp.Milestones[i] = *m.clone()
	}
	return &cp
}

func (m *Milestone) clone() *Milestone {
	cp := *m
	if m.ReleasedAt != nil {
		t := *m.ReleasedAt
		cp.ReleasedAt = &t
	}
	if m.DisputeID != nil {
		id := *m.DisputeID
		cp.DisputeID = &id
	}
	return &cp
}

// FindQuote ищет отклик по идентификатору.
func (j *Job) FindQuote(quoteID uuid.UUID) *Quote {
	for i := range j.Quotes {
		if j.Quotes[i].ID == quoteID {
			return &j.Quotes[i]
		}
	}
	return nil
}

// FindQuoteByProfessional ищет отклик конкретного специалиста.
func (j *Job) FindQuoteByProfessional(professionalID uuid.UUID) *Quote {
	for i := range j.Quotes {
		if j.Quotes[i].ProfessionalID == professionalID {
			return &j.Quotes[i]
		}
	}
	return nil
}

// FindMilestone ищет этап по идентификатору.
func (j *Job) FindMilestone(milestoneID uuid.UUID) *Milestone {
	for i := range j.Milestones {
		if j.Milestones[i].ID == milestoneID {
			return &j.Milestones[i]
		}
	}
	return nil
}
