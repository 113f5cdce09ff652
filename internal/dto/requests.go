package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateJobRequest represents the request to create a job
type CreateJobRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Sector       string     `json:"sector"`
	Categories   []string   `json:"categories"`
	City         string     `json:"city"`
	Postcode     string     `json:"postcode"`
	TimingMode   string     `json:"timing_mode"`
	TimingDate   *time.Time `json:"timing_date"`
	BudgetType   string     `json:"budget_type"`
	BudgetAmount int64      `json:"budget_amount"`
}

// UpdateJobRequest represents the request to update a job.
// Nil fields are left unchanged.
type UpdateJobRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Sector       *string    `json:"sector"`
	Categories   []string   `json:"categories"`
	City         *string    `json:"city"`
	Postcode     *string    `json:"postcode"`
	TimingMode   *string    `json:"timing_mode"`
	TimingDate   *time.Time `json:"timing_date"`
	BudgetType   *string    `json:"budget_type"`
	BudgetAmount *int64     `json:"budget_amount"`
	Status       *string    `json:"status"`
}

// SubmitQuoteRequest represents the request to submit a quote
type SubmitQuoteRequest struct {
	Price               int64   `json:"price" binding:"required"`
	DeliveryTime        string  `json:"delivery_time"`
	Message             string  `json:"message" binding:"required"`
	ProfessionalAvatar  string  `json:"professional_avatar"`
	ProfessionalRating  float64 `json:"professional_rating"`
	ProfessionalReviews int     `json:"professional_reviews"`
}

// SetQuoteStatusRequest represents the request to change a quote status
type SetQuoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AwardRequest represents the request to award a quote.
// MilestoneAmount missing or zero awards without creating a milestone.
type AwardRequest struct {
	QuoteID         uuid.UUID `json:"quote_id" binding:"required"`
	ProfessionalID  uuid.UUID `json:"professional_id" binding:"required"`
	MilestoneAmount int64     `json:"milestone_amount"`
}

// AddMilestoneRequest represents the request to add a milestone
type AddMilestoneRequest struct {
	Description string `json:"description" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
}

// SetMilestoneStatusRequest represents the request to change a milestone status
type SetMilestoneStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateDisputeRequest represents the request to open a dispute
type CreateDisputeRequest struct {
	Reason         string  `json:"reason" binding:"required"`
	Evidence       *string `json:"evidence"`
	RespondentName string  `json:"respondent_name"`
}

// AddDisputeMessageRequest represents the request to post a dispute message
type AddDisputeMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// MakeOfferRequest represents the request to make a settlement offer
type MakeOfferRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// ResolveDisputeRequest represents the request to settle a dispute
type ResolveDisputeRequest struct {
	Status          string `json:"status" binding:"required"`
	ReopenMilestone bool   `json:"reopen_milestone"`
}
