package dto

import (
	"github.com/ignatzorin/services-marketplace/internal/models"
)

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse is the standard success envelope
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JobListResponse wraps a list of jobs
type JobListResponse struct {
	Jobs  []models.Job `json:"jobs"`
	Total int          `json:"total"`
}

// DisputeListResponse wraps a list of disputes
type DisputeListResponse struct {
	Disputes []models.Dispute `json:"disputes"`
	Total    int              `json:"total"`
}
